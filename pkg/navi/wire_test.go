package navi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestClientRequestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		req  ClientRouteRequest
	}{
		{
			name: "both poi ids",
			req: ClientRouteRequest{
				Version:    1,
				Mode:       2,
				Policy:     3,
				StartPoiID: "123",
				EndPoiID:   "456",
			},
		},
		{
			name: "raw points with negative height",
			req: ClientRouteRequest{
				Version:         1,
				RealTimeTraffic: true,
				StartPoint:      &GeoPoint{Longitude: 116.4418912826, Latitude: 39.9090135175, Height: -3, Floor: 2, ModelID: 7},
				EndPoint:        &GeoPoint{Longitude: 116.4370057383, Latitude: 39.9152984703},
			},
		},
		{
			name: "mixed",
			req: ClientRouteRequest{
				Version:    1,
				StartPoiID: "123",
				EndPoint:   &GeoPoint{Longitude: 116.45, Latitude: 39.91},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeClientRequest(EncodeClientRequest(&tt.req))
			require.NoError(t, err)
			assert.Equal(t, &tt.req, got)
		})
	}
}

func TestDecodeClientRequestSkipsUnknownFields(t *testing.T) {
	b := EncodeClientRequest(&ClientRouteRequest{Version: 4, StartPoiID: "9"})
	b = protowire.AppendTag(b, 99, protowire.BytesType)
	b = protowire.AppendString(b, "ignored")

	got, err := DecodeClientRequest(b)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), got.Version)
	assert.Equal(t, "9", got.StartPoiID)
}

func TestDecodeClientRequestMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "truncated tag", data: []byte{0x80}},
		{name: "truncated string", data: []byte{0x2a, 0x05, 'a'}},
		{name: "wrong wire type for version", data: []byte{0x0d, 0x00, 0x00, 0x00, 0x00}},
		{name: "bad nested point", data: []byte{0x3a, 0x02, 0x09, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeClientRequest(tt.data)
			require.Error(t, err)
			assert.True(t, IsTranslationError(err))
		})
	}
}

func TestServerParameterRoundTrip(t *testing.T) {
	req := &NormalizedRouteRequest{
		Version: 1,
		Mode:    1,
		Policy:  2,
		Start: PoiEndpoint(PoiInfo{
			PoiID:   123,
			PoiName: "Gate A",
			RoadID:  77,
			Entry:   GeoPoint{Longitude: 116.1, Latitude: 39.2, Floor: -1, ModelID: 5},
			ModelID: 5,
		}),
		End: PointEndpoint(GeoPoint{Longitude: 116.45, Latitude: 39.91}),
	}

	b, err := EncodeServerParameter(req)
	require.NoError(t, err)

	got, err := DecodeServerParameter(b)
	require.NoError(t, err)
	assert.Equal(t, req, got)
	assert.True(t, got.Start.IsPoi())
	assert.False(t, got.End.IsPoi())
}

func TestEncodeServerParameterRejectsBadEndpoints(t *testing.T) {
	point := GeoPoint{Longitude: 1}
	poi := PoiInfo{PoiID: 1}

	_, err := EncodeServerParameter(&NormalizedRouteRequest{End: PointEndpoint(point)})
	assert.ErrorContains(t, err, "start: endpoint is empty")

	_, err = EncodeServerParameter(&NormalizedRouteRequest{
		Start: PointEndpoint(point),
		End:   Endpoint{Poi: &poi, Point: &point},
	})
	assert.ErrorContains(t, err, "both poi and point")
}

func TestEndpointKind(t *testing.T) {
	assert.Equal(t, "poi", PoiEndpoint(PoiInfo{}).Kind())
	assert.Equal(t, "point", PointEndpoint(GeoPoint{}).Kind())
	assert.Equal(t, "none", Endpoint{}.Kind())
}
