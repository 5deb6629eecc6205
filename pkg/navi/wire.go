package navi

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the route planning messages.
const (
	geoLongitude protowire.Number = 1
	geoLatitude  protowire.Number = 2
	geoHeight    protowire.Number = 3
	geoFloor     protowire.Number = 4
	geoModelID   protowire.Number = 5

	clientVersion         protowire.Number = 1
	clientMode            protowire.Number = 2
	clientPolicy          protowire.Number = 3
	clientRealTimeTraffic protowire.Number = 4
	clientStartPoiID      protowire.Number = 5
	clientEndPoiID        protowire.Number = 6
	clientStartPoint      protowire.Number = 7
	clientEndPoint        protowire.Number = 8

	poiID      protowire.Number = 1
	poiName    protowire.Number = 2
	poiRoadID  protowire.Number = 3
	poiEntry   protowire.Number = 4
	poiModelID protowire.Number = 5

	serverVersion         protowire.Number = 1
	serverMode            protowire.Number = 2
	serverPolicy          protowire.Number = 3
	serverRealTimeTraffic protowire.Number = 4
	serverStartPoi        protowire.Number = 5
	serverStartPoint      protowire.Number = 6
	serverEndPoi          protowire.Number = 7
	serverEndPoint        protowire.Number = 8
)

// EncodeClientRequest encodes a client route request as a
// RoutePlanClientParameter message.
func EncodeClientRequest(req *ClientRouteRequest) []byte {
	var b []byte
	b = appendVarint(b, clientVersion, uint64(req.Version))
	b = appendVarint(b, clientMode, uint64(req.Mode))
	b = appendVarint(b, clientPolicy, uint64(req.Policy))
	b = appendBool(b, clientRealTimeTraffic, req.RealTimeTraffic)
	b = appendString(b, clientStartPoiID, req.StartPoiID)
	b = appendString(b, clientEndPoiID, req.EndPoiID)
	if req.StartPoint != nil {
		b = appendMessage(b, clientStartPoint, appendGeoPoint(nil, *req.StartPoint))
	}
	if req.EndPoint != nil {
		b = appendMessage(b, clientEndPoint, appendGeoPoint(nil, *req.EndPoint))
	}
	return b
}

// DecodeClientRequest parses a RoutePlanClientParameter message.
// Unknown fields are skipped.
func DecodeClientRequest(b []byte) (*ClientRouteRequest, error) {
	req := &ClientRouteRequest{}
	err := decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case clientVersion:
			return consumeUint32(typ, b, &req.Version)
		case clientMode:
			return consumeUint32(typ, b, &req.Mode)
		case clientPolicy:
			return consumeUint32(typ, b, &req.Policy)
		case clientRealTimeTraffic:
			var v uint64
			n, err := consumeVarint(typ, b, &v)
			req.RealTimeTraffic = v != 0
			return n, err
		case clientStartPoiID:
			return consumeString(typ, b, &req.StartPoiID)
		case clientEndPoiID:
			return consumeString(typ, b, &req.EndPoiID)
		case clientStartPoint:
			p := &GeoPoint{}
			req.StartPoint = p
			return consumeMessage(typ, b, func(m []byte) error { return decodeGeoPoint(m, p) })
		case clientEndPoint:
			p := &GeoPoint{}
			req.EndPoint = p
			return consumeMessage(typ, b, func(m []byte) error { return decodeGeoPoint(m, p) })
		}
		return 0, nil
	})
	if err != nil {
		return nil, &TranslationError{Reason: "malformed binary payload", Err: err}
	}
	return req, nil
}

// EncodeServerParameter encodes a normalized request as the engine's
// RoutePlanServerParameter message.
func EncodeServerParameter(req *NormalizedRouteRequest) ([]byte, error) {
	var b []byte
	b = appendVarint(b, serverVersion, uint64(req.Version))
	b = appendVarint(b, serverMode, uint64(req.Mode))
	b = appendVarint(b, serverPolicy, uint64(req.Policy))
	b = appendBool(b, serverRealTimeTraffic, req.RealTimeTraffic)

	var err error
	if b, err = appendEndpoint(b, req.Start, serverStartPoi, serverStartPoint); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	if b, err = appendEndpoint(b, req.End, serverEndPoi, serverEndPoint); err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}
	return b, nil
}

// DecodeServerParameter parses a RoutePlanServerParameter message.
func DecodeServerParameter(b []byte) (*NormalizedRouteRequest, error) {
	req := &NormalizedRouteRequest{}
	err := decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case serverVersion:
			return consumeUint32(typ, b, &req.Version)
		case serverMode:
			return consumeUint32(typ, b, &req.Mode)
		case serverPolicy:
			return consumeUint32(typ, b, &req.Policy)
		case serverRealTimeTraffic:
			var v uint64
			n, err := consumeVarint(typ, b, &v)
			req.RealTimeTraffic = v != 0
			return n, err
		case serverStartPoi:
			p := &PoiInfo{}
			req.Start = Endpoint{Poi: p}
			return consumeMessage(typ, b, func(m []byte) error { return decodePoiInfo(m, p) })
		case serverStartPoint:
			p := &GeoPoint{}
			req.Start = Endpoint{Point: p}
			return consumeMessage(typ, b, func(m []byte) error { return decodeGeoPoint(m, p) })
		case serverEndPoi:
			p := &PoiInfo{}
			req.End = Endpoint{Poi: p}
			return consumeMessage(typ, b, func(m []byte) error { return decodePoiInfo(m, p) })
		case serverEndPoint:
			p := &GeoPoint{}
			req.End = Endpoint{Point: p}
			return consumeMessage(typ, b, func(m []byte) error { return decodeGeoPoint(m, p) })
		}
		return 0, nil
	})
	if err != nil {
		return nil, fmt.Errorf("decode server parameter: %w", err)
	}
	return req, nil
}

func appendEndpoint(b []byte, e Endpoint, poiNum, pointNum protowire.Number) ([]byte, error) {
	switch {
	case e.Poi != nil && e.Point != nil:
		return nil, fmt.Errorf("endpoint has both poi and point set")
	case e.Poi != nil:
		return appendMessage(b, poiNum, appendPoiInfo(nil, *e.Poi)), nil
	case e.Point != nil:
		return appendMessage(b, pointNum, appendGeoPoint(nil, *e.Point)), nil
	default:
		return nil, fmt.Errorf("endpoint is empty")
	}
}

func appendGeoPoint(b []byte, p GeoPoint) []byte {
	b = appendDouble(b, geoLongitude, p.Longitude)
	b = appendDouble(b, geoLatitude, p.Latitude)
	b = appendInt32(b, geoHeight, p.Height)
	b = appendInt32(b, geoFloor, p.Floor)
	b = appendVarint(b, geoModelID, uint64(p.ModelID))
	return b
}

func appendPoiInfo(b []byte, p PoiInfo) []byte {
	b = appendVarint(b, poiID, p.PoiID)
	b = appendString(b, poiName, p.PoiName)
	b = appendVarint(b, poiRoadID, p.RoadID)
	b = appendMessage(b, poiEntry, appendGeoPoint(nil, p.Entry))
	b = appendVarint(b, poiModelID, p.ModelID)
	return b
}

func decodeGeoPoint(b []byte, p *GeoPoint) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case geoLongitude:
			return consumeDouble(typ, b, &p.Longitude)
		case geoLatitude:
			return consumeDouble(typ, b, &p.Latitude)
		case geoHeight:
			return consumeInt32(typ, b, &p.Height)
		case geoFloor:
			return consumeInt32(typ, b, &p.Floor)
		case geoModelID:
			return consumeUint32(typ, b, &p.ModelID)
		}
		return 0, nil
	})
}

func decodePoiInfo(b []byte, p *PoiInfo) error {
	return decodeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case poiID:
			return consumeVarint(typ, b, &p.PoiID)
		case poiName:
			return consumeString(typ, b, &p.PoiName)
		case poiRoadID:
			return consumeVarint(typ, b, &p.RoadID)
		case poiEntry:
			return consumeMessage(typ, b, func(m []byte) error { return decodeGeoPoint(m, &p.Entry) })
		case poiModelID:
			return consumeVarint(typ, b, &p.ModelID)
		}
		return 0, nil
	})
}

// decodeFields walks the fields of a message. fn returns the number of bytes
// it consumed, or 0 for fields it does not know, which are skipped.
func decodeFields(b []byte, fn func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		m, err := fn(num, typ, b)
		if err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}
		if m == 0 {
			m = protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return protowire.ParseError(m)
			}
		}
		b = b[m:]
	}
	return nil
}

func wireTypeError(got, want protowire.Type) error {
	return fmt.Errorf("wire type %d, want %d", got, want)
}

func consumeVarint(typ protowire.Type, b []byte, dst *uint64) (int, error) {
	if typ != protowire.VarintType {
		return 0, wireTypeError(typ, protowire.VarintType)
	}
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = v
	return n, nil
}

func consumeUint32(typ protowire.Type, b []byte, dst *uint32) (int, error) {
	var v uint64
	n, err := consumeVarint(typ, b, &v)
	*dst = uint32(v)
	return n, err
}

func consumeInt32(typ protowire.Type, b []byte, dst *int32) (int, error) {
	var v uint64
	n, err := consumeVarint(typ, b, &v)
	*dst = int32(v)
	return n, err
}

func consumeDouble(typ protowire.Type, b []byte, dst *float64) (int, error) {
	if typ != protowire.Fixed64Type {
		return 0, wireTypeError(typ, protowire.Fixed64Type)
	}
	v, n := protowire.ConsumeFixed64(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = math.Float64frombits(v)
	return n, nil
}

func consumeString(typ protowire.Type, b []byte, dst *string) (int, error) {
	if typ != protowire.BytesType {
		return 0, wireTypeError(typ, protowire.BytesType)
	}
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = v
	return n, nil
}

func consumeMessage(typ protowire.Type, b []byte, decode func([]byte) error) (int, error) {
	if typ != protowire.BytesType {
		return 0, wireTypeError(typ, protowire.BytesType)
	}
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	if err := decode(v); err != nil {
		return 0, err
	}
	return n, nil
}

// Scalars equal to their zero value are omitted, as proto3 does.

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	return appendVarint(b, num, uint64(int64(v)))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	return appendVarint(b, num, protowire.EncodeBool(v))
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}
