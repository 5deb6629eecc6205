package navi

import (
	"bytes"
	"encoding/json"
)

// clientRequestJSON mirrors RoutePlanClientParameter in JSON. Optional
// fields decode to their zero value when absent.
type clientRequestJSON struct {
	Version         *uint32    `json:"version"`
	Mode            uint32     `json:"mode"`
	Policy          uint32     `json:"policy"`
	RealTimeTraffic bool       `json:"realTimeTraffic"`
	StartPoiID      string     `json:"startPoiID"`
	EndPoiID        string     `json:"endPoiID"`
	StartPoint      *pointJSON `json:"startPoint"`
	EndPoint        *pointJSON `json:"endPoint"`
}

type pointJSON struct {
	Longitude *float64 `json:"longitude"`
	Latitude  *float64 `json:"latitude"`
	Height    *int32   `json:"height"`
	Floor     int32    `json:"floor"`
	ModelID   uint32   `json:"modelId"`
}

// DecodeClientJSON parses the JSON form of a client route request.
//
// mode, policy and realTimeTraffic default to 0, 0 and false, and the POI
// ids default to "" (use the raw point). version is required. A raw point
// is only inspected when its POI id is empty, and then needs longitude,
// latitude and height; floor and modelId default to 0.
func DecodeClientJSON(data []byte) (*ClientRouteRequest, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &TranslationError{Reason: "empty JSON payload"}
	}

	var raw clientRequestJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &TranslationError{Reason: "malformed JSON payload", Err: err}
	}

	if raw.Version == nil {
		return nil, &TranslationError{Reason: "missing required field", Field: "version"}
	}

	req := &ClientRouteRequest{
		Version:         *raw.Version,
		Mode:            raw.Mode,
		Policy:          raw.Policy,
		RealTimeTraffic: raw.RealTimeTraffic,
		StartPoiID:      raw.StartPoiID,
		EndPoiID:        raw.EndPoiID,
	}

	var err error
	if req.StartPoiID == "" && raw.StartPoint != nil {
		if req.StartPoint, err = raw.StartPoint.toGeoPoint("startPoint"); err != nil {
			return nil, err
		}
	}
	if req.EndPoiID == "" && raw.EndPoint != nil {
		if req.EndPoint, err = raw.EndPoint.toGeoPoint("endPoint"); err != nil {
			return nil, err
		}
	}

	return req, nil
}

func (p *pointJSON) toGeoPoint(field string) (*GeoPoint, error) {
	switch {
	case p.Longitude == nil:
		return nil, &TranslationError{Reason: "missing required field", Field: field + ".longitude"}
	case p.Latitude == nil:
		return nil, &TranslationError{Reason: "missing required field", Field: field + ".latitude"}
	case p.Height == nil:
		return nil, &TranslationError{Reason: "missing required field", Field: field + ".height"}
	}
	return &GeoPoint{
		Longitude: *p.Longitude,
		Latitude:  *p.Latitude,
		Height:    *p.Height,
		Floor:     p.Floor,
		ModelID:   p.ModelID,
	}, nil
}
