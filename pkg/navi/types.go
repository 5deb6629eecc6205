package navi

// Format identifies the encoding of an inbound route request body.
type Format int

const (
	// FormatBinary is the protobuf wire encoding of RoutePlanClientParameter.
	FormatBinary Format = iota

	// FormatJSON is the JSON object form with the same field names.
	FormatJSON
)

// String returns the format name used in logs and metrics labels.
func (f Format) String() string {
	switch f {
	case FormatBinary:
		return "binary"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// GeoPoint is a geographic position with building context.
type GeoPoint struct {
	// Longitude in decimal degrees.
	Longitude float64 `json:"longitude"`

	// Latitude in decimal degrees.
	Latitude float64 `json:"latitude"`

	// Height above ground level.
	Height int32 `json:"height"`

	// Floor is the building floor (0 when outdoors).
	Floor int32 `json:"floor"`

	// ModelID identifies the indoor model the point belongs to.
	ModelID uint32 `json:"modelId"`
}

// ClientRouteRequest is the route request as sent by clients.
// For each endpoint exactly one of the POI id or the raw point is used;
// an empty POI id selects the raw point.
type ClientRouteRequest struct {
	Version         uint32
	Mode            uint32
	Policy          uint32
	RealTimeTraffic bool

	StartPoiID string
	EndPoiID   string

	StartPoint *GeoPoint
	EndPoint   *GeoPoint
}

// PoiDetail is the record returned by the POI search service.
// Every numeric field is transmitted as a decimal string.
type PoiDetail struct {
	AddressFloor string `json:"addressFloor"`
	BuildFlag    string `json:"buildFlag"`
	Latitude     string `json:"latitude"`
	Longitude    string `json:"longitude"`
	ModelID      string `json:"modelId"`
	ParentPoiID  string `json:"parentPoiId"`
	PoiID        string `json:"poiId"`
	PoiName      string `json:"poiName"`
	PoiType      string `json:"poiType"`
	RoadID       string `json:"roadId"`
	RoadXEntr    string `json:"roadXEntr"`
	RoadYEntr    string `json:"roadYEntr"`
	WroadID      string `json:"wroadId"`
	WroadXEntr   string `json:"wroadXEntr"`
	WroadYEntr   string `json:"wroadYEntr"`
}

// PoiInfo is a resolved point of interest in engine form.
type PoiInfo struct {
	PoiID   uint64
	PoiName string
	RoadID  uint64
	Entry   GeoPoint
	ModelID uint64
}

// Endpoint is one end of a route: either a resolved POI or a raw point.
// Exactly one of Poi and Point is set.
type Endpoint struct {
	Poi   *PoiInfo
	Point *GeoPoint
}

// PoiEndpoint returns an endpoint backed by a resolved POI.
func PoiEndpoint(p PoiInfo) Endpoint {
	return Endpoint{Poi: &p}
}

// PointEndpoint returns an endpoint backed by a raw point.
func PointEndpoint(p GeoPoint) Endpoint {
	return Endpoint{Point: &p}
}

// IsPoi reports whether the endpoint was resolved from a POI id.
func (e Endpoint) IsPoi() bool {
	return e.Poi != nil
}

// Kind returns "poi", "point" or "none".
func (e Endpoint) Kind() string {
	switch {
	case e.Poi != nil:
		return "poi"
	case e.Point != nil:
		return "point"
	default:
		return "none"
	}
}

// NormalizedRouteRequest is the engine-ready route description.
// It is only ever built once both endpoints resolved.
type NormalizedRouteRequest struct {
	Version         uint32
	Mode            uint32
	Policy          uint32
	RealTimeTraffic bool

	Start Endpoint
	End   Endpoint
}

// RouteResult is a path computed by the routing engine.
type RouteResult struct {
	// ID is assigned by the engine and used as the cache key.
	ID string `json:"id"`

	// Payload is the engine's serialized path, opaque to the gateway.
	Payload string `json:"payload"`
}
