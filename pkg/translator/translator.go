package translator

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"naviroute/gateway/pkg/navi"
)

// Resolver looks up POI details by id. *poi.Client implements it.
type Resolver interface {
	Resolve(ctx context.Context, id string) (*navi.PoiDetail, error)
}

// Translator turns client route requests into normalized engine requests.
type Translator struct {
	resolver Resolver
	logger   *slog.Logger
}

// New creates a translator backed by the given POI resolver.
func New(resolver Resolver) *Translator {
	return &Translator{
		resolver: resolver,
		logger:   slog.Default().With("component", "translator"),
	}
}

// Translate decodes raw in the given format and resolves both endpoints.
//
// The two endpoints are resolved concurrently and both must succeed; on any
// failure no normalized request is returned. Resolution failures surface as
// *navi.PoiResolutionError, everything else as *navi.TranslationError.
func (t *Translator) Translate(ctx context.Context, raw []byte, format navi.Format) (*navi.NormalizedRouteRequest, error) {
	req, err := Decode(raw, format)
	if err != nil {
		return nil, err
	}
	return t.Normalize(ctx, req)
}

// Decode parses a client route request without resolving anything.
func Decode(raw []byte, format navi.Format) (*navi.ClientRouteRequest, error) {
	switch format {
	case navi.FormatBinary:
		return navi.DecodeClientRequest(raw)
	case navi.FormatJSON:
		return navi.DecodeClientJSON(raw)
	default:
		return nil, &navi.TranslationError{Reason: "unsupported payload format " + format.String()}
	}
}

// Normalize resolves the endpoints of an already decoded request.
func (t *Translator) Normalize(ctx context.Context, req *navi.ClientRouteRequest) (*navi.NormalizedRouteRequest, error) {
	var start, end navi.Endpoint

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		start, err = t.endpoint(gctx, req.StartPoiID, req.StartPoint, "startPoint")
		return err
	})
	g.Go(func() error {
		var err error
		end, err = t.endpoint(gctx, req.EndPoiID, req.EndPoint, "endPoint")
		return err
	})
	if err := g.Wait(); err != nil {
		t.logger.WarnContext(ctx, "route request translation failed",
			"start_poi_id", req.StartPoiID,
			"end_poi_id", req.EndPoiID,
			"error", err,
		)
		return nil, err
	}

	return &navi.NormalizedRouteRequest{
		Version:         req.Version,
		Mode:            req.Mode,
		Policy:          req.Policy,
		RealTimeTraffic: req.RealTimeTraffic,
		Start:           start,
		End:             end,
	}, nil
}

// endpoint resolves one side of the route. An empty POI id selects the raw
// point unchanged.
func (t *Translator) endpoint(ctx context.Context, poiID string, point *navi.GeoPoint, field string) (navi.Endpoint, error) {
	if poiID == "" {
		if point == nil {
			return navi.Endpoint{}, &navi.TranslationError{Reason: "missing required field", Field: field}
		}
		return navi.PointEndpoint(*point), nil
	}

	detail, err := t.resolver.Resolve(ctx, poiID)
	if err != nil {
		if navi.IsPoiResolutionError(err) {
			return navi.Endpoint{}, err
		}
		return navi.Endpoint{}, &navi.PoiResolutionError{PoiID: poiID, Err: err}
	}

	info, err := detail.ToPoiInfo()
	if err != nil {
		return navi.Endpoint{}, err
	}
	return navi.PoiEndpoint(info), nil
}
