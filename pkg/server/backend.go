package server

import (
	"errors"
	"fmt"
	"net/http"

	"naviroute/gateway/pkg/config"
	"naviroute/gateway/pkg/fileserver"
	"naviroute/gateway/pkg/forward"
	"naviroute/gateway/pkg/proxy/handlers"
)

// BackendKind selects what the server does with requests.
type BackendKind int

const (
	// BackendFiles serves server.root_dir.
	BackendFiles BackendKind = iota

	// BackendAPI serves the route API.
	BackendAPI

	// BackendProxy forwards requests to another server.
	BackendProxy
)

// String returns the server.type value of the kind.
func (k BackendKind) String() string {
	switch k {
	case BackendFiles:
		return config.ServerTypeFile
	case BackendAPI:
		return config.ServerTypeAPI
	case BackendProxy:
		return config.ServerTypeProxy
	default:
		return "unknown"
	}
}

// ParseBackendKind maps a server.type value to its kind.
func ParseBackendKind(serverType string) (BackendKind, error) {
	switch serverType {
	case config.ServerTypeFile:
		return BackendFiles, nil
	case config.ServerTypeAPI:
		return BackendAPI, nil
	case config.ServerTypeProxy:
		return BackendProxy, nil
	default:
		return 0, fmt.Errorf("unknown server type %q", serverType)
	}
}

// Backend is the request handler chosen once at startup. Exactly one of
// Files, Service and Forwarder is set, matching Kind.
type Backend struct {
	Kind BackendKind

	Files     *fileserver.FileServer
	Service   handlers.RouteService
	Forwarder *forward.Forwarder
}

// Dependencies carries what NewBackend cannot build from configuration.
type Dependencies struct {
	// Service is required for the api backend.
	Service handlers.RouteService

	// ForwardObserver receives proxy outcomes; may be nil.
	ForwardObserver forward.Observer
}

// ErrNoRouteService is returned when the api backend is selected without
// a route service.
var ErrNoRouteService = errors.New("api backend requires a route service")

// NewBackend resolves server.type and builds the matching backend.
func NewBackend(cfg *config.Config, deps Dependencies) (*Backend, error) {
	kind, err := ParseBackendKind(cfg.Server.Type)
	if err != nil {
		return nil, err
	}

	switch kind {
	case BackendFiles:
		files, err := fileserver.New(cfg.Server.RootDir)
		if err != nil {
			return nil, err
		}
		return &Backend{Kind: kind, Files: files}, nil

	case BackendProxy:
		fwd, err := forward.New(forward.Config{
			Dynamic:       cfg.Proxy.IsDynamic,
			URL:           cfg.Proxy.URL,
			Method:        cfg.Proxy.Method,
			Authorization: cfg.Proxy.Authorization,
			Timeout:       cfg.Server.RequestTimeout,
		}, deps.ForwardObserver)
		if err != nil {
			return nil, err
		}
		return &Backend{Kind: kind, Forwarder: fwd}, nil

	default:
		if deps.Service == nil {
			return nil, ErrNoRouteService
		}
		return &Backend{Kind: kind, Service: deps.Service}, nil
	}
}

// route is one mux registration of a backend.
type route struct {
	pattern string
	handler http.Handler
}

// routes returns the mux registrations of the backend.
func (b *Backend) routes(maxBodyBytes int64) []route {
	switch b.Kind {
	case BackendFiles:
		return []route{{"/", b.Files}}
	case BackendProxy:
		return []route{{"/", b.Forwarder}}
	default:
		return []route{
			{"/api/v1/health", handlers.NewHealthHandler()},
			{"/api/v1/navi", handlers.NewNaviHandler(b.Service, maxBodyBytes)},
			{"/api/v1/navijson", handlers.NewNaviJSONHandler(b.Service, maxBodyBytes)},
		}
	}
}

// Close releases resources held by the backend.
func (b *Backend) Close() error {
	if b.Files != nil {
		return b.Files.Close()
	}
	return nil
}
