package config

import "time"

// Config is the root configuration of the naviroute gateway.
// It is loaded from YAML and may be overridden by NAVIROUTE_* environment
// variables.
type Config struct {
	// Server configures the HTTP listener and which backend it serves.
	Server ServerConfig `yaml:"server"`

	// Proxy configures the forwarding backend used when server.type is "proxy".
	Proxy ProxyConfig `yaml:"proxy"`

	// Redis configures the connection to the result cache.
	Redis RedisConfig `yaml:"redis"`

	// Cache controls whether computed routes are cached.
	Cache CacheConfig `yaml:"cache"`

	// Poi configures the POI search service used to resolve POI ids.
	Poi PoiConfig `yaml:"poi"`

	// Engine configures the routing engine and its worker pool.
	Engine EngineConfig `yaml:"engine"`

	// Journal configures the route journal.
	Journal JournalConfig `yaml:"journal"`

	// Telemetry configures logging, metrics and health endpoints.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Watch configures hot reload of the configuration file.
	Watch WatchConfig `yaml:"watch"`
}

// Server types.
const (
	ServerTypeFile  = "file"
	ServerTypeAPI   = "api"
	ServerTypeProxy = "proxy"
)

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// ListenAddress is the address the server binds to.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// Type selects the backend: "file", "api" or "proxy".
	// Default: "api"
	Type string `yaml:"type"`

	// RootDir is the directory served by the file backend.
	// Default: "."
	RootDir string `yaml:"root_dir"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the response.
	// Default: 60s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// RequestTimeout bounds a single request, including the engine call.
	// Default: 30s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits the size of route request bodies.
	// Default: 1048576 (1MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// CORS contains Cross-Origin Resource Sharing settings.
	CORS CORSConfig `yaml:"cors"`

	// Compression controls response compression.
	Compression CompressionConfig `yaml:"compression"`

	// BasicAuth protects every endpoint with HTTP basic authentication.
	BasicAuth BasicAuthConfig `yaml:"basic_auth"`

	// RateLimit limits the request rate across all clients.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// TLS contains TLS settings for the listener.
	TLS TLSConfig `yaml:"tls"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	// Enabled controls whether CORS headers are written.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed request headers.
	// Default: ["Authorization", "Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders is a list of headers exposed to the client.
	// Default: ["X-Request-ID", "X-Route-ID"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the preflight cache lifetime in seconds.
	// Default: 3600
	MaxAge int `yaml:"max_age"`

	// AllowCredentials controls the Access-Control-Allow-Credentials header.
	// Default: false
	AllowCredentials bool `yaml:"allow_credentials"`
}

// CompressionConfig controls response compression.
type CompressionConfig struct {
	// Gzip enables gzip encoding for clients that accept it.
	// Default: false
	Gzip bool `yaml:"gzip"`
}

// BasicAuthConfig configures HTTP basic authentication.
type BasicAuthConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// RateLimitConfig configures a token bucket shared by all requests.
type RateLimitConfig struct {
	// Enabled turns rate limiting on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// RequestsPerSecond is the sustained request rate.
	// Default: 100
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst is the maximum burst size.
	// Default: 200
	Burst int `yaml:"burst"`
}

// TLSConfig contains TLS settings for the listener.
type TLSConfig struct {
	// Enabled controls whether the server terminates TLS.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the path to the TLS certificate file.
	// Required when Enabled is true.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the TLS private key file.
	// Required when Enabled is true.
	KeyFile string `yaml:"key_file"`
}

// ProxyConfig configures the forwarding backend.
type ProxyConfig struct {
	// IsDynamic takes the target from the X-Proxy-URL, X-Proxy-Method and
	// X-Proxy-Authorization request headers instead of URL and Method.
	// Default: false
	IsDynamic bool `yaml:"is_dynamic"`

	// URL is the static upstream target.
	// Required when server.type is "proxy" and IsDynamic is false.
	URL string `yaml:"url"`

	// Method overrides the request method sent upstream. Empty keeps the
	// incoming method.
	Method string `yaml:"method"`

	// Authorization is sent upstream as the Authorization header.
	Authorization string `yaml:"authorization"`
}

// Redis topologies.
const (
	RedisModeSingle  = "single"
	RedisModeCluster = "cluster"
)

// RedisConfig configures the cache connection.
type RedisConfig struct {
	// Mode is "single" or "cluster". Several hosts require "cluster".
	// Default: "single"
	Mode string `yaml:"mode"`

	// Hosts is a comma separated list of host:port addresses.
	// Default: "127.0.0.1:6379"
	Hosts string `yaml:"hosts"`

	// Password is the AUTH password. Empty disables AUTH.
	Password string `yaml:"password"`

	// Connect holds connection timeouts in milliseconds.
	Connect RedisConnectConfig `yaml:"connect"`

	// PoolSize is the maximum number of connections per node.
	// Default: 10
	PoolSize int `yaml:"pool_size"`
}

// RedisConnectConfig holds Redis timeouts in milliseconds.
type RedisConnectConfig struct {
	// Default: 1000
	DialTimeout int `yaml:"dial_timeout"`

	// Default: 1000
	ReadTimeout int `yaml:"read_timeout"`

	// Default: 1000
	WriteTimeout int `yaml:"write_timeout"`
}

// Dial returns the dial timeout as a duration.
func (c RedisConnectConfig) Dial() time.Duration {
	return time.Duration(c.DialTimeout) * time.Millisecond
}

// Read returns the read timeout as a duration.
func (c RedisConnectConfig) Read() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Millisecond
}

// Write returns the write timeout as a duration.
func (c RedisConnectConfig) Write() time.Duration {
	return time.Duration(c.WriteTimeout) * time.Millisecond
}

// CacheConfig controls result caching.
type CacheConfig struct {
	// Enabled connects to Redis at startup. Without a cache GET /navi
	// always answers 404.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// WriteResults stores each computed route under its route id.
	// Default: true
	WriteResults bool `yaml:"write_results"`

	// TTL is the lifetime of cached routes. Zero keeps them forever.
	// Default: 0
	TTL time.Duration `yaml:"ttl"`
}

// PoiConfig configures the POI search client.
type PoiConfig struct {
	// BaseURL is the lookup endpoint; the POI id is appended to it.
	// Required.
	BaseURL string `yaml:"base_url"`

	// Timeout bounds a single lookup.
	// Default: 5s
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is the number of retries after a transport failure.
	// Default: 2
	MaxRetries int `yaml:"max_retries"`
}

// EngineConfig configures the routing engine.
type EngineConfig struct {
	// ConfigPath is passed to the engine's initialize call.
	// Required.
	ConfigPath string `yaml:"config_path"`

	// Workers is the number of goroutines that call into the engine.
	// Default: 4
	Workers int `yaml:"workers"`

	// QueueSize bounds pending engine calls.
	// Default: 256
	QueueSize int `yaml:"queue_size"`

	// StopTimeout bounds draining the worker pool on shutdown.
	// Default: 30s
	StopTimeout time.Duration `yaml:"stop_timeout"`
}

// Journal drivers.
const (
	JournalDriverCGO  = "sqlite3"
	JournalDriverPure = "sqlite"
)

// JournalConfig configures the route journal.
type JournalConfig struct {
	// Enabled records every route computation.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Driver is "sqlite" (pure Go) or "sqlite3" (cgo).
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file.
	// Default: "data/journal.db"
	Path string `yaml:"path"`

	// AsyncBuffer is the number of entries queued for writing.
	// Default: 1000
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout bounds a single write.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// RetentionDays prunes entries older than this many days.
	// Default: 30
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is a cron expression for the pruner.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig groups observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Health  HealthConfig  `yaml:"health"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "json", "text" or "console".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes the source file and line in each record.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// Redact masks credentials in log attributes.
	// Default: true
	Redact bool `yaml:"redact"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled exposes metrics.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path of the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes every metric name.
	// Default: "naviroute"
	Namespace string `yaml:"namespace"`

	// Subsystem is inserted between namespace and metric name.
	Subsystem string `yaml:"subsystem"`
}

// HealthConfig configures the liveness and readiness endpoints.
type HealthConfig struct {
	// Default: "/health"
	LivenessPath string `yaml:"liveness_path"`

	// Default: "/ready"
	ReadinessPath string `yaml:"readiness_path"`

	// CheckTimeout bounds each readiness check.
	// Default: 2s
	CheckTimeout time.Duration `yaml:"check_timeout"`
}

// WatchConfig configures hot reload of the configuration file.
type WatchConfig struct {
	// Enabled watches the configuration file for changes.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Debounce is the quiet period before a reload.
	// Default: 250ms
	Debounce time.Duration `yaml:"debounce"`
}
