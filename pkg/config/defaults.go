package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultServerType      = ServerTypeAPI
	DefaultRootDir         = "."
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRequestTimeout  = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB
	DefaultMaxBodyBytes    = int64(1048576)

	// CORS defaults
	DefaultCORSMaxAge = 3600 // 1 hour

	// Rate limit defaults
	DefaultRateLimitRPS   = 100.0
	DefaultRateLimitBurst = 200

	// Redis defaults
	DefaultRedisMode         = RedisModeSingle
	DefaultRedisHosts        = "127.0.0.1:6379"
	DefaultRedisTimeoutMS    = 1000
	DefaultRedisPoolSize     = 10
	DefaultCacheWriteResults = true

	// POI defaults
	DefaultPoiTimeout    = 5 * time.Second
	DefaultPoiMaxRetries = 2

	// Engine defaults
	DefaultEngineWorkers     = 4
	DefaultEngineQueueSize   = 256
	DefaultEngineStopTimeout = 30 * time.Second

	// Journal defaults
	DefaultJournalDriver        = JournalDriverPure
	DefaultJournalPath          = "data/journal.db"
	DefaultJournalAsyncBuffer   = 1000
	DefaultJournalWriteTimeout  = 5 * time.Second
	DefaultJournalRetentionDays = 30
	DefaultJournalPruneSchedule = "0 3 * * *"

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "json"
	DefaultLoggingRedact      = true
	DefaultMetricsEnabled     = true
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "naviroute"
	DefaultLivenessPath       = "/health"
	DefaultReadinessPath      = "/ready"
	DefaultHealthCheckTimeout = 2 * time.Second

	// Watch defaults
	DefaultWatchDebounce = 250 * time.Millisecond
)

var (
	DefaultCORSAllowedOrigins = []string{"*"}
	DefaultCORSAllowedMethods = []string{"GET", "POST", "OPTIONS"}
	DefaultCORSAllowedHeaders = []string{"Authorization", "Content-Type", "X-Request-ID"}
	DefaultCORSExposedHeaders = []string{"X-Request-ID", "X-Route-ID"}
)

// NewDefaultConfig returns a configuration with every default applied.
// LoadConfig decodes YAML on top of it, so boolean fields whose default is
// true keep that default when the file omits them.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Cache.WriteResults = DefaultCacheWriteResults
	cfg.Telemetry.Logging.Redact = DefaultLoggingRedact
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults.
// Fields that already hold a value are left untouched.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.Type == "" {
		cfg.Server.Type = DefaultServerType
	}
	if cfg.Server.RootDir == "" {
		cfg.Server.RootDir = DefaultRootDir
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	// CORS defaults
	cors := &cfg.Server.CORS
	if len(cors.AllowedOrigins) == 0 {
		cors.AllowedOrigins = append([]string(nil), DefaultCORSAllowedOrigins...)
	}
	if len(cors.AllowedMethods) == 0 {
		cors.AllowedMethods = append([]string(nil), DefaultCORSAllowedMethods...)
	}
	if len(cors.AllowedHeaders) == 0 {
		cors.AllowedHeaders = append([]string(nil), DefaultCORSAllowedHeaders...)
	}
	if len(cors.ExposedHeaders) == 0 {
		cors.ExposedHeaders = append([]string(nil), DefaultCORSExposedHeaders...)
	}
	if cors.MaxAge == 0 {
		cors.MaxAge = DefaultCORSMaxAge
	}

	// Rate limit defaults
	if cfg.Server.RateLimit.RequestsPerSecond == 0 {
		cfg.Server.RateLimit.RequestsPerSecond = DefaultRateLimitRPS
	}
	if cfg.Server.RateLimit.Burst == 0 {
		cfg.Server.RateLimit.Burst = DefaultRateLimitBurst
	}

	// Redis defaults
	if cfg.Redis.Mode == "" {
		cfg.Redis.Mode = DefaultRedisMode
	}
	if cfg.Redis.Hosts == "" {
		cfg.Redis.Hosts = DefaultRedisHosts
	}
	if cfg.Redis.Connect.DialTimeout == 0 {
		cfg.Redis.Connect.DialTimeout = DefaultRedisTimeoutMS
	}
	if cfg.Redis.Connect.ReadTimeout == 0 {
		cfg.Redis.Connect.ReadTimeout = DefaultRedisTimeoutMS
	}
	if cfg.Redis.Connect.WriteTimeout == 0 {
		cfg.Redis.Connect.WriteTimeout = DefaultRedisTimeoutMS
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = DefaultRedisPoolSize
	}

	// POI defaults
	if cfg.Poi.Timeout == 0 {
		cfg.Poi.Timeout = DefaultPoiTimeout
	}
	if cfg.Poi.MaxRetries == 0 {
		cfg.Poi.MaxRetries = DefaultPoiMaxRetries
	}

	// Engine defaults
	if cfg.Engine.Workers == 0 {
		cfg.Engine.Workers = DefaultEngineWorkers
	}
	if cfg.Engine.QueueSize == 0 {
		cfg.Engine.QueueSize = DefaultEngineQueueSize
	}
	if cfg.Engine.StopTimeout == 0 {
		cfg.Engine.StopTimeout = DefaultEngineStopTimeout
	}

	// Journal defaults
	if cfg.Journal.Driver == "" {
		cfg.Journal.Driver = DefaultJournalDriver
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = DefaultJournalPath
	}
	if cfg.Journal.AsyncBuffer == 0 {
		cfg.Journal.AsyncBuffer = DefaultJournalAsyncBuffer
	}
	if cfg.Journal.WriteTimeout == 0 {
		cfg.Journal.WriteTimeout = DefaultJournalWriteTimeout
	}
	if cfg.Journal.RetentionDays == 0 {
		cfg.Journal.RetentionDays = DefaultJournalRetentionDays
	}
	if cfg.Journal.PruneSchedule == "" {
		cfg.Journal.PruneSchedule = DefaultJournalPruneSchedule
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Health.LivenessPath == "" {
		cfg.Telemetry.Health.LivenessPath = DefaultLivenessPath
	}
	if cfg.Telemetry.Health.ReadinessPath == "" {
		cfg.Telemetry.Health.ReadinessPath = DefaultReadinessPath
	}
	if cfg.Telemetry.Health.CheckTimeout == 0 {
		cfg.Telemetry.Health.CheckTimeout = DefaultHealthCheckTimeout
	}

	// Watch defaults
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
}
