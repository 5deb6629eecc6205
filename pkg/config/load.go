package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "NAVIROUTE_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// Environment variables are not consulted; use LoadConfigWithEnvOverrides
// for that.
func LoadConfig(path string) (*Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention NAVIROUTE_SECTION_FIELD (e.g., NAVIROUTE_SERVER_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file on top of the defaults
// 2. Apply environment variable overrides
// 3. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment. Variables that are already set are not overwritten, so the
// real environment wins over the file.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %q: %w", path, err)
	}
	return nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := NewDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Malformed numeric, boolean and duration values are ignored.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	envString("SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	envString("SERVER_TYPE", &cfg.Server.Type)
	envString("SERVER_ROOT_DIR", &cfg.Server.RootDir)
	envDuration("SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	envDuration("SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	envDuration("SERVER_IDLE_TIMEOUT", &cfg.Server.IdleTimeout)
	envDuration("SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	envDuration("SERVER_REQUEST_TIMEOUT", &cfg.Server.RequestTimeout)
	envInt("SERVER_MAX_HEADER_BYTES", &cfg.Server.MaxHeaderBytes)
	if val := os.Getenv(EnvPrefix + "SERVER_MAX_BODY_BYTES"); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Server.MaxBodyBytes = n
		}
	}
	envBool("SERVER_CORS_ENABLED", &cfg.Server.CORS.Enabled)
	if val := os.Getenv(EnvPrefix + "SERVER_CORS_ALLOWED_ORIGINS"); val != "" {
		cfg.Server.CORS.AllowedOrigins = splitList(val)
	}
	envBool("SERVER_COMPRESSION_GZIP", &cfg.Server.Compression.Gzip)
	envBool("SERVER_BASIC_AUTH_ENABLED", &cfg.Server.BasicAuth.Enabled)
	envString("SERVER_BASIC_AUTH_USERNAME", &cfg.Server.BasicAuth.Username)
	envString("SERVER_BASIC_AUTH_PASSWORD", &cfg.Server.BasicAuth.Password)
	envBool("SERVER_RATE_LIMIT_ENABLED", &cfg.Server.RateLimit.Enabled)
	if val := os.Getenv(EnvPrefix + "SERVER_RATE_LIMIT_REQUESTS_PER_SECOND"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Server.RateLimit.RequestsPerSecond = f
		}
	}
	envInt("SERVER_RATE_LIMIT_BURST", &cfg.Server.RateLimit.Burst)
	envBool("SERVER_TLS_ENABLED", &cfg.Server.TLS.Enabled)
	envString("SERVER_TLS_CERT_FILE", &cfg.Server.TLS.CertFile)
	envString("SERVER_TLS_KEY_FILE", &cfg.Server.TLS.KeyFile)

	// Proxy overrides
	envBool("PROXY_IS_DYNAMIC", &cfg.Proxy.IsDynamic)
	envString("PROXY_URL", &cfg.Proxy.URL)
	envString("PROXY_METHOD", &cfg.Proxy.Method)
	envString("PROXY_AUTHORIZATION", &cfg.Proxy.Authorization)

	// Redis overrides
	envString("REDIS_MODE", &cfg.Redis.Mode)
	envString("REDIS_HOSTS", &cfg.Redis.Hosts)
	envString("REDIS_PASSWORD", &cfg.Redis.Password)
	envInt("REDIS_CONNECT_DIAL_TIMEOUT", &cfg.Redis.Connect.DialTimeout)
	envInt("REDIS_CONNECT_READ_TIMEOUT", &cfg.Redis.Connect.ReadTimeout)
	envInt("REDIS_CONNECT_WRITE_TIMEOUT", &cfg.Redis.Connect.WriteTimeout)
	envInt("REDIS_POOL_SIZE", &cfg.Redis.PoolSize)

	// Cache overrides
	envBool("CACHE_ENABLED", &cfg.Cache.Enabled)
	envBool("CACHE_WRITE_RESULTS", &cfg.Cache.WriteResults)
	envDuration("CACHE_TTL", &cfg.Cache.TTL)

	// POI overrides
	envString("POI_BASE_URL", &cfg.Poi.BaseURL)
	envDuration("POI_TIMEOUT", &cfg.Poi.Timeout)
	envInt("POI_MAX_RETRIES", &cfg.Poi.MaxRetries)

	// Engine overrides
	envString("ENGINE_CONFIG_PATH", &cfg.Engine.ConfigPath)
	envInt("ENGINE_WORKERS", &cfg.Engine.Workers)
	envInt("ENGINE_QUEUE_SIZE", &cfg.Engine.QueueSize)
	envDuration("ENGINE_STOP_TIMEOUT", &cfg.Engine.StopTimeout)

	// Journal overrides
	envBool("JOURNAL_ENABLED", &cfg.Journal.Enabled)
	envString("JOURNAL_DRIVER", &cfg.Journal.Driver)
	envString("JOURNAL_PATH", &cfg.Journal.Path)
	envInt("JOURNAL_ASYNC_BUFFER", &cfg.Journal.AsyncBuffer)
	envDuration("JOURNAL_WRITE_TIMEOUT", &cfg.Journal.WriteTimeout)
	envInt("JOURNAL_RETENTION_DAYS", &cfg.Journal.RetentionDays)
	envString("JOURNAL_PRUNE_SCHEDULE", &cfg.Journal.PruneSchedule)

	// Telemetry overrides
	envString("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	envBool("TELEMETRY_LOGGING_ADD_SOURCE", &cfg.Telemetry.Logging.AddSource)
	envBool("TELEMETRY_LOGGING_REDACT", &cfg.Telemetry.Logging.Redact)
	envBool("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	envString("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	envString("TELEMETRY_METRICS_NAMESPACE", &cfg.Telemetry.Metrics.Namespace)
	envString("TELEMETRY_METRICS_SUBSYSTEM", &cfg.Telemetry.Metrics.Subsystem)
	envString("TELEMETRY_HEALTH_LIVENESS_PATH", &cfg.Telemetry.Health.LivenessPath)
	envString("TELEMETRY_HEALTH_READINESS_PATH", &cfg.Telemetry.Health.ReadinessPath)
	envDuration("TELEMETRY_HEALTH_CHECK_TIMEOUT", &cfg.Telemetry.Health.CheckTimeout)

	// Watch overrides
	envBool("WATCH_ENABLED", &cfg.Watch.Enabled)
	envDuration("WATCH_DEBOUNCE", &cfg.Watch.Debounce)
}

func envString(key string, dst *string) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		*dst = val
	}
}

func envInt(key string, dst *int) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
