package config

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// HasField reports whether a validation error was recorded for field.
func (e ValidationError) HasField(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateProxy(cfg)...)
	errs = append(errs, validateRedis(cfg)...)
	errs = append(errs, validatePoi(cfg)...)
	errs = append(errs, validateEngine(cfg)...)
	errs = append(errs, validateJournal(&cfg.Journal)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if cfg.Watch.Debounce < 0 {
		errs = append(errs, FieldError{
			Field:   "watch.debounce",
			Message: "debounce must be non-negative",
		})
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}

	switch cfg.Type {
	case ServerTypeFile, ServerTypeAPI, ServerTypeProxy:
	default:
		errs = append(errs, FieldError{
			Field:   "server.type",
			Message: fmt.Sprintf("invalid server type %q: must be 'file', 'api', or 'proxy'", cfg.Type),
		})
	}

	if cfg.Type == ServerTypeFile && cfg.RootDir == "" {
		errs = append(errs, FieldError{
			Field:   "server.root_dir",
			Message: "root directory is required when server type is 'file'",
		})
	}

	for _, t := range []struct {
		field string
		value time.Duration
	}{
		{"server.read_timeout", cfg.ReadTimeout},
		{"server.write_timeout", cfg.WriteTimeout},
		{"server.idle_timeout", cfg.IdleTimeout},
		{"server.shutdown_timeout", cfg.ShutdownTimeout},
		{"server.request_timeout", cfg.RequestTimeout},
	} {
		if t.value < 0 {
			errs = append(errs, FieldError{Field: t.field, Message: "timeout must be non-negative"})
		}
	}

	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must be non-negative",
		})
	}
	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_body_bytes",
			Message: "max body bytes must be non-negative",
		})
	}

	if cfg.CORS.Enabled && cfg.CORS.MaxAge < 0 {
		errs = append(errs, FieldError{
			Field:   "server.cors.max_age",
			Message: "max age must be non-negative",
		})
	}

	if cfg.BasicAuth.Enabled && cfg.BasicAuth.Username == "" {
		errs = append(errs, FieldError{
			Field:   "server.basic_auth.username",
			Message: "username is required when basic auth is enabled",
		})
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RequestsPerSecond <= 0 {
			errs = append(errs, FieldError{
				Field:   "server.rate_limit.requests_per_second",
				Message: "requests per second must be positive",
			})
		}
		if cfg.RateLimit.Burst <= 0 {
			errs = append(errs, FieldError{
				Field:   "server.rate_limit.burst",
				Message: "burst must be positive",
			})
		}
	}

	if cfg.TLS.Enabled {
		if cfg.TLS.CertFile == "" {
			errs = append(errs, FieldError{
				Field:   "server.tls.cert_file",
				Message: "certificate file is required when TLS is enabled",
			})
		}
		if cfg.TLS.KeyFile == "" {
			errs = append(errs, FieldError{
				Field:   "server.tls.key_file",
				Message: "key file is required when TLS is enabled",
			})
		}
	}

	return errs
}

func validateProxy(cfg *Config) []FieldError {
	var errs []FieldError
	p := &cfg.Proxy

	if p.Method != "" && !validMethod(p.Method) {
		errs = append(errs, FieldError{
			Field:   "proxy.method",
			Message: fmt.Sprintf("unsupported method %q", p.Method),
		})
	}

	if cfg.Server.Type != ServerTypeProxy || p.IsDynamic {
		return errs
	}

	if p.URL == "" {
		errs = append(errs, FieldError{
			Field:   "proxy.url",
			Message: "url is required for a static proxy",
		})
	} else if err := validateHTTPURL(p.URL); err != nil {
		errs = append(errs, FieldError{Field: "proxy.url", Message: err.Error()})
	}

	return errs
}

func validateRedis(cfg *Config) []FieldError {
	var errs []FieldError
	r := &cfg.Redis

	switch r.Mode {
	case RedisModeSingle, RedisModeCluster:
	default:
		errs = append(errs, FieldError{
			Field:   "redis.mode",
			Message: fmt.Sprintf("invalid mode %q: must be 'single' or 'cluster'", r.Mode),
		})
	}

	if cfg.Cache.Enabled {
		hosts := splitList(r.Hosts)
		if len(hosts) == 0 {
			errs = append(errs, FieldError{
				Field:   "redis.hosts",
				Message: "at least one host is required when the cache is enabled",
			})
		}
	}

	if r.Connect.DialTimeout < 0 || r.Connect.ReadTimeout < 0 || r.Connect.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "redis.connect",
			Message: "timeouts must be non-negative",
		})
	}
	if r.PoolSize < 0 {
		errs = append(errs, FieldError{
			Field:   "redis.pool_size",
			Message: "pool size must be non-negative",
		})
	}
	if cfg.Cache.TTL < 0 {
		errs = append(errs, FieldError{
			Field:   "cache.ttl",
			Message: "ttl must be non-negative",
		})
	}

	return errs
}

func validatePoi(cfg *Config) []FieldError {
	var errs []FieldError
	p := &cfg.Poi

	if p.BaseURL == "" {
		if cfg.Server.Type == ServerTypeAPI {
			errs = append(errs, FieldError{
				Field:   "poi.base_url",
				Message: "base url is required when server type is 'api'",
			})
		}
	} else if err := validateHTTPURL(p.BaseURL); err != nil {
		errs = append(errs, FieldError{Field: "poi.base_url", Message: err.Error()})
	}

	if p.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "poi.timeout",
			Message: "timeout must be non-negative",
		})
	}
	if p.MaxRetries < 0 {
		errs = append(errs, FieldError{
			Field:   "poi.max_retries",
			Message: "max retries must be non-negative",
		})
	}

	return errs
}

func validateEngine(cfg *Config) []FieldError {
	var errs []FieldError
	e := &cfg.Engine

	if e.ConfigPath == "" && cfg.Server.Type == ServerTypeAPI {
		errs = append(errs, FieldError{
			Field:   "engine.config_path",
			Message: "config path is required when server type is 'api'",
		})
	}
	if e.Workers <= 0 {
		errs = append(errs, FieldError{
			Field:   "engine.workers",
			Message: "workers must be positive",
		})
	}
	if e.QueueSize <= 0 {
		errs = append(errs, FieldError{
			Field:   "engine.queue_size",
			Message: "queue size must be positive",
		})
	}
	if e.StopTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "engine.stop_timeout",
			Message: "stop timeout must be non-negative",
		})
	}

	return errs
}

func validateJournal(cfg *JournalConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return errs
	}

	switch cfg.Driver {
	case JournalDriverCGO, JournalDriverPure:
	default:
		errs = append(errs, FieldError{
			Field:   "journal.driver",
			Message: fmt.Sprintf("invalid driver %q: must be 'sqlite' or 'sqlite3'", cfg.Driver),
		})
	}
	if cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "journal.path",
			Message: "path is required when the journal is enabled",
		})
	}
	if cfg.AsyncBuffer <= 0 {
		errs = append(errs, FieldError{
			Field:   "journal.async_buffer",
			Message: "async buffer must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "journal.write_timeout",
			Message: "write timeout must be non-negative",
		})
	}
	if cfg.RetentionDays < 0 {
		errs = append(errs, FieldError{
			Field:   "journal.retention_days",
			Message: "retention days must be non-negative",
		})
	}
	if cfg.RetentionDays > 0 {
		if _, err := cron.ParseStandard(cfg.PruneSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "journal.prune_schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.PruneSchedule, err),
			})
		}
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if !validFormats[strings.ToLower(cfg.Logging.Format)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q: must be 'json', 'text', or 'console'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "path must start with '/'",
		})
	}
	if !strings.HasPrefix(cfg.Health.LivenessPath, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.health.liveness_path",
			Message: "path must start with '/'",
		})
	}
	if !strings.HasPrefix(cfg.Health.ReadinessPath, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.health.readiness_path",
			Message: "path must start with '/'",
		})
	}
	if cfg.Health.CheckTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.health.check_timeout",
			Message: "check timeout must be non-negative",
		})
	}

	return errs
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid url %q: host is required", raw)
	}
	return nil
}

func validMethod(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
