// Package config loads and validates the naviroute configuration.
//
// Configuration comes from a YAML file with environment variable overrides.
//
//	cfg, err := config.LoadConfig("naviroute.yaml")              // file only
//	cfg, err := config.LoadConfigWithEnvOverrides("naviroute.yaml") // file + env
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention NAVIROUTE_SECTION_FIELD:
//
//   - NAVIROUTE_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - NAVIROUTE_REDIS_HOSTS overrides redis.hosts
//   - NAVIROUTE_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// LoadEnvFile reads a dotenv file into the environment first; variables
// already present in the environment win.
//
// # Precedence
//
//  1. Default values (defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation
//
// # Singleton
//
//	if err := config.Initialize("naviroute.yaml"); err != nil {
//	    return err
//	}
//	cfg := config.GetConfig()
//
// ReloadConfig swaps the global configuration only when the new file is
// valid. Watcher calls it when the file changes on disk and hands the new
// configuration to a callback, which the run command uses to apply the log
// level and the cache write flag without a restart.
//
// # Example Configuration
//
//	server:
//	  listen_address: "0.0.0.0:8080"
//	  type: "api"
//
//	redis:
//	  mode: "cluster"
//	  hosts: "10.0.0.1:6379,10.0.0.2:6379"
//
//	cache:
//	  enabled: true
//	  write_results: true
//
//	poi:
//	  base_url: "http://poi.internal/search/"
//
//	engine:
//	  config_path: "/etc/naviroute/engine"
//
// Validation errors list every offending field:
//
//	configuration validation failed with 2 errors:
//	  - redis.hosts: at least one host is required when the cache is enabled
//	  - poi.base_url: base url is required when server type is 'api'
package config
