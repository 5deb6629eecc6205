package config

import (
	"fmt"
	"sync"
)

var (
	// globalConfig holds the process-wide configuration.
	globalConfig *Config

	// globalPath is the file globalConfig was loaded from.
	globalPath string

	configMutex sync.RWMutex

	initOnce sync.Once
)

// Initialize loads configuration from path with environment overrides and
// stores it as the process-wide configuration. Only the first call loads;
// later calls return nil without reading the file again.
func Initialize(path string) error {
	var initErr error

	initOnce.Do(func() {
		cfg, err := LoadConfigWithEnvOverrides(path)
		if err != nil {
			initErr = err
			return
		}

		configMutex.Lock()
		globalConfig = cfg
		globalPath = path
		configMutex.Unlock()
	})

	return initErr
}

// GetConfig returns the process-wide configuration, or nil before a
// successful Initialize or SetConfig.
func GetConfig() *Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// SetConfig replaces the process-wide configuration. Intended for tests and
// for commands that build a configuration without a file.
func SetConfig(cfg *Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = cfg
}

// ReloadConfig reloads the configuration from path. The process-wide
// configuration is replaced only if loading and validation succeed; on
// failure the previous configuration stays in place.
func ReloadConfig(path string) (*Config, error) {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return nil, fmt.Errorf("failed to reload configuration: %w", err)
	}

	configMutex.Lock()
	globalConfig = cfg
	globalPath = path
	configMutex.Unlock()

	return cfg, nil
}

// ConfigPath returns the file the process-wide configuration was loaded from.
func ConfigPath() string {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalPath
}

// MustGetConfig returns the process-wide configuration and panics if it has
// not been initialized.
func MustGetConfig() *Config {
	cfg := GetConfig()
	if cfg == nil {
		panic("configuration not initialized: call Initialize first")
	}
	return cfg
}

// reset clears the process-wide state. Tests only.
func reset() {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = nil
	globalPath = ""
	initOnce = sync.Once{}
}
