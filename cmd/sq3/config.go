// Config loading for the sq3 CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/CPB9/sqlite3pp/pkg/sqlite3"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyDataDir       = "data_dir"
	cfgKeyBusyTimeoutMS = "busy_timeout_ms"
	cfgKeyForeignKeys   = "foreign_keys"
	cfgKeySynchronous   = "synchronous"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# sq3 CLI configuration

# Directory database files are created in
# (optional; overridable by --data-dir flag)
# data_dir:

# Milliseconds to wait on a locked database before giving up
busy_timeout_ms: 5000

# Enforce foreign key constraints
foreign_keys: true

# PRAGMA synchronous mode: off, normal, full or extra
synchronous: full
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper. It creates the config directory and a default config.yaml on
// first run. A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBusyTimeoutMS, 5000)
	v.SetDefault(cfgKeyForeignKeys, true)
	v.SetDefault(cfgKeySynchronous, "full")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// syncModeFromConfig maps the synchronous config value to a SyncMode.
func syncModeFromConfig(s string) (sqlite3.SyncMode, error) {
	switch strings.ToLower(s) {
	case "off":
		return sqlite3.SyncOff, nil
	case "normal":
		return sqlite3.SyncNormal, nil
	case "", "full":
		return sqlite3.SyncFull, nil
	case "extra":
		return sqlite3.SyncExtra, nil
	default:
		return 0, fmt.Errorf("unknown synchronous mode %q", s)
	}
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
