package am

import (
	"fmt"

	"github.com/spf13/viper"
)

// Defaults
const (
	DefaultDatabasePath = "unitx.db"
	DefaultDebounceMS   = 500
	DefaultPrecision    = 10
	DefaultExportFormat = "toml"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("definitions.paths", []string{})
	v.SetDefault("definitions.builtin", true)
	v.SetDefault("definitions.watch", false)
	v.SetDefault("definitions.debounce_ms", DefaultDebounceMS)
	v.SetDefault("definitions.require_version", "")
	v.SetDefault("definitions.export_format", DefaultExportFormat)

	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("database.enabled", false)

	v.SetDefault("output.format", OutputText)
	v.SetDefault("output.precision", DefaultPrecision)

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
}

// BindEnvVars binds settings whose environment names are not derived automatically
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("database.path", "UNITX_DATABASE_PATH", "UNITX_DB")
	v.BindEnv("definitions.paths", "UNITX_DEFINITIONS_PATHS", "UNITX_DEFINITIONS")
}

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return DefaultDatabasePath
	}
	return c.Database.Path
}

// GetPrecision returns output.precision, with negative values meaning the default
func (c *Config) GetPrecision() int {
	if c.Output.Precision < 0 {
		return DefaultPrecision
	}
	return c.Output.Precision
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Definitions: %v, Database: %s, Output: {Format: %s, Precision: %d}}",
		c.Definitions.Paths, c.Database.Path, c.Output.Format, c.Output.Precision)
}
