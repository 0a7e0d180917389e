// Package am loads the unitx configuration: where definitions come from, the
// definitions database, output formatting and logging.
package am

// Config represents the unitx configuration
type Config struct {
	Definitions DefinitionsConfig `mapstructure:"definitions" json:"definitions" yaml:"definitions" toml:"definitions"`
	Database    DatabaseConfig    `mapstructure:"database" json:"database" yaml:"database" toml:"database"`
	Output      OutputConfig      `mapstructure:"output" json:"output" yaml:"output" toml:"output"`
	Log         LogConfig         `mapstructure:"log" json:"log" yaml:"log" toml:"log"`
}

// DefinitionsConfig configures the definitions sources of the catalog
type DefinitionsConfig struct {
	Paths          []string `mapstructure:"paths" json:"paths" yaml:"paths" toml:"paths"`                               // definitions files loaded on top of the builtin set
	Builtin        bool     `mapstructure:"builtin" json:"builtin" yaml:"builtin" toml:"builtin"`                       // include the embedded definitions (default: true)
	Watch          bool     `mapstructure:"watch" json:"watch" yaml:"watch" toml:"watch"`                               // rebuild on file changes during batch runs
	DebounceMS     int      `mapstructure:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms" toml:"debounce_ms"`       // watcher debounce (default: 500)
	RequireVersion string   `mapstructure:"require_version" json:"require_version" yaml:"require_version" toml:"require_version"` // semver constraint every file must satisfy, empty = any supported
	ExportFormat   string   `mapstructure:"export_format" json:"export_format" yaml:"export_format" toml:"export_format"` // default for `defs export` (default: toml)
}

// DatabaseConfig configures the SQLite definitions store
type DatabaseConfig struct {
	Path    string `mapstructure:"path" json:"path" yaml:"path" toml:"path"`
	Enabled bool   `mapstructure:"enabled" json:"enabled" yaml:"enabled" toml:"enabled"` // serve stored definitions in the catalog
}

// OutputConfig configures how results are printed
type OutputConfig struct {
	Format    string `mapstructure:"format" json:"format" yaml:"format" toml:"format"`             // text, json, yaml or toml
	Precision int    `mapstructure:"precision" json:"precision" yaml:"precision" toml:"precision"` // decimal places of converted values
}

// LogConfig configures logging when no flags are given
type LogConfig struct {
	JSON      bool `mapstructure:"json" json:"json" yaml:"json" toml:"json"`
	Verbosity int  `mapstructure:"verbosity" json:"verbosity" yaml:"verbosity" toml:"verbosity"`
}

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
	OutputTOML = "toml"
)

// OutputFormats lists the accepted output.format values
var OutputFormats = []string{OutputText, OutputJSON, OutputYAML, OutputTOML}

// MaxPrecision bounds output.precision; float64 carries at most 17 significant digits
const MaxPrecision = 17

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)
