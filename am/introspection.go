package am

import (
	"os"
	"sort"
	"strings"

	"github.com/teranos/unitx/errors"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/unitx/unitx.toml
	SourceUser        ConfigSource = "user"        // ~/.unitx/unitx.toml
	SourceProject     ConfigSource = "project"     // unitx.toml in the working directory or above
	SourceEnvironment ConfigSource = "environment" // UNITX_* env vars
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string // file path or environment variable name
}

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key" yaml:"key" toml:"key"`
	Value      interface{}  `json:"value" yaml:"value" toml:"value"`
	Source     ConfigSource `json:"source" yaml:"source" toml:"source"`
	SourcePath string       `json:"source_path,omitempty" yaml:"source_path,omitempty" toml:"source_path,omitempty"`
}

// ConfigIntrospection lists every effective setting with its source
type ConfigIntrospection struct {
	Files    []string      `json:"files" yaml:"files" toml:"files"` // config files that exist, lowest precedence first
	Settings []SettingInfo `json:"settings" yaml:"settings" toml:"settings"`
}

// GetConfigIntrospection returns every effective setting and where it came from,
// using the sources tracked while loading.
func GetConfigIntrospection() (*ConfigIntrospection, error) {
	if _, err := Load(); err != nil {
		return nil, errors.Wrap(err, "failed to load config for introspection")
	}

	mu.Lock()
	settings := initViper().AllSettings()
	sources := make(map[string]SourceInfo, len(ConfigSources))
	for k, v := range ConfigSources {
		sources[k] = v
	}
	mu.Unlock()

	introspection := &ConfigIntrospection{Settings: make([]SettingInfo, 0)}
	for _, path := range ConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			introspection.Files = append(introspection.Files, path)
		}
	}
	flattenSettingsWithSources(settings, "", introspection, sources)
	return introspection, nil
}

// flattenSettingsWithSources flattens settings in key order and assigns their sources
func flattenSettingsWithSources(settings map[string]interface{}, prefix string, introspection *ConfigIntrospection, sourceMap map[string]SourceInfo) {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := settings[key]
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]interface{}); ok {
			flattenSettingsWithSources(nested, fullKey, introspection, sourceMap)
			continue
		}

		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := sourceMap[fullKey]; ok {
			info = si
		}
		if envKey := EnvKey(fullKey); os.Getenv(envKey) != "" {
			info = SourceInfo{Source: SourceEnvironment, Path: envKey}
		}

		introspection.Settings = append(introspection.Settings, SettingInfo{
			Key:        fullKey,
			Value:      value,
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
}

// EnvKey returns the environment variable that overrides a dotted key
func EnvKey(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
