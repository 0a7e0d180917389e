package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkSettingsFromSource(t *testing.T) {
	settings := map[string]interface{}{
		"output": map[string]interface{}{
			"format":    "json",
			"precision": 4,
		},
		"database": map[string]interface{}{
			"path": "lab.db",
		},
	}

	sourceMap := make(map[string]SourceInfo)
	markSettingsFromSource(settings, "", SourceUser, "/home/user/.unitx/unitx.toml", sourceMap)

	assert.Len(t, sourceMap, 3)
	assert.Equal(t, SourceUser, sourceMap["output.format"].Source)
	assert.Equal(t, SourceUser, sourceMap["database.path"].Source)
	assert.Equal(t, "/home/user/.unitx/unitx.toml", sourceMap["output.precision"].Path)
}

func TestFlattenSettingsWithSources(t *testing.T) {
	settings := map[string]interface{}{
		"output": map[string]interface{}{
			"precision": 4,
			"format":    "json",
		},
		"log": map[string]interface{}{
			"json": false,
		},
	}
	sourceMap := map[string]SourceInfo{
		"output.precision": {Source: SourceProject, Path: "/work/unitx.toml"},
	}

	t.Run("sorted keys with sources", func(t *testing.T) {
		introspection := &ConfigIntrospection{}
		flattenSettingsWithSources(settings, "", introspection, sourceMap)

		require.Len(t, introspection.Settings, 3)
		keys := []string{introspection.Settings[0].Key, introspection.Settings[1].Key, introspection.Settings[2].Key}
		assert.Equal(t, []string{"log.json", "output.format", "output.precision"}, keys)

		assert.Equal(t, SourceDefault, introspection.Settings[0].Source)
		assert.Equal(t, "built-in default", introspection.Settings[0].SourcePath)
		assert.Equal(t, SourceProject, introspection.Settings[2].Source)
		assert.Equal(t, 4, introspection.Settings[2].Value)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("UNITX_OUTPUT_PRECISION", "2")

		introspection := &ConfigIntrospection{}
		flattenSettingsWithSources(settings, "", introspection, sourceMap)

		setting := introspection.Settings[2]
		assert.Equal(t, SourceEnvironment, setting.Source)
		assert.Equal(t, "UNITX_OUTPUT_PRECISION", setting.SourcePath)
	})
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "UNITX_DEFINITIONS_DEBOUNCE_MS", EnvKey("definitions.debounce_ms"))
	assert.Equal(t, "UNITX_OUTPUT_FORMAT", EnvKey("output.format"))
}

func TestSourceFor(t *testing.T) {
	assert.Equal(t, SourceSystem, sourceFor("/etc/unitx/unitx.toml"))
	assert.Equal(t, SourceUser, sourceFor("/home/ana/.unitx/unitx.toml"))
	assert.Equal(t, SourceProject, sourceFor("/work/lab/unitx.toml"))
}

func TestLoad_ProjectFileAndEnvironment(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	home := t.TempDir()
	project := t.TempDir()
	nested := filepath.Join(project, "data", "runs")
	require.NoError(t, os.MkdirAll(nested, DefaultDirPermissions))
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".unitx"), DefaultDirPermissions))

	require.NoError(t, os.WriteFile(filepath.Join(home, ".unitx", ConfigFileName),
		[]byte("[output]\nformat = \"yaml\"\nprecision = 3\n"), DefaultFilePermissions))
	require.NoError(t, os.WriteFile(filepath.Join(project, ConfigFileName),
		[]byte("[output]\nprecision = 6\n\n[database]\npath = \"lab.db\"\n"), DefaultFilePermissions))

	t.Setenv("HOME", home)
	t.Setenv("UNITX_DATABASE_PATH", "env.db")
	t.Chdir(nested)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Output.Format, "user file applies")
	assert.Equal(t, 6, cfg.Output.Precision, "project file wins over user file")
	assert.Equal(t, "env.db", cfg.Database.Path, "environment wins over files")

	again, err := Load()
	require.NoError(t, err)
	assert.Same(t, cfg, again, "configuration is cached")

	introspection, err := GetConfigIntrospection()
	require.NoError(t, err)
	bySetting := map[string]SettingInfo{}
	for _, s := range introspection.Settings {
		bySetting[s.Key] = s
	}
	assert.Equal(t, SourceUser, bySetting["output.format"].Source)
	assert.Equal(t, SourceProject, bySetting["output.precision"].Source)
	assert.Equal(t, SourceEnvironment, bySetting["database.path"].Source)
	assert.Equal(t, SourceDefault, bySetting["definitions.builtin"].Source)
}
