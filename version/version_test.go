package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_String(t *testing.T) {
	info := Info{CommitHash: "0123456789abcdef", BuildTime: "2026-01-02", Version: "dev", Definitions: "1.0.0"}
	assert.Equal(t, "unitx dev (commit 0123456789abcdef, built 2026-01-02, definitions 1.0.0)", info.String())

	info.Version = "v0.3.0"
	assert.Equal(t, "unitx v0.3.0 (commit 0123456789abcdef, built 2026-01-02, definitions 1.0.0)", info.String())
}

func TestInfo_Short(t *testing.T) {
	assert.Equal(t, "0123456", Info{CommitHash: "0123456789abcdef"}.Short())
	assert.Equal(t, "dev", Info{CommitHash: "dev"}.Short())
}

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
	assert.NotEmpty(t, info.Definitions)
}
