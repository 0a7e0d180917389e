// Package version reports the unitx build.
package version

import (
	"fmt"
	"runtime"

	"github.com/teranos/unitx/definitions"
)

// Build information. These variables are set at build time via ldflags:
//
//	-X github.com/teranos/unitx/version.Version=v0.3.0
var (
	CommitHash = "dev"
	BuildTime  = "unknown"
	Version    = "dev"
)

// Info contains version and build information
type Info struct {
	CommitHash  string `json:"commit_hash" yaml:"commit_hash"`
	BuildTime   string `json:"build_time" yaml:"build_time"`
	Version     string `json:"version" yaml:"version"`
	Definitions string `json:"definitions_version" yaml:"definitions_version"` // format version written by export
	Supported   string `json:"definitions_supported" yaml:"definitions_supported"`
	GoVersion   string `json:"go_version" yaml:"go_version"`
	Platform    string `json:"platform" yaml:"platform"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		CommitHash:  CommitHash,
		BuildTime:   BuildTime,
		Version:     Version,
		Definitions: definitions.CurrentVersion,
		Supported:   definitions.SupportedVersions,
		GoVersion:   runtime.Version(),
		Platform:    fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a human-readable version string
func (i Info) String() string {
	name := "unitx dev"
	if i.Version != "dev" {
		name = "unitx " + i.Version
	}
	return fmt.Sprintf("%s (commit %s, built %s, definitions %s)", name, i.CommitHash, i.BuildTime, i.Definitions)
}

// Short returns a short version string with just the commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
