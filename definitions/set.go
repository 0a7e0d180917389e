// Package definitions reads, writes and serves unit definitions: the records a
// units.Registry is built from.
package definitions

import (
	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"github.com/teranos/unitx/errors"
	"github.com/teranos/unitx/units"
)

// SupportedVersions is the semver constraint a definitions file's version must satisfy.
const SupportedVersions = ">= 1.0.0, < 2.0.0"

// CurrentVersion is written into exported definitions
const CurrentVersion = "1.0.0"

// Set is one definitions source: units and prefixes plus the format version.
type Set struct {
	Version  string               `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	Prefixes []units.PrefixRecord `json:"prefixes,omitempty" yaml:"prefixes,omitempty" toml:"prefixes,omitempty"`
	Units    []units.UnitRecord   `json:"units,omitempty" yaml:"units,omitempty" toml:"units,omitempty"`
}

// CheckVersion validates the set's version against SupportedVersions.
// Sources without a version (udunits XML) are accepted.
func (s Set) CheckVersion() error {
	if s.Version == "" {
		return nil
	}
	v, err := semver.NewVersion(s.Version)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "invalid definitions version %q", s.Version), errors.ErrInvalidDefinition)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return errors.Wrap(err, "invalid version constraint")
	}
	if !constraint.Check(v) {
		return errors.WithHintf(
			errors.Mark(errors.Newf("definitions version %s is not supported", v), errors.ErrInvalidDefinition),
			"supported versions: %s", SupportedVersions,
		)
	}
	return nil
}

// Build checks the version and builds a registry from the set.
func (s Set) Build(log *zap.SugaredLogger) (*units.Registry, error) {
	if err := s.CheckVersion(); err != nil {
		return nil, err
	}
	return units.Build(s.Units, s.Prefixes, units.WithLogger(log))
}

// Merge concatenates sets in order. Later sets extend earlier ones; redefining a symbol
// is still reported when the merged set is built. The newest version wins.
func Merge(sets ...Set) Set {
	var out Set
	var newest *semver.Version
	invalid := false
	for _, s := range sets {
		out.Units = append(out.Units, s.Units...)
		out.Prefixes = append(out.Prefixes, s.Prefixes...)
		if s.Version == "" || invalid {
			continue
		}
		v, err := semver.NewVersion(s.Version)
		if err != nil {
			// keep it so CheckVersion reports it
			out.Version = s.Version
			invalid = true
			continue
		}
		if newest == nil || v.GreaterThan(newest) {
			newest = v
			out.Version = s.Version
		}
	}
	return out
}

// FromRegistry returns the records a registry was built from.
func FromRegistry(reg *units.Registry) Set {
	u, p := reg.Records()
	return Set{Version: CurrentVersion, Units: u, Prefixes: p}
}
