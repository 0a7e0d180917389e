package am

import (
	"slices"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/unitx/definitions"
	"github.com/teranos/unitx/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Output.Precision < 0 || c.Output.Precision > MaxPrecision {
		return errors.Newf("output.precision must be between 0 and %d, got %d", MaxPrecision, c.Output.Precision)
	}
	if c.Output.Format != "" && !slices.Contains(OutputFormats, c.Output.Format) {
		return errors.WithHintf(
			errors.Newf("output.format %q is not supported", c.Output.Format),
			"use one of %v", OutputFormats,
		)
	}

	// 0 = reload on every event
	if c.Definitions.DebounceMS < 0 {
		return errors.Newf("definitions.debounce_ms must be >= 0, got %d", c.Definitions.DebounceMS)
	}

	for _, path := range c.Definitions.Paths {
		if _, err := definitions.FormatFromPath(path); err != nil {
			return errors.Wrapf(err, "definitions.paths")
		}
	}

	if c.Definitions.ExportFormat != "" {
		format, err := definitions.ParseFormat(c.Definitions.ExportFormat)
		if err != nil {
			return errors.Wrap(err, "definitions.export_format")
		}
		if !slices.Contains(definitions.ExportFormats, format) {
			return errors.Newf("definitions.export_format %q cannot be exported", c.Definitions.ExportFormat)
		}
	}

	if c.Definitions.RequireVersion != "" {
		if _, err := semver.NewConstraint(c.Definitions.RequireVersion); err != nil {
			return errors.Wrapf(err, "definitions.require_version %q", c.Definitions.RequireVersion)
		}
	}

	if c.Database.Enabled && c.Database.Path == "" {
		return errors.New("database.path cannot be empty when the database is enabled")
	}

	return nil
}

// CheckRequiredVersion reports whether a definitions version satisfies
// definitions.require_version. Unversioned sources always pass.
func (c *Config) CheckRequiredVersion(version string) error {
	if c.Definitions.RequireVersion == "" || version == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(c.Definitions.RequireVersion)
	if err != nil {
		return errors.Wrapf(err, "definitions.require_version %q", c.Definitions.RequireVersion)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "invalid definitions version %q", version), errors.ErrInvalidDefinition)
	}
	if !constraint.Check(v) {
		return errors.WithHintf(
			errors.Mark(errors.Newf("definitions version %s does not satisfy %s", v, c.Definitions.RequireVersion), errors.ErrInvalidDefinition),
			"adjust definitions.require_version or update the definitions file",
		)
	}
	return nil
}
