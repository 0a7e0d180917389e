package definitions

import (
	"encoding/json"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/unitx/errors"
)

// ExportFormats lists the formats Export can write
var ExportFormats = []Format{FormatTOML, FormatYAML, FormatJSON}

// Export writes set to w. A set without a version is stamped with CurrentVersion.
func Export(w io.Writer, set Set, format Format) error {
	if set.Version == "" {
		set.Version = CurrentVersion
	}

	var data []byte
	var err error
	switch format {
	case FormatTOML:
		data, err = toml.Marshal(set)
	case FormatYAML:
		data, err = yaml.Marshal(set)
	case FormatJSON:
		data, err = json.MarshalIndent(set, "", "  ")
		data = append(data, '\n')
	default:
		return errors.WithHint(
			errors.Wrapf(errors.ErrUnsupportedFormat, "cannot export %s", format),
			"export supports toml, yaml and json",
		)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to marshal definitions to %s", format)
	}

	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "failed to write definitions")
	}
	return nil
}
