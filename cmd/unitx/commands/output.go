package commands

import (
	"encoding/json"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/teranos/unitx/am"
	"github.com/teranos/unitx/errors"
)

// writeOutput encodes v in the structured formats and calls text for plain output.
// TOML needs a table at the top level, so v should be a struct or map.
func writeOutput(w io.Writer, format string, v interface{}, text func(io.Writer) error) error {
	switch format {
	case am.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(v), "failed to write JSON")
	case am.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "failed to write YAML")
		}
		return errors.Wrap(enc.Close(), "failed to write YAML")
	case am.OutputTOML:
		return errors.Wrap(toml.NewEncoder(w).Encode(v), "failed to write TOML")
	case am.OutputText, "":
		return text(w)
	}
	return errors.Wrapf(errors.ErrUnsupportedFormat, "output format %q", format)
}

// writeTable renders rows with a header line as a pterm table
func writeTable(w io.Writer, header []string, rows [][]string) error {
	data := pterm.TableData{header}
	data = append(data, rows...)
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	_, err = io.WriteString(w, out+"\n")
	return err
}
