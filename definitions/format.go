package definitions

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/teranos/unitx/errors"
)

// Format names a definitions file format.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
	FormatXML  Format = "xml" // udunits2 unit-system XML
)

// Formats lists every readable format
var Formats = []Format{FormatTOML, FormatYAML, FormatJSON, FormatHCL, FormatXML}

// ParseFormat maps a format name (case-insensitive, "yml" accepted) to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "hcl":
		return FormatHCL, nil
	case "xml":
		return FormatXML, nil
	}
	return "", errors.Wrapf(errors.ErrUnsupportedFormat, "definitions format %q", name)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", errors.WithHint(
			errors.Wrapf(errors.ErrUnsupportedFormat, "%s has no extension", path),
			"use one of .toml, .yaml, .json, .hcl or .xml",
		)
	}
	return ParseFormat(ext)
}

// Decode reads a Set from r. source names the input in error messages.
func Decode(r io.Reader, format Format, source string) (Set, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Set{}, errors.Wrapf(err, "failed to read %s", source)
	}

	var set Set
	switch format {
	case FormatTOML:
		set, err = decodeTOML(data)
	case FormatYAML:
		set, err = decodeYAML(data)
	case FormatJSON:
		set, err = decodeJSON(data)
	case FormatHCL:
		set, err = decodeHCL(data, source)
	case FormatXML:
		set, err = decodeXML(data)
	default:
		return Set{}, errors.Wrapf(errors.ErrUnsupportedFormat, "definitions format %q", format)
	}
	if err != nil {
		return Set{}, errors.Mark(errors.Wrapf(err, "failed to decode %s", source), errors.ErrInvalidDefinition)
	}
	if err := set.CheckVersion(); err != nil {
		return Set{}, errors.Wrapf(err, "%s", source)
	}
	return set, nil
}

// LoadFile reads a definitions file, choosing the format from its extension.
func LoadFile(path string) (Set, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Set{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Set{}, errors.Mark(errors.Wrapf(err, "definitions file %s", path), errors.ErrNotFound)
		}
		return Set{}, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()
	return Decode(f, format, path)
}

// LoadFiles reads every path and merges the sets in order.
func LoadFiles(paths ...string) (Set, error) {
	sets := make([]Set, 0, len(paths))
	for _, path := range paths {
		set, err := LoadFile(path)
		if err != nil {
			return Set{}, err
		}
		sets = append(sets, set)
	}
	return Merge(sets...), nil
}

// decodeTOML is strict: keys that map to no field are an error
func decodeTOML(data []byte) (Set, error) {
	var set Set
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&set)
	if err != nil {
		return Set{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Set{}, errors.Newf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return set, nil
}

func decodeYAML(data []byte) (Set, error) {
	var set Set
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&set); err != nil && err != io.EOF {
		return Set{}, err
	}
	return set, nil
}

func decodeJSON(data []byte) (Set, error) {
	var set Set
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&set); err != nil {
		return Set{}, err
	}
	return set, nil
}
