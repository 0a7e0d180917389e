package definitions

import (
	"bytes"
	_ "embed"

	"go.uber.org/zap"

	"github.com/teranos/unitx/units"
)

// BuiltinSource names the embedded definitions in messages and source lists
const BuiltinSource = "builtin"

//go:embed builtin.toml
var builtinTOML []byte

// Default returns the embedded definitions: SI base units and prefixes, common derived
// units, temperature scales and customary units.
func Default() (Set, error) {
	return Decode(bytes.NewReader(builtinTOML), FormatTOML, BuiltinSource)
}

// DefaultRegistry builds a registry from Default.
func DefaultRegistry(log *zap.SugaredLogger) (*units.Registry, error) {
	set, err := Default()
	if err != nil {
		return nil, err
	}
	return set.Build(log)
}
