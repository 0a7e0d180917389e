package definitions

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/teranos/unitx/errors"
	"github.com/teranos/unitx/units"
)

// HCL definitions look like:
//
//	version = "1.0.0"
//
//	prefix "kilo" {
//	  value   = 1e3
//	  symbols = ["k"]
//	}
//
//	unit "degC" {
//	  name         = "degree_Celsius"
//	  plural       = "degrees_Celsius"
//	  derived_from = "K"
//	  offset       = 273.15
//	}
var (
	hclFileSchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{{Name: "version"}},
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "prefix", LabelNames: []string{"name"}},
			{Type: "unit", LabelNames: []string{"symbol"}},
		},
	}
	hclPrefixSchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "value", Required: true},
			{Name: "symbols", Required: true},
		},
	}
	hclUnitSchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "name"},
			{Name: "plural"},
			{Name: "aliases"},
			{Name: "base"},
			{Name: "derived_from"},
			{Name: "scale"},
			{Name: "offset"},
			{Name: "definition"},
		},
	}
)

func decodeHCL(data []byte, filename string) (Set, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return Set{}, diags
	}
	content, diags := file.Body.Content(hclFileSchema)
	if diags.HasErrors() {
		return Set{}, diags
	}

	var set Set
	if attr, ok := content.Attributes["version"]; ok {
		v, err := hclString(attr)
		if err != nil {
			return Set{}, err
		}
		set.Version = v
	}

	for _, block := range content.Blocks {
		switch block.Type {
		case "prefix":
			p, err := hclPrefix(block)
			if err != nil {
				return Set{}, err
			}
			set.Prefixes = append(set.Prefixes, p)
		case "unit":
			u, err := hclUnit(block)
			if err != nil {
				return Set{}, err
			}
			set.Units = append(set.Units, u)
		}
	}
	return set, nil
}

func hclPrefix(block *hcl.Block) (units.PrefixRecord, error) {
	content, diags := block.Body.Content(hclPrefixSchema)
	if diags.HasErrors() {
		return units.PrefixRecord{}, diags
	}
	value, err := hclNumber(content.Attributes["value"])
	if err != nil {
		return units.PrefixRecord{}, err
	}
	symbols, err := hclStrings(content.Attributes["symbols"])
	if err != nil {
		return units.PrefixRecord{}, err
	}
	return units.PrefixRecord{Name: block.Labels[0], Value: value, Symbols: symbols}, nil
}

func hclUnit(block *hcl.Block) (units.UnitRecord, error) {
	content, diags := block.Body.Content(hclUnitSchema)
	if diags.HasErrors() {
		return units.UnitRecord{}, diags
	}
	attrs := content.Attributes
	rec := units.UnitRecord{Symbol: block.Labels[0]}

	var err error
	str := func(name string) string {
		attr, ok := attrs[name]
		if !ok || err != nil {
			return ""
		}
		var s string
		s, err = hclString(attr)
		return s
	}
	num := func(name string, def float64) float64 {
		attr, ok := attrs[name]
		if !ok || err != nil {
			return def
		}
		var f float64
		f, err = hclNumber(attr)
		return f
	}

	singular, plural := str("name"), str("plural")
	if singular != "" {
		rec.Name = units.NewUnitName(singular, plural)
	}
	rec.Definition = str("definition")
	if target := str("derived_from"); target != "" {
		rec.DerivedFrom = &units.Derivation{
			Symbol: target,
			Scale:  num("scale", 1),
			Offset: num("offset", 0),
		}
	}
	if err != nil {
		return units.UnitRecord{}, err
	}

	if attr, ok := attrs["base"]; ok {
		if rec.IsBase, err = hclBool(attr); err != nil {
			return units.UnitRecord{}, err
		}
	}
	if attr, ok := attrs["aliases"]; ok {
		aliases, err := hclStrings(attr)
		if err != nil {
			return units.UnitRecord{}, err
		}
		for _, a := range aliases {
			rec.Aliases = append(rec.Aliases, units.NewUnitName(a, ""))
		}
	}
	return rec, nil
}

func hclValue(attr *hcl.Attribute, want cty.Type) (cty.Value, error) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	if val.IsNull() || !val.IsKnown() || !val.Type().Equals(want) {
		return cty.NilVal, errors.Newf("%s: %s must be a %s", attr.Range, attr.Name, want.FriendlyName())
	}
	return val, nil
}

func hclString(attr *hcl.Attribute) (string, error) {
	val, err := hclValue(attr, cty.String)
	if err != nil {
		return "", err
	}
	return val.AsString(), nil
}

func hclNumber(attr *hcl.Attribute) (float64, error) {
	val, err := hclValue(attr, cty.Number)
	if err != nil {
		return 0, err
	}
	f, _ := val.AsBigFloat().Float64()
	return f, nil
}

func hclBool(attr *hcl.Attribute) (bool, error) {
	val, err := hclValue(attr, cty.Bool)
	if err != nil {
		return false, err
	}
	return val.True(), nil
}

// hclStrings accepts a tuple or list literal of strings
func hclStrings(attr *hcl.Attribute) ([]string, error) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	ty := val.Type()
	if val.IsNull() || !(ty.IsTupleType() || ty.IsListType()) {
		return nil, errors.Newf("%s: %s must be a list of strings", attr.Range, attr.Name)
	}
	var out []string
	for _, el := range val.AsValueSlice() {
		if el.IsNull() || !el.Type().Equals(cty.String) {
			return nil, errors.Newf("%s: %s must be a list of strings", attr.Range, attr.Name)
		}
		out = append(out, el.AsString())
	}
	return out, nil
}
