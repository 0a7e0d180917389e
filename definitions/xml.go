package definitions

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/teranos/unitx/errors"
	"github.com/teranos/unitx/units"
)

// udunits2 unit-system documents, e.g.
//
//	<unit-system>
//	  <prefix><value>1e3</value><name>kilo</name><symbol>k</symbol></prefix>
//	  <unit><base/><name><singular>meter</singular></name><symbol>m</symbol></unit>
//	  <unit><def>dm^3</def><name><singular>liter</singular></name><symbol>L</symbol></unit>
//	</unit-system>
type xmlUnitSystem struct {
	XMLName  xml.Name    `xml:"unit-system"`
	Prefixes []xmlPrefix `xml:"prefix"`
	Units    []xmlUnit   `xml:"unit"`
}

type xmlPrefix struct {
	Value   string   `xml:"value"`
	Name    string   `xml:"name"`
	Symbols []string `xml:"symbol"`
}

type xmlUnit struct {
	Base          *struct{}  `xml:"base"`
	Dimensionless *struct{}  `xml:"dimensionless"`
	Def           string     `xml:"def"`
	Name          *xmlName   `xml:"name"`
	Symbols       []string   `xml:"symbol"`
	Aliases       xmlAliases `xml:"aliases"`
}

type xmlName struct {
	Singular string    `xml:"singular"`
	Plural   string    `xml:"plural"`
	NoPlural *struct{} `xml:"noplural"`
}

type xmlAliases struct {
	Names   []xmlName `xml:"name"`
	Symbols []string  `xml:"symbol"`
}

func (n xmlName) unitName() units.UnitName {
	singular := strings.TrimSpace(n.Singular)
	if n.NoPlural != nil {
		return units.NewUnitName(singular, singular)
	}
	return units.NewUnitName(singular, strings.TrimSpace(n.Plural))
}

func decodeXML(data []byte) (Set, error) {
	var doc xmlUnitSystem
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return Set{}, err
	}

	var set Set
	for _, p := range doc.Prefixes {
		value, err := strconv.ParseFloat(strings.TrimSpace(p.Value), 64)
		if err != nil {
			return Set{}, errors.Wrapf(err, "prefix %s: invalid value", p.Name)
		}
		set.Prefixes = append(set.Prefixes, units.PrefixRecord{
			Name:    strings.TrimSpace(p.Name),
			Value:   value,
			Symbols: trimAll(p.Symbols),
		})
	}

	for _, u := range doc.Units {
		rec := units.UnitRecord{
			IsBase:     u.Base != nil,
			Definition: strings.TrimSpace(u.Def),
		}
		if u.Dimensionless != nil && rec.Definition == "" {
			rec.Definition = "1"
		}
		if u.Name != nil {
			rec.Name = u.Name.unitName()
		}
		// the first symbol is the unit's own; the rest read as aliases
		var aliasSymbols []string
		if symbols := trimAll(u.Symbols); len(symbols) > 0 {
			rec.Symbol = symbols[0]
			aliasSymbols = symbols[1:]
		}
		aliasSymbols = append(aliasSymbols, trimAll(u.Aliases.Symbols)...)
		for _, s := range aliasSymbols {
			rec.Aliases = append(rec.Aliases, units.NewUnitName(s, s))
		}
		for _, n := range u.Aliases.Names {
			rec.Aliases = append(rec.Aliases, n.unitName())
		}
		set.Units = append(set.Units, rec)
	}
	return set, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
