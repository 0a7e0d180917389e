package commands

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/unitx/units"
)

type unitRow struct {
	Symbol     string   `json:"symbol" yaml:"symbol" toml:"symbol"`
	Name       string   `json:"name" yaml:"name" toml:"name"`
	Plural     string   `json:"plural" yaml:"plural" toml:"plural"`
	Aliases    []string `json:"aliases,omitempty" yaml:"aliases,omitempty" toml:"aliases,omitempty"`
	Kind       string   `json:"kind" yaml:"kind" toml:"kind"`
	Definition string   `json:"definition,omitempty" yaml:"definition,omitempty" toml:"definition,omitempty"`
	Resolved   string   `json:"resolved" yaml:"resolved" toml:"resolved"`
}

type prefixRow struct {
	Name    string   `json:"name" yaml:"name" toml:"name"`
	Symbols []string `json:"symbols" yaml:"symbols" toml:"symbols"`
	Value   float64  `json:"value" yaml:"value" toml:"value"`
}

type unitList struct {
	Units []unitRow `json:"units" yaml:"units" toml:"units"`
}

type prefixList struct {
	Prefixes []prefixRow `json:"prefixes" yaml:"prefixes" toml:"prefixes"`
}

func newListCmd(o *options) *cobra.Command {
	var prefixes bool
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known units or prefixes",
		Long: `List the units (or prefixes) of the current catalog.

Examples:
  unitx list
  unitx list --prefixes
  unitx list --filter deg -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, cleanup, err := o.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			if prefixes {
				return listPrefixes(cmd.OutOrStdout(), o.outputFormat(), catalog.Registry(), filter)
			}
			return listUnits(cmd.OutOrStdout(), o.outputFormat(), catalog.Registry(), filter)
		},
	}
	cmd.Flags().BoolVar(&prefixes, "prefixes", false, "List prefixes instead of units")
	cmd.Flags().StringVar(&filter, "filter", "", "Only show entries whose symbol or name contains this text")
	return cmd
}

func definitionOf(u *units.Unit) string {
	switch {
	case u.IsBase():
		return ""
	case u.Definition != "":
		return u.Definition
	}
	d := units.FormatFloat(u.Scale) + " " + u.Base
	if u.Offset != 0 {
		d += " @ " + units.FormatFloat(u.Offset)
	}
	return d
}

func matches(filter string, texts ...string) bool {
	if filter == "" {
		return true
	}
	for _, t := range texts {
		if strings.Contains(t, filter) {
			return true
		}
	}
	return false
}

func listUnits(w io.Writer, format string, reg *units.Registry, filter string) error {
	list := unitList{Units: []unitRow{}}
	for _, u := range reg.Units() {
		aliases := make([]string, 0, len(u.Aliases))
		for _, a := range u.Aliases {
			aliases = append(aliases, a.Singular)
		}
		if !matches(filter, append([]string{u.Symbol, u.Name.Singular}, aliases...)...) {
			continue
		}
		list.Units = append(list.Units, unitRow{
			Symbol:     u.Symbol,
			Name:       u.Name.Singular,
			Plural:     u.Name.Plural,
			Aliases:    aliases,
			Kind:       u.Kind.String(),
			Definition: definitionOf(u),
			Resolved:   u.Resolved.String(),
		})
	}

	return writeOutput(w, format, list, func(w io.Writer) error {
		rows := make([][]string, 0, len(list.Units))
		for _, r := range list.Units {
			rows = append(rows, []string{r.Symbol, r.Name, r.Plural, strings.Join(r.Aliases, ", "), r.Kind, r.Definition, r.Resolved})
		}
		return writeTable(w, []string{"Symbol", "Name", "Plural", "Aliases", "Kind", "Definition", "Resolved"}, rows)
	})
}

func listPrefixes(w io.Writer, format string, reg *units.Registry, filter string) error {
	list := prefixList{Prefixes: []prefixRow{}}
	for _, p := range reg.Prefixes() {
		if !matches(filter, append([]string{p.Name}, p.Symbols...)...) {
			continue
		}
		list.Prefixes = append(list.Prefixes, prefixRow{Name: p.Name, Symbols: p.Symbols, Value: p.Value})
	}

	return writeOutput(w, format, list, func(w io.Writer) error {
		rows := make([][]string, 0, len(list.Prefixes))
		for _, p := range list.Prefixes {
			rows = append(rows, []string{strings.Join(p.Symbols, ", "), p.Name, units.FormatFloat(p.Value)})
		}
		return writeTable(w, []string{"Symbols", "Name", "Value"}, rows)
	})
}
