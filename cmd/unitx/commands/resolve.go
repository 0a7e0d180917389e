package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/unitx/units"
)

type resolveResult struct {
	Expression  string  `json:"expression" yaml:"expression" toml:"expression"`
	Canonical   string  `json:"canonical" yaml:"canonical" toml:"canonical"`
	Expressible bool    `json:"expressible" yaml:"expressible" toml:"expressible"`
	Dimension   string  `json:"dimension" yaml:"dimension" toml:"dimension"`
	Scale       float64 `json:"scale" yaml:"scale" toml:"scale"`
	Offset      float64 `json:"offset" yaml:"offset" toml:"offset"`
}

func newResolveCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <expr>",
		Short: "Reduce a unit expression to base units",
		Long: `Resolve a unit expression to its dimension, scale and offset in base units,
and print its canonical form.

Examples:
  unitx resolve N
  unitx resolve "km/h"
  unitx resolve degF -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, cleanup, err := o.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			return runResolve(cmd.OutOrStdout(), o.outputFormat(), catalog.Registry(), args)
		},
	}
}

func runResolve(w io.Writer, format string, reg *units.Registry, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("resolve takes one expression, got %d arguments", len(args))
	}
	u, err := reg.ResolveString(args[0])
	if err != nil {
		return withHints(err)
	}

	canonical, cerr := u.Canonical()
	result := resolveResult{
		Expression:  args[0],
		Canonical:   canonical,
		Expressible: cerr == nil,
		Dimension:   u.Dimension.String(),
		Scale:       u.Scale,
		Offset:      u.Offset,
	}
	if cerr != nil {
		result.Canonical = u.String()
	}

	return writeOutput(w, format, result, func(w io.Writer) error {
		note := ""
		if !result.Expressible {
			note = "  (not expressible as a unit expression)"
		}
		_, err := fmt.Fprintf(w, "expression  %s\ncanonical   %s%s\ndimension   %s\nscale       %s\noffset      %s\n",
			result.Expression, result.Canonical, note, result.Dimension,
			units.FormatFloat(result.Scale), units.FormatFloat(result.Offset))
		return err
	})
}
