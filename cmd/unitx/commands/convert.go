package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/teranos/unitx/errors"
	"github.com/teranos/unitx/units"
)

type conversionResult struct {
	Value  float64 `json:"value" yaml:"value" toml:"value"`
	From   string  `json:"from" yaml:"from" toml:"from"`
	To     string  `json:"to" yaml:"to" toml:"to"`
	Result float64 `json:"result" yaml:"result" toml:"result"`
	Text   string  `json:"text" yaml:"text" toml:"text"`
}

func newConvertCmd(o *options) *cobra.Command {
	var precision int
	cmd := &cobra.Command{
		Use:   "convert <value> <from> <to>",
		Short: "Convert a value between units",
		Long: `Convert a value from one unit expression to another. Both must have the
same dimension. Offset units such as degC convert affinely.

Examples:
  unitx convert 100 km/h m/s
  unitx convert 25 degC degF
  unitx convert 1 "kW.h" MJ --precision 3`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("precision") {
				precision = o.cfg.GetPrecision()
			}
			catalog, cleanup, err := o.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			return runConvert(cmd.OutOrStdout(), o.outputFormat(), precision, catalog.Registry(), args)
		},
	}
	cmd.Flags().IntVarP(&precision, "precision", "p", 0, "Decimal places to round to (default from output.precision)")
	return cmd
}

func runConvert(w io.Writer, format string, precision int, reg *units.Registry, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("convert takes <value> <from> <to>, got %d arguments", len(args))
	}
	if precision < 0 {
		return errors.Newf("precision must be >= 0, got %d", precision)
	}
	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return errors.WithHint(errors.Wrapf(err, "invalid value %q", args[0]), "the value is a plain number, e.g. 2.5 or 1e-3")
	}

	m, err := reg.Measure(value, args[1])
	if err != nil {
		return withHints(errors.Wrapf(err, "from %q", args[1]))
	}
	to, err := reg.ResolveString(args[2])
	if err != nil {
		return withHints(errors.Wrapf(err, "to %q", args[2]))
	}
	converted, err := m.ConvertTo(to, args[2])
	if err != nil {
		return withHints(err)
	}

	rounded := decimal.NewFromFloat(converted.Value).Round(int32(precision))
	result := conversionResult{
		Value:  value,
		From:   args[1],
		To:     args[2],
		Result: rounded.InexactFloat64(),
		Text:   rounded.String(),
	}
	return writeOutput(w, format, result, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, formatMeasure(rounded, converted))
		return err
	})
}

// formatMeasure prints the rounded decimal text followed by the unit label of m
func formatMeasure(value decimal.Decimal, m units.Measure) string {
	if label := m.UnitLabel(); label != "" {
		return value.String() + " " + label
	}
	return value.String()
}
