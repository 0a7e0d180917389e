package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/unitx/parser"
)

type parseResult struct {
	Expression string                 `json:"expression" yaml:"expression" toml:"expression"`
	Tree       map[string]interface{} `json:"tree" yaml:"tree" toml:"tree"`
	Symbols    []string               `json:"symbols" yaml:"symbols" toml:"symbols"`
}

func newParseCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <expr>",
		Short: "Print the syntax tree of a unit expression",
		Long: `Parse a unit expression without resolving it against any definitions.

Examples:
  unitx parse "kg.m/s^2"
  unitx parse "(pi/180) rad" -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.OutOrStdout(), o.outputFormat(), args)
		},
	}
}

func runParse(w io.Writer, format string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("parse takes one expression, got %d arguments", len(args))
	}
	node, err := parser.Parse(args[0])
	if err != nil {
		return withHints(err)
	}
	result := parseResult{
		Expression: args[0],
		Tree:       parser.ToMap(node),
		Symbols:    parser.Symbols(node),
	}
	return writeOutput(w, format, result, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, parser.Dump(node))
		return err
	})
}
