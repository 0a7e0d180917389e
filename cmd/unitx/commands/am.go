package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/unitx/am"
	"github.com/teranos/unitx/errors"
)

func newAmCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "am",
		Short: "Show the unitx configuration",
		Long: `am: show the unitx configuration ("I am")

Configuration sources (later overrides earlier):
  1. Built-in defaults
  2. System config   /etc/unitx/unitx.toml
  3. User config     ~/.unitx/unitx.toml
  4. Project config  unitx.toml in the working directory or a parent
  5. Environment     UNITX_* variables, e.g. UNITX_OUTPUT_PRECISION=4
  6. Command line flags

With --config only that file and the defaults are used.

Examples:
  unitx am show
  unitx am show -o json
  unitx am where`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				format := o.outputFormat()
				if format == am.OutputText {
					format = am.OutputTOML
				}
				if format == am.OutputTOML {
					fmt.Fprintln(cmd.OutOrStdout(), "# unitx configuration")
				}
				return writeOutput(cmd.OutOrStdout(), format, o.cfg, nil)
			},
		},
		&cobra.Command{
			Use:   "where",
			Short: "Show where each setting comes from",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if o.configPath != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Using %s only (--config)\n", o.configPath)
					return nil
				}
				intro, err := am.GetConfigIntrospection()
				if err != nil {
					return errors.Wrap(err, "failed to get config introspection")
				}
				return writeOutput(cmd.OutOrStdout(), o.outputFormat(), intro, func(w io.Writer) error {
					return printIntrospection(w, intro)
				})
			},
		},
	)
	return cmd
}

func printIntrospection(w io.Writer, intro *am.ConfigIntrospection) error {
	fmt.Fprintln(w, "Config files (later overrides earlier):")
	if len(intro.Files) == 0 {
		fmt.Fprintln(w, "  none found")
	}
	for _, f := range intro.Files {
		fmt.Fprintf(w, "  %s\n", f)
	}
	fmt.Fprintln(w)

	rows := make([][]string, 0, len(intro.Settings))
	for _, s := range intro.Settings {
		value := fmt.Sprintf("%v", s.Value)
		if len(value) > 50 {
			value = value[:47] + "..."
		}
		rows = append(rows, []string{s.Key, value, string(s.Source), s.SourcePath})
	}
	return writeTable(w, []string{"Key", "Value", "Source", "From"}, rows)
}
