package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teranos/unitx/version"
)

func newVersionCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show unitx version information",
		Long:  `Display version, build time, commit hash, supported definitions versions and platform.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			return writeOutput(cmd.OutOrStdout(), o.outputFormat(), info, func(w io.Writer) error {
				fmt.Fprintln(w, info.String())
				fmt.Fprintf(w, "Definitions: %s (reads %s)\n", info.Definitions, info.Supported)
				fmt.Fprintf(w, "Platform: %s\n", info.Platform)
				_, err := fmt.Fprintf(w, "Go: %s\n", info.GoVersion)
				return err
			})
		},
	}
}
