package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/unitx/am"
	"github.com/teranos/unitx/db"
	"github.com/teranos/unitx/definitions"
	"github.com/teranos/unitx/errors"
	"github.com/teranos/unitx/logger"
	"github.com/teranos/unitx/units"
)

func newDefsCmd(o *options) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "defs",
		Short: "Validate, export, fetch and store unit definitions",
		Long: `Work with definitions files and the definitions database.

Examples:
  unitx defs validate lab.toml udunits2.xml
  unitx defs export --as yaml > units.yaml
  unitx defs fetch https://example.org/units.toml ./units.toml
  unitx defs import lab.toml
  unitx defs dump --counts`,
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "Definitions database (default: database.path)")

	databasePath := func() string {
		if dbPath != "" {
			return dbPath
		}
		return o.cfg.GetDatabasePath()
	}

	cmd.AddCommand(
		newDefsValidateCmd(o),
		newDefsExportCmd(o),
		newDefsFetchCmd(o),
		newDefsImportCmd(o, databasePath),
		newDefsDumpCmd(o, databasePath),
	)
	return cmd
}

func newDefsValidateCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [files...]",
		Short: "Check that definitions files load and build",
		Long: `Load each file, check its version and build it together with the builtin
definitions (unless --no-builtin). Without files the configured sources are checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				catalog, cleanup, err := o.openCatalog(cmd.Context())
				if err != nil {
					return err
				}
				defer cleanup()
				reg := catalog.Registry()
				fmt.Fprintf(out, "✓ %d units, %d prefixes from %s\n", reg.Len(), len(reg.Prefixes()), strings.Join(catalog.Sources(), ", "))
				return nil
			}

			set, err := o.loadForValidation(args)
			if err != nil {
				return err
			}
			reg, err := set.Build(logger.ComponentLogger("defs"))
			if err != nil {
				printProblems(cmd.ErrOrStderr(), err)
				return withHints(err)
			}
			fmt.Fprintf(out, "✓ %d units, %d prefixes from %s\n", reg.Len(), len(reg.Prefixes()), strings.Join(args, ", "))
			return nil
		},
	}
}

// loadForValidation loads files, checks each against definitions.require_version and
// merges them over the builtin set when it is enabled
func (o *options) loadForValidation(paths []string) (definitions.Set, error) {
	var sets []definitions.Set
	if o.builtin() {
		builtin, err := definitions.Default()
		if err != nil {
			return definitions.Set{}, err
		}
		sets = append(sets, builtin)
	}
	for _, path := range paths {
		set, err := definitions.LoadFile(path)
		if err != nil {
			return definitions.Set{}, withHints(err)
		}
		if err := o.cfg.CheckRequiredVersion(set.Version); err != nil {
			return definitions.Set{}, errors.Wrapf(err, "%s", path)
		}
		sets = append(sets, set)
	}
	return definitions.Merge(sets...), nil
}

// printProblems lists every problem of a registry build failure, one per line
func printProblems(w io.Writer, err error) {
	var build *units.BuildError
	if !errors.As(err, &build) {
		return
	}
	for _, p := range build.Problems {
		fmt.Fprintf(w, "  ✗ %v\n", p)
	}
}

func newDefsExportCmd(o *options) *cobra.Command {
	var as, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current catalog as a definitions file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := o.exportFormat(as)
			if err != nil {
				return err
			}
			catalog, cleanup, err := o.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			set := definitions.FromRegistry(catalog.Registry())
			return writeSet(cmd.OutOrStdout(), output, set, format)
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "Definitions format: toml, yaml, json (default: definitions.export_format)")
	cmd.Flags().StringVar(&output, "output", "", "Write to this file instead of stdout")
	return cmd
}

func (o *options) exportFormat(flag string) (definitions.Format, error) {
	name := flag
	if name == "" {
		name = o.cfg.Definitions.ExportFormat
	}
	if name == "" {
		name = am.DefaultExportFormat
	}
	format, err := definitions.ParseFormat(name)
	if err != nil {
		return "", withHints(err)
	}
	return format, nil
}

func writeSet(stdout io.Writer, path string, set definitions.Set, format definitions.Format) error {
	if path == "" {
		return definitions.Export(stdout, set, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := definitions.Export(f, set, format); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "failed to write %s", path)
}

func newDefsFetchCmd(o *options) *cobra.Command {
	var allowPrivate bool
	cmd := &cobra.Command{
		Use:   "fetch <source> <destination>",
		Short: "Download a definitions file and check it loads",
		Long: `Download a definitions file from a URL, a local path or any source go-getter
understands. The file is removed again if it does not decode. http(s) sources on
loopback or private networks are refused unless --allow-private is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []definitions.FetchOption
			if allowPrivate {
				opts = append(opts, definitions.AllowPrivateNetworks())
			}
			set, err := definitions.Fetch(cmd.Context(), args[0], args[1], logger.ComponentLogger("fetch"), opts...)
			if err != nil {
				return withHints(err)
			}
			if err := o.cfg.CheckRequiredVersion(set.Version); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d units, %d prefixes\n", args[1], len(set.Units), len(set.Prefixes))
			return nil
		},
	}
	cmd.Flags().BoolVar(&allowPrivate, "allow-private", false, "Allow http(s) sources on loopback and private networks")
	return cmd
}

func newDefsImportCmd(o *options, databasePath func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Store a definitions file in the definitions database",
		Long: `Validate a definitions file and store it in the database, replacing what
was stored before. Enable database.enabled to serve it in every command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := definitions.LoadFile(args[0])
			if err != nil {
				return withHints(err)
			}
			// the stored set is served on top of the builtin set, so check it there
			merged, err := o.loadForValidation(args)
			if err != nil {
				return err
			}
			if _, err := merged.Build(logger.ComponentLogger("defs")); err != nil {
				printProblems(cmd.ErrOrStderr(), err)
				return withHints(errors.Wrapf(err, "%s does not build", args[0]))
			}

			database, err := db.OpenWithMigrations(databasePath(), logger.ComponentLogger("db"))
			if err != nil {
				return err
			}
			defer database.Close()

			store := db.NewStore(database, logger.ComponentLogger("db"))
			if err := store.SaveSet(cmd.Context(), set); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ stored %d units, %d prefixes in %s\n", len(set.Units), len(set.Prefixes), databasePath())
			return nil
		},
	}
}

func newDefsDumpCmd(o *options, databasePath func() string) *cobra.Command {
	var as string
	var counts bool
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the definitions stored in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := db.OpenWithMigrations(databasePath(), logger.ComponentLogger("db"))
			if err != nil {
				return err
			}
			defer database.Close()
			store := db.NewStore(database, logger.ComponentLogger("db"))

			if counts {
				c, err := store.Counts(cmd.Context())
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), o.outputFormat(), c, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "units     %d\nprefixes  %d\n", c.Units, c.Prefixes)
					return err
				})
			}

			format, err := o.exportFormat(as)
			if err != nil {
				return err
			}
			set, err := store.LoadSet(cmd.Context())
			if err != nil {
				return err
			}
			return definitions.Export(cmd.OutOrStdout(), set, format)
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "Definitions format: toml, yaml, json (default: definitions.export_format)")
	cmd.Flags().BoolVar(&counts, "counts", false, "Only print how many units and prefixes are stored")
	return cmd
}
