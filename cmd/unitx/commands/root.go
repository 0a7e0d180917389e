// Package commands implements the unitx command line.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/unitx/am"
	"github.com/teranos/unitx/db"
	"github.com/teranos/unitx/definitions"
	"github.com/teranos/unitx/errors"
	"github.com/teranos/unitx/logger"
	"github.com/teranos/unitx/parser"
	"github.com/teranos/unitx/units"
)

// options holds the global flags and the configuration they resolve to
type options struct {
	verbosity  int
	jsonLog    bool
	configPath string
	defs       []string
	noBuiltin  bool
	format     string

	cfg *am.Config
}

// NewRootCmd builds the unitx command tree
func NewRootCmd() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:   "unitx",
		Short: "Parse, resolve and convert physical units",
		Long: `unitx: parse, resolve and convert physical unit expressions.

Expressions use the udunits grammar: juxtaposition or '.' multiplies, '/' divides,
'^' raises a symbol to an integer power and '@' shifts the origin.

Definitions come from the builtin set, definitions files (TOML, YAML, JSON, HCL,
udunits2 XML) and optionally the definitions database.

Examples:
  unitx convert 100 km/h m/s              # 27.7777777778 m/s
  unitx convert 25 degC degF              # 77 degF
  unitx resolve "kg.m/s^2"                # canonical form, dimension, scale
  unitx parse "(pi/180) rad"              # syntax tree
  unitx list --prefixes                   # known prefixes
  unitx defs validate lab.toml            # check a definitions file
  unitx batch conversions.txt             # run many commands`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.CountVarP(&o.verbosity, "verbose", "v", "Increase log verbosity (-v, -vv)")
	flags.BoolVar(&o.jsonLog, "json-log", false, "Write logs as JSON")
	flags.StringVar(&o.configPath, "config", "", "Configuration file (default: unitx.toml cascade)")
	flags.StringSliceVarP(&o.defs, "defs", "d", nil, "Additional definitions file (repeatable)")
	flags.BoolVar(&o.noBuiltin, "no-builtin", false, "Leave out the builtin definitions")
	flags.StringVarP(&o.format, "format", "o", "", "Output format: text, json, yaml, toml")

	root.AddCommand(
		newParseCmd(o),
		newResolveCmd(o),
		newConvertCmd(o),
		newListCmd(o),
		newDefsCmd(o),
		newBatchCmd(o),
		newAmCmd(o),
		newVersionCmd(o),
	)
	return root
}

// setup loads and validates the configuration, applies flag overrides and
// initializes the logger
func (o *options) setup(cmd *cobra.Command) error {
	var cfg *am.Config
	var err error
	if o.configPath != "" {
		cfg, err = am.LoadFromFile(o.configPath)
	} else {
		cfg, err = am.Load()
	}
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	// copy so flag overrides never leak into the cached configuration
	local := *cfg
	if cmd.Flags().Changed("format") {
		local.Output.Format = o.format
	}
	if err := local.Validate(); err != nil {
		return errors.WithHint(errors.Wrap(err, "invalid configuration"), "check it with 'unitx am where'")
	}
	o.cfg = &local

	verbosity := o.verbosity
	if verbosity == 0 {
		verbosity = local.Log.Verbosity
	}
	if err := logger.Initialize(o.jsonLog || local.Log.JSON, verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	return nil
}

// outputFormat is the effective output format, text when unset
func (o *options) outputFormat() string {
	if o.cfg == nil || o.cfg.Output.Format == "" {
		return am.OutputText
	}
	return o.cfg.Output.Format
}

// definitionPaths are the configured files followed by the --defs files
func (o *options) definitionPaths() []string {
	paths := append([]string(nil), o.cfg.Definitions.Paths...)
	return append(paths, o.defs...)
}

func (o *options) builtin() bool {
	return o.cfg.Definitions.Builtin && !o.noBuiltin
}

// openCatalog builds the catalog from every configured source. The returned
// cleanup closes the definitions database when one was opened.
func (o *options) openCatalog(ctx context.Context) (*definitions.Catalog, func(), error) {
	opts := []definitions.CatalogOption{
		definitions.WithCatalogLogger(logger.ComponentLogger("catalog")),
	}
	if !o.builtin() {
		opts = append(opts, definitions.WithoutBuiltin())
	}

	cleanup := func() {}
	if o.cfg.Database.Enabled {
		database, err := db.OpenWithMigrations(o.cfg.GetDatabasePath(), logger.ComponentLogger("db"))
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to open definitions database")
		}
		store := db.NewStore(database, logger.ComponentLogger("db"))
		opts = append(opts, definitions.WithSource(db.SourceName, store.Loader(ctx)))
		cleanup = func() { database.Close() }
	}

	catalog, err := definitions.NewCatalog(o.definitionPaths(), opts...)
	if err != nil {
		cleanup()
		return nil, nil, withHints(err)
	}
	return catalog, cleanup, nil
}

// withHints attaches user-facing hints for the domain errors
func withHints(err error) error {
	if err == nil {
		return nil
	}
	var unknown *units.UnknownSymbolError
	var incompatible *units.IncompatibleUnitsError
	var build *units.BuildError
	switch {
	case errors.As(err, &unknown):
		return errors.WithHint(err, "run 'unitx list' to see known units and 'unitx list --prefixes' for prefixes")
	case errors.As(err, &incompatible):
		return errors.WithHint(err, "compare dimensions with 'unitx resolve <expr>'")
	case units.IsParseError(err):
		return errors.WithHint(err, "inspect the expression with 'unitx parse <expr>'")
	case errors.As(err, &build):
		return errors.WithHint(err, "check definitions files with 'unitx defs validate <file>'")
	case errors.Is(err, errors.ErrUnsupportedFormat):
		return errors.WithHintf(err, "supported formats: %v", definitions.Formats)
	}
	return err
}

// PrintError writes err and its hints. Parse errors are rendered with a caret under
// the failing position, in color unless color output is off.
func PrintError(w io.Writer, err error) {
	var pe *parser.ParseError
	if errors.As(err, &pe) {
		ctx := parser.ErrorContextPlain
		if pterm.PrintColor && !logger.JSONOutput {
			ctx = parser.ErrorContextTerminal
		}
		fmt.Fprintln(w, "Error:", pe.FormatError(ctx))
	} else {
		fmt.Fprintln(w, "Error:", err)
	}
	if hint := errors.FlattenHints(err); hint != "" {
		fmt.Fprintln(w, "Hint:", hint)
	}
}
