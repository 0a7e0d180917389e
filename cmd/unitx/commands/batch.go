package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/teranos/unitx/definitions"
	"github.com/teranos/unitx/errors"
	"github.com/teranos/unitx/logger"
	"github.com/teranos/unitx/units"
)

func newBatchCmd(o *options) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Run parse, resolve and convert commands from a file or stdin",
		Long: `Read one command per line and run it against a single catalog. Arguments are
split like a shell would, so quote expressions that contain spaces. Blank lines and
lines starting with # are skipped. A failing line is reported and the run continues.

With --watch (or definitions.watch) the definitions files are watched and the
catalog is rebuilt when they change, which suits long runs reading stdin.

Example file:
  convert 100 'km/h' 'm/s'
  resolve "kg.m/s^2"
  parse "(pi/180) rad"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			source := "stdin"
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.Wrapf(err, "failed to open %s", args[0])
				}
				defer f.Close()
				in = f
				source = args[0]
			}

			catalog, cleanup, err := o.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if !cmd.Flags().Changed("watch") {
				watch = o.cfg.Definitions.Watch
			}
			if watch && len(catalog.Paths()) > 0 {
				stop, err := o.watch(catalog, cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				defer stop()
			}

			return o.runBatch(in, cmd.OutOrStdout(), cmd.ErrOrStderr(), source, catalog)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "Rebuild the catalog when definitions files change")
	return cmd
}

// watch starts a watcher on the catalog's files and returns its stop function
func (o *options) watch(catalog *definitions.Catalog, stderr io.Writer) (func(), error) {
	log := logger.ComponentLogger("watcher")
	w, err := definitions.NewWatcher(catalog,
		definitions.WithDebounce(time.Duration(o.cfg.Definitions.DebounceMS)*time.Millisecond),
		definitions.WithWatcherLogger(log),
	)
	if err != nil {
		return nil, err
	}
	w.OnReload(func(reg *units.Registry) error {
		fmt.Fprintf(stderr, "definitions reloaded: %d units\n", reg.Len())
		return nil
	})
	w.OnError(func(err error) {
		fmt.Fprintf(stderr, "definitions rejected, keeping previous: %v\n", err)
	})
	w.Start()
	return func() {
		if err := w.Stop(); err != nil {
			log.Warnw("Failed to stop watcher", logger.FieldError, err)
		}
	}, nil
}

// runBatch runs every line of in. The registry is fetched per line so a reload
// between lines takes effect.
func (o *options) runBatch(in io.Reader, stdout, stderr io.Writer, source string, catalog *definitions.Catalog) error {
	scanner := bufio.NewScanner(in)
	lineNo, ran, failed := 0, 0, 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ran++

		if err := o.runLine(stdout, catalog.Registry(), line); err != nil {
			failed++
			fmt.Fprintf(stderr, "%s:%d: %v\n", source, lineNo, err)
			if hint := errors.FlattenHints(err); hint != "" {
				fmt.Fprintf(stderr, "%s:%d: hint: %s\n", source, lineNo, hint)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "failed to read %s", source)
	}

	logger.Logger.Debugw("Batch complete", logger.FieldSource, source, logger.FieldCount, ran, "failed", failed)
	if failed > 0 {
		return errors.Newf("%d of %d commands failed", failed, ran)
	}
	return nil
}

func (o *options) runLine(w io.Writer, reg *units.Registry, line string) error {
	words, err := shellquote.Split(line)
	if err != nil {
		return errors.Wrap(err, "invalid quoting")
	}
	format := o.outputFormat()
	switch words[0] {
	case "parse":
		return runParse(w, format, words[1:])
	case "resolve":
		return runResolve(w, format, reg, words[1:])
	case "convert":
		return runConvert(w, format, o.cfg.GetPrecision(), reg, words[1:])
	}
	return errors.WithHint(errors.Newf("unknown batch command %q", words[0]), "batch lines start with parse, resolve or convert")
}
