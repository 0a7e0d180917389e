package definitions

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/teranos/unitx/errors"
	"github.com/teranos/unitx/logger"
	"github.com/teranos/unitx/units"
)

// Catalog serves the current registry built from a list of definitions sources.
// Reload builds a complete new registry and swaps it in only when the build succeeds,
// so readers always see a consistent registry and never block.
type Catalog struct {
	current    atomic.Pointer[units.Registry]
	generation atomic.Uint64

	mu      sync.Mutex // serialises reloads
	paths   []string
	builtin bool
	extra   []extraSource
	log     *zap.SugaredLogger
}

type extraSource struct {
	name string
	load func() (Set, error)
}

// CatalogOption configures a Catalog
type CatalogOption func(*Catalog)

// WithoutBuiltin leaves the embedded definitions out of the catalog.
func WithoutBuiltin() CatalogOption {
	return func(c *Catalog) { c.builtin = false }
}

// WithSource adds a source that is not a file, such as a definitions database.
// It is loaded after the builtin set and before the files.
func WithSource(name string, load func() (Set, error)) CatalogOption {
	return func(c *Catalog) { c.extra = append(c.extra, extraSource{name: name, load: load}) }
}

// WithCatalogLogger sets the logger
func WithCatalogLogger(log *zap.SugaredLogger) CatalogOption {
	return func(c *Catalog) {
		if log != nil {
			c.log = log
		}
	}
}

// NewCatalog loads and builds the given definitions files on top of the builtin set.
// The initial build must succeed.
func NewCatalog(paths []string, opts ...CatalogOption) (*Catalog, error) {
	c := &Catalog{
		paths:   append([]string(nil), paths...),
		builtin: true,
		log:     zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Registry returns the current registry. Safe for concurrent use.
func (c *Catalog) Registry() *units.Registry {
	return c.current.Load()
}

// Generation counts successful loads, starting at 1 for the initial one.
func (c *Catalog) Generation() uint64 {
	return c.generation.Load()
}

// Sources lists the sources in load order
func (c *Catalog) Sources() []string {
	var out []string
	if c.builtin {
		out = append(out, BuiltinSource)
	}
	for _, e := range c.extra {
		out = append(out, e.name)
	}
	return append(out, c.paths...)
}

// Paths lists the definitions files, for watching
func (c *Catalog) Paths() []string {
	return append([]string(nil), c.paths...)
}

// Set loads and merges every source without building.
func (c *Catalog) Set() (Set, error) {
	var sets []Set
	if c.builtin {
		set, err := Default()
		if err != nil {
			return Set{}, errors.Wrap(err, "failed to load builtin definitions")
		}
		sets = append(sets, set)
	}
	for _, e := range c.extra {
		set, err := e.load()
		if err != nil {
			return Set{}, errors.Wrapf(err, "failed to load definitions from %s", e.name)
		}
		sets = append(sets, set)
	}
	files, err := LoadFiles(c.paths...)
	if err != nil {
		return Set{}, err
	}
	return Merge(append(sets, files)...), nil
}

// Reload re-reads every source and builds a new registry. On failure the current registry
// stays in place and the error is returned.
func (c *Catalog) Reload() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	set, err := c.Set()
	if err != nil {
		return err
	}
	reg, err := set.Build(c.log)
	if err != nil {
		c.log.Warnw("Definitions rejected, keeping current registry",
			logger.FieldError, err,
			logger.FieldCount, len(c.Sources()),
		)
		return err
	}

	c.current.Store(reg)
	gen := c.generation.Add(1)
	c.log.Infow("Registry loaded",
		logger.FieldUnits, reg.Len(),
		logger.FieldPrefixes, len(reg.Prefixes()),
		"generation", gen,
	)
	return nil
}
