package units

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/unitx/errors"
	"github.com/teranos/unitx/logger"
	"github.com/teranos/unitx/parser"
)

// BuildOption configures Build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	log *zap.SugaredLogger
}

// WithLogger makes Build report statistics and problems to log.
func WithLogger(log *zap.SugaredLogger) BuildOption {
	return func(c *buildConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// Build validates records and constructs a Registry.
//
// Problems do not stop the build early: every bad record is reported, in input order,
// in a single *BuildError. Derived units are resolved depth-first, so a unit may be
// defined in terms of a unit that appears later in the records.
func Build(units []UnitRecord, prefixes []PrefixRecord, opts ...BuildOption) (*Registry, error) {
	cfg := buildConfig{log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(&cfg)
	}
	start := time.Now()

	b := &builder{
		reg: &Registry{
			byKey:    make(map[string]*Unit),
			byPrefix: make(map[string]*Prefix),
		},
		state: make(map[*Unit]visitState),
	}
	b.addPrefixes(prefixes)
	b.addUnits(units)
	for _, u := range b.reg.units {
		b.resolve(u)
	}

	if len(b.problems) > 0 {
		cfg.log.Warnw("Registry build failed",
			logger.FieldCount, len(b.problems),
			logger.FieldError, b.problems[0].Error(),
		)
		return nil, &BuildError{Problems: b.problems}
	}

	cfg.log.Debugw("Registry built",
		logger.FieldUnits, len(b.reg.units),
		logger.FieldPrefixes, len(b.reg.prefixes),
		logger.FieldKeys, len(b.reg.byKey),
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return b.reg, nil
}

type visitState int

const (
	unvisited visitState = iota
	visiting
	resolved
	failed
)

type builder struct {
	reg      *Registry
	state    map[*Unit]visitState
	problems []error
}

func (b *builder) fail(err error) {
	b.problems = append(b.problems, err)
}

func (b *builder) addPrefixes(records []PrefixRecord) {
	for _, rec := range records {
		p, err := NewPrefix(rec.Name, rec.Value, rec.Symbols)
		if err != nil {
			b.fail(err)
			continue
		}
		for _, key := range p.keys() {
			if prev, ok := b.reg.byPrefix[key]; ok {
				if prev != p {
					b.fail(&DuplicateSymbolError{Symbol: key, First: "prefix " + prev.Name, Second: "prefix " + p.Name})
				}
				continue
			}
			b.reg.byPrefix[key] = p
			b.reg.pkeys = append(b.reg.pkeys, key)
		}
		b.reg.prefixes = append(b.reg.prefixes, p)
	}
	sort.Slice(b.reg.pkeys, func(i, j int) bool {
		ki, kj := b.reg.pkeys[i], b.reg.pkeys[j]
		if len(ki) != len(kj) {
			return len(ki) > len(kj)
		}
		return ki < kj
	})
}

func (b *builder) addUnits(records []UnitRecord) {
	for i, rec := range records {
		u, err := newUnit(i, rec)
		if err != nil {
			b.fail(err)
			continue
		}
		for _, key := range u.Keys() {
			if prev, ok := b.reg.byKey[key]; ok {
				b.fail(&DuplicateSymbolError{Symbol: key, First: "unit " + prev.Label(), Second: "unit " + u.Label()})
				continue
			}
			b.reg.byKey[key] = u
		}
		b.reg.units = append(b.reg.units, u)
	}
}

// newUnit checks the shape of a record and converts it
func newUnit(index int, rec UnitRecord) (*Unit, error) {
	label := rec.Label()
	if label == "" {
		return nil, &InvalidUnitError{Index: index, Reason: "a symbol or name is required"}
	}

	kinds := 0
	for _, set := range []bool{rec.IsBase, rec.DerivedFrom != nil, rec.Definition != ""} {
		if set {
			kinds++
		}
	}
	switch {
	case kinds == 0:
		return nil, &InvalidUnitError{Index: index, Symbol: label, Reason: "one of base, derived_from or definition is required"}
	case kinds > 1:
		return nil, &InvalidUnitError{Index: index, Symbol: label, Reason: "base, derived_from and definition are mutually exclusive"}
	}

	u := &Unit{
		Kind:    DerivedKind,
		Name:    rec.Name.normalized(),
		Symbol:  rec.Symbol,
		Scale:   1,
		Aliases: make([]UnitName, len(rec.Aliases)),
	}
	for i, alias := range rec.Aliases {
		u.Aliases[i] = alias.normalized()
	}

	switch {
	case rec.IsBase:
		u.Kind = BaseKind
	case rec.DerivedFrom != nil:
		d := rec.DerivedFrom
		if d.Symbol == "" {
			return nil, &InvalidUnitError{Index: index, Symbol: label, Reason: "derived_from needs a symbol"}
		}
		if d.Scale == 0 {
			return nil, &InvalidScaleError{Symbol: label, Scale: d.Scale}
		}
		u.Base, u.Scale, u.Offset = d.Symbol, d.Scale, d.Offset
	default:
		u.Definition = rec.Definition
	}
	return u, nil
}

// resolve computes u.Resolved, recording a problem on failure. It reports whether u is usable.
func (b *builder) resolve(u *Unit) bool {
	switch b.state[u] {
	case resolved:
		return true
	case failed:
		return false
	}

	b.state[u] = visiting
	res, err := b.compute(u)
	if err == nil && res.Scale == 0 {
		err = &InvalidScaleError{Symbol: u.Label(), Scale: res.Scale}
	}
	if err != nil {
		b.state[u] = failed
		b.fail(err)
		return false
	}
	u.Resolved = res
	b.state[u] = resolved
	return true
}

func (b *builder) compute(u *Unit) (ResolvedUnit, error) {
	switch {
	case u.IsBase():
		return ResolvedUnit{Dimension: BaseDimension(u.Label()), Scale: 1}, nil

	case u.Base != "":
		target, err := b.resolveExpr(u, u.Base)
		if err != nil {
			return ResolvedUnit{}, err
		}
		return ResolvedUnit{
			Dimension: target.Dimension,
			Scale:     u.Scale * target.Scale,
			Offset:    u.Offset*target.Scale + target.Offset,
		}, nil
	}
	return b.resolveExpr(u, u.Definition)
}

// resolveExpr resolves a reference or definition of u, translating lookup failures into
// build problems that name u
func (b *builder) resolveExpr(u *Unit, expr string) (ResolvedUnit, error) {
	node, err := parser.Parse(expr)
	if err != nil {
		return ResolvedUnit{}, errors.Wrapf(err, "unit %s", u.Label())
	}
	res, err := (&Resolver{table: b}).Resolve(node)
	if err == nil {
		return res, nil
	}

	var unknown *UnknownSymbolError
	var cycle *cycleError
	var dep *dependencyError
	switch {
	case errors.As(err, &unknown):
		return ResolvedUnit{}, &UnresolvedBaseError{Symbol: u.Label(), Target: unknown.Symbol}
	case errors.As(err, &cycle):
		return ResolvedUnit{}, &UnresolvedBaseError{Symbol: u.Label(), Target: cycle.key, Cycle: true}
	case errors.As(err, &dep):
		return ResolvedUnit{}, &UnresolvedBaseError{Symbol: u.Label(), Target: dep.key, Reason: "it is not a valid unit"}
	}
	return ResolvedUnit{}, errors.Wrapf(err, "unit %s: definition %q", u.Label(), expr)
}

// cycleError reports a reference to a unit whose resolution is in progress
type cycleError struct{ key string }

func (e *cycleError) Error() string { return "definition cycle through " + e.key }

// dependencyError reports a reference to a unit that failed to resolve
type dependencyError struct{ key string }

func (e *dependencyError) Error() string { return e.key + " is not a valid unit" }

func (b *builder) unit(key string) (*Unit, bool, error) {
	u, ok := b.reg.byKey[key]
	if !ok {
		return nil, false, nil
	}
	switch b.state[u] {
	case visiting:
		return nil, true, &cycleError{key: key}
	case failed:
		return nil, true, &dependencyError{key: key}
	}
	if !b.resolve(u) {
		return nil, true, &dependencyError{key: key}
	}
	return u, true, nil
}

func (b *builder) prefix(key string) (*Prefix, bool) {
	return b.reg.LookupPrefix(key)
}

func (b *builder) prefixKeys() []string {
	return b.reg.pkeys
}
