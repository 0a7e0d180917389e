package db

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/teranos/unitx/definitions"
	"github.com/teranos/unitx/errors"
	"github.com/teranos/unitx/logger"
	"github.com/teranos/unitx/units"
)

// SourceName labels definitions served from the store in catalog sources and logs
const SourceName = "database"

const (
	clearQuery = `
		DELETE FROM unit_aliases;
		DELETE FROM units;
		DELETE FROM prefix_symbols;
		DELETE FROM prefixes;
		DELETE FROM definitions_meta;`

	versionInsertQuery = `INSERT INTO definitions_meta (key, value) VALUES ('version', ?)`
	versionSelectQuery = `SELECT value FROM definitions_meta WHERE key = 'version'`

	prefixInsertQuery       = `INSERT INTO prefixes (position, name, value) VALUES (?, ?, ?)`
	prefixSymbolInsertQuery = `INSERT INTO prefix_symbols (prefix_id, position, symbol) VALUES (?, ?, ?)`
	prefixSelectQuery       = `SELECT id, name, value FROM prefixes ORDER BY position`
	prefixSymbolSelectQuery = `SELECT prefix_id, symbol FROM prefix_symbols ORDER BY prefix_id, position`

	unitInsertQuery = `
		INSERT INTO units (
			position, symbol, singular, plural, is_base,
			derived_symbol, derived_scale, derived_offset, definition
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	aliasInsertQuery = `INSERT INTO unit_aliases (unit_id, position, singular, plural) VALUES (?, ?, ?, ?)`
	unitSelectQuery  = `
		SELECT id, symbol, singular, plural, is_base,
		       derived_symbol, derived_scale, derived_offset, definition
		FROM units ORDER BY position`
	aliasSelectQuery = `SELECT unit_id, singular, plural FROM unit_aliases ORDER BY unit_id, position`

	countQuery = `SELECT (SELECT COUNT(*) FROM units), (SELECT COUNT(*) FROM prefixes)`
)

// Counts reports how many records the store holds
type Counts struct {
	Units    int `json:"units" yaml:"units"`
	Prefixes int `json:"prefixes" yaml:"prefixes"`
}

// Store persists one definitions set in SQLite. Saving replaces what was stored.
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// NewStore creates a store over a migrated database
func NewStore(db *sql.DB, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{db: db, logger: log}
}

// SaveSet replaces the stored definitions with set in a single transaction.
func (s *Store) SaveSet(ctx context.Context, set definitions.Set) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.wrap(err, "begin save")
	}
	if err := saveSet(ctx, tx, set); err != nil {
		tx.Rollback()
		return s.wrap(err, "save definitions")
	}
	if err := tx.Commit(); err != nil {
		return s.wrap(err, "commit definitions")
	}

	s.logger.Infow("Definitions stored",
		logger.FieldUnits, len(set.Units),
		logger.FieldPrefixes, len(set.Prefixes),
		logger.FieldVersion, set.Version,
	)
	return nil
}

func saveSet(ctx context.Context, tx *sql.Tx, set definitions.Set) error {
	if _, err := tx.ExecContext(ctx, clearQuery); err != nil {
		return errors.Wrap(err, "clear previous definitions")
	}
	if set.Version != "" {
		if _, err := tx.ExecContext(ctx, versionInsertQuery, set.Version); err != nil {
			return errors.Wrap(err, "store version")
		}
	}

	for i, p := range set.Prefixes {
		res, err := tx.ExecContext(ctx, prefixInsertQuery, i, p.Name, p.Value)
		if err != nil {
			return errors.Wrapf(err, "store prefix %s", p.Name)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return errors.Wrapf(err, "id of prefix %s", p.Name)
		}
		for j, symbol := range p.Symbols {
			if _, err := tx.ExecContext(ctx, prefixSymbolInsertQuery, id, j, symbol); err != nil {
				return errors.Wrapf(err, "store symbol %s of prefix %s", symbol, p.Name)
			}
		}
	}

	for i, u := range set.Units {
		var derivedSymbol sql.NullString
		var derivedScale, derivedOffset sql.NullFloat64
		if u.DerivedFrom != nil {
			derivedSymbol = sql.NullString{String: u.DerivedFrom.Symbol, Valid: true}
			derivedScale = sql.NullFloat64{Float64: u.DerivedFrom.Scale, Valid: true}
			derivedOffset = sql.NullFloat64{Float64: u.DerivedFrom.Offset, Valid: true}
		}
		res, err := tx.ExecContext(ctx, unitInsertQuery,
			i, u.Symbol, u.Name.Singular, u.Name.Plural, u.IsBase,
			derivedSymbol, derivedScale, derivedOffset, u.Definition,
		)
		if err != nil {
			return errors.Wrapf(err, "store unit %s", u.Label())
		}
		id, err := res.LastInsertId()
		if err != nil {
			return errors.Wrapf(err, "id of unit %s", u.Label())
		}
		for j, alias := range u.Aliases {
			if _, err := tx.ExecContext(ctx, aliasInsertQuery, id, j, alias.Singular, alias.Plural); err != nil {
				return errors.Wrapf(err, "store alias %s of unit %s", alias.Singular, u.Label())
			}
		}
	}
	return nil
}

// LoadSet reads the stored definitions back in the order they were saved.
// An empty store returns ErrEmptyStore.
func (s *Store) LoadSet(ctx context.Context) (definitions.Set, error) {
	var set definitions.Set

	err := s.db.QueryRowContext(ctx, versionSelectQuery).Scan(&set.Version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return definitions.Set{}, s.wrap(err, "load version")
	}

	prefixes, err := s.loadPrefixes(ctx)
	if err != nil {
		return definitions.Set{}, s.wrap(err, "load prefixes")
	}
	unitRecords, err := s.loadUnits(ctx)
	if err != nil {
		return definitions.Set{}, s.wrap(err, "load units")
	}
	if len(prefixes) == 0 && len(unitRecords) == 0 {
		return definitions.Set{}, errors.WithHint(ErrEmptyStore, "import a definitions file with 'unitx defs import <file>'")
	}
	set.Prefixes = prefixes
	set.Units = unitRecords

	s.logger.Debugw("Definitions loaded",
		logger.FieldSource, SourceName,
		logger.FieldUnits, len(set.Units),
		logger.FieldPrefixes, len(set.Prefixes),
	)
	return set, nil
}

func (s *Store) loadPrefixes(ctx context.Context) ([]units.PrefixRecord, error) {
	rows, err := s.db.QueryContext(ctx, prefixSelectQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []units.PrefixRecord
	index := make(map[int64]int)
	for rows.Next() {
		var id int64
		var p units.PrefixRecord
		if err := rows.Scan(&id, &p.Name, &p.Value); err != nil {
			return nil, errors.Wrap(err, "scan prefix")
		}
		index[id] = len(records)
		records = append(records, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	symbols, err := s.db.QueryContext(ctx, prefixSymbolSelectQuery)
	if err != nil {
		return nil, err
	}
	defer symbols.Close()
	for symbols.Next() {
		var id int64
		var symbol string
		if err := symbols.Scan(&id, &symbol); err != nil {
			return nil, errors.Wrap(err, "scan prefix symbol")
		}
		if i, ok := index[id]; ok {
			records[i].Symbols = append(records[i].Symbols, symbol)
		}
	}
	return records, symbols.Err()
}

func (s *Store) loadUnits(ctx context.Context) ([]units.UnitRecord, error) {
	rows, err := s.db.QueryContext(ctx, unitSelectQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []units.UnitRecord
	index := make(map[int64]int)
	for rows.Next() {
		var (
			id            int64
			u             units.UnitRecord
			derivedSymbol sql.NullString
			derivedScale  sql.NullFloat64
			derivedOffset sql.NullFloat64
		)
		if err := rows.Scan(&id, &u.Symbol, &u.Name.Singular, &u.Name.Plural, &u.IsBase,
			&derivedSymbol, &derivedScale, &derivedOffset, &u.Definition); err != nil {
			return nil, errors.Wrap(err, "scan unit")
		}
		if derivedSymbol.Valid {
			u.DerivedFrom = &units.Derivation{
				Symbol: derivedSymbol.String,
				Scale:  derivedScale.Float64,
				Offset: derivedOffset.Float64,
			}
		}
		index[id] = len(records)
		records = append(records, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	aliases, err := s.db.QueryContext(ctx, aliasSelectQuery)
	if err != nil {
		return nil, err
	}
	defer aliases.Close()
	for aliases.Next() {
		var id int64
		var alias units.UnitName
		if err := aliases.Scan(&id, &alias.Singular, &alias.Plural); err != nil {
			return nil, errors.Wrap(err, "scan alias")
		}
		if i, ok := index[id]; ok {
			records[i].Aliases = append(records[i].Aliases, alias)
		}
	}
	return records, aliases.Err()
}

// Counts reports the number of stored units and prefixes
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	if err := s.db.QueryRowContext(ctx, countQuery).Scan(&c.Units, &c.Prefixes); err != nil {
		return Counts{}, s.wrap(err, "count definitions")
	}
	return c, nil
}

// Loader adapts the store to a catalog source. Each call reads the current rows.
func (s *Store) Loader(ctx context.Context) func() (definitions.Set, error) {
	return func() (definitions.Set, error) {
		return s.LoadSet(ctx)
	}
}

func (s *Store) wrap(err error, what string) error {
	if IsDatabaseClosed(err) {
		return errors.Mark(errors.Wrap(err, what), ErrDatabaseClosed)
	}
	return errors.Wrap(err, what)
}
