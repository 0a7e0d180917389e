package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/unitx/definitions"
	"github.com/teranos/unitx/errors"
	unitxtest "github.com/teranos/unitx/internal/testing"
	"github.com/teranos/unitx/units"
)

func newTestStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	db := unitxtest.CreateTestDB(t)
	require.NoError(t, Migrate(db, nil))
	return NewStore(db, zaptest.NewLogger(t).Sugar()), db
}

func smallSet() definitions.Set {
	return definitions.Set{
		Version: "1.0.0",
		Prefixes: []units.PrefixRecord{
			{Name: "kilo", Value: 1e3, Symbols: []string{"k"}},
			{Name: "micro", Value: 1e-6, Symbols: []string{"µ", "u"}},
		},
		Units: []units.UnitRecord{
			{Symbol: "m", Name: units.UnitName{Singular: "meter"}, Aliases: []units.UnitName{{Singular: "metre", Plural: "metres"}}, IsBase: true},
			{Symbol: "s", Name: units.UnitName{Singular: "second"}, IsBase: true},
			{Symbol: "K", Name: units.UnitName{Singular: "kelvin", Plural: "kelvin"}, IsBase: true},
			{Symbol: "degC", Name: units.UnitName{Singular: "degree_Celsius"}, DerivedFrom: &units.Derivation{Symbol: "K", Scale: 1, Offset: 273.15}},
			{Symbol: "Hz", Name: units.UnitName{Singular: "hertz", Plural: "hertz"}, Definition: "1/s"},
		},
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	set := smallSet()
	require.NoError(t, store.SaveSet(ctx, set))

	loaded, err := store.LoadSet(ctx)
	require.NoError(t, err)
	assert.Equal(t, set, loaded)

	reg, err := loaded.Build(nil)
	require.NoError(t, err)
	got, err := reg.ConvertString(25, "degC", "K")
	require.NoError(t, err)
	assert.InDelta(t, 298.15, got, 1e-9)
	got, err = reg.ConvertString(1, "kHz", "1/s")
	require.NoError(t, err)
	assert.InDelta(t, 1000, got, 1e-9)
}

func TestStore_RoundTripBuiltin(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	set, err := definitions.Default()
	require.NoError(t, err)
	require.NoError(t, store.SaveSet(ctx, set))

	loaded, err := store.LoadSet(ctx)
	require.NoError(t, err)
	assert.Equal(t, set, loaded)

	counts, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{Units: len(set.Units), Prefixes: len(set.Prefixes)}, counts)
}

func TestStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.SaveSet(ctx, smallSet()))

	replacement := definitions.Set{
		Units: []units.UnitRecord{{Symbol: "B", Name: units.UnitName{Singular: "byte"}, IsBase: true}},
	}
	require.NoError(t, store.SaveSet(ctx, replacement))

	loaded, err := store.LoadSet(ctx)
	require.NoError(t, err)
	assert.Equal(t, replacement, loaded)

	counts, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{Units: 1}, counts)
}

func TestStore_LoadEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.LoadSet(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyStore)
	assert.True(t, errors.IsNotFoundError(err))
	assert.Contains(t, errors.FlattenHints(err), "unitx defs import")
}

func TestStore_ClosedDatabase(t *testing.T) {
	store, db := newTestStore(t)
	db.Close()

	_, err := store.Counts(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDatabaseClosed))
}

func TestStore_CatalogSource(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	require.NoError(t, store.SaveSet(ctx, smallSet()))

	catalog, err := definitions.NewCatalog(nil,
		definitions.WithoutBuiltin(),
		definitions.WithSource(SourceName, store.Loader(ctx)),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{SourceName}, catalog.Sources())

	got, err := catalog.Registry().ConvertString(2, "km", "metres")
	require.NoError(t, err)
	assert.InDelta(t, 2000, got, 1e-9)

	// a store change shows up on reload
	set := smallSet()
	set.Units = append(set.Units, units.UnitRecord{
		Symbol: "ft", Name: units.UnitName{Singular: "foot", Plural: "feet"},
		DerivedFrom: &units.Derivation{Symbol: "m", Scale: 0.3048},
	})
	require.NoError(t, store.SaveSet(ctx, set))
	require.NoError(t, catalog.Reload())

	got, err = catalog.Registry().ConvertString(10, "feet", "m")
	require.NoError(t, err)
	assert.InDelta(t, 3.048, got, 1e-9)
}

func TestStore_SaveSet_Sqlmock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db, nil)
	set := definitions.Set{
		Version:  "1.0.0",
		Prefixes: []units.PrefixRecord{{Name: "kilo", Value: 1e3, Symbols: []string{"k"}}},
		Units: []units.UnitRecord{
			{Symbol: "m", Name: units.UnitName{Singular: "meter"}, Aliases: []units.UnitName{{Singular: "metre"}}, IsBase: true},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM unit_aliases`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO definitions_meta`).WithArgs("1.0.0").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO prefixes`).WithArgs(0, "kilo", 1e3).WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(`INSERT INTO prefix_symbols`).WithArgs(int64(7), 0, "k").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO units`).
		WithArgs(0, "m", "meter", "", true, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec(`INSERT INTO unit_aliases`).WithArgs(int64(3), 0, "metre", "").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, store.SaveSet(context.Background(), set))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveSet_RollsBackOnFailure_Sqlmock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM unit_aliases`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO units`).WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	set := definitions.Set{Units: []units.UnitRecord{{Symbol: "m", Name: units.UnitName{Singular: "meter"}, IsBase: true}}}
	err = store.SaveSet(context.Background(), set)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store unit m")
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Counts_Sqlmock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT \(SELECT COUNT\(\*\) FROM units\)`).
		WillReturnRows(sqlmock.NewRows([]string{"units", "prefixes"}).AddRow(59, 20))

	counts, err := NewStore(db, nil).Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Counts{Units: 59, Prefixes: 20}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
