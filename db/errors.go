package db

import (
	"strings"

	"github.com/teranos/unitx/errors"
)

// ErrDatabaseClosed is returned when operations are attempted on a closed database,
// typically while a watcher reload races shutdown.
var ErrDatabaseClosed = errors.New("database is closed")

// ErrEmptyStore is returned by LoadSet when no definitions have been imported
var ErrEmptyStore = errors.Mark(errors.New("no definitions stored"), errors.ErrNotFound)

// IsDatabaseClosed checks if an error indicates the database connection is closed.
// The sql driver returns its own error values, so their message is matched as a fallback.
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDatabaseClosed) {
		return true
	}
	return strings.Contains(err.Error(), "database is closed")
}
