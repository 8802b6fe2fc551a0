package database

import (
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrDuplicateArchive is returned when an archive run collides with an
// existing (subject, day) summary row. History is append-only: the caller
// must treat this as a scheduling fault, never as something to overwrite.
var ErrDuplicateArchive = errors.New("summary already archived for this day")

func isConstraintViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}
