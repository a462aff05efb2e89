package database

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when the addressed row does not exist
	ErrNotFound = errors.New("not found")
	// ErrStatusMismatch is returned when a status belongs to another project than the task
	ErrStatusMismatch = errors.New("status belongs to a different project")
	// ErrScopeMismatch is returned when a parent folder lives in another scope than its child
	ErrScopeMismatch = errors.New("parent folder belongs to a different scope")
	// ErrNoDefaultStatus is returned when a project has no status to place a new task in
	ErrNoDefaultStatus = errors.New("project has no statuses")
)

func sqliteCode(err error) (int, bool) {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code(), true
	}
	return 0, false
}

// IsConstraintError reports whether err was caused by any SQLite constraint violation
// (foreign key, unique, not null or check).
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := sqliteCode(err); ok {
		return code&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return strings.Contains(err.Error(), "constraint failed")
}

// IsForeignKeyError reports whether err was caused by a foreign key violation, such as
// deleting a status that tasks still reference.
func IsForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := sqliteCode(err); ok && code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
