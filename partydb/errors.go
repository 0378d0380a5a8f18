package partydb

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// ErrNotFound indicates the requested row does not exist or was
// soft-deleted.
var ErrNotFound = errors.New("not found")

func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if !errors.As(err, &serr) {
		return false
	}
	return serr.Code == sqlite3.ErrConstraint &&
		serr.ExtendedCode == sqlite3.ErrConstraintUnique
}
