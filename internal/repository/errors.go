// Package repository implements data access over the SQLite store.  This
// file defines error types and classification helpers shared across the
// repositories, so handlers can translate failures into the right HTTP
// status without inspecting driver internals.
package repository

import (
    "errors"
    "strings"

    sqlite3 "github.com/mattn/go-sqlite3"
)

// ErrUsernameExists is returned when registration collides with an existing
// username.  Handlers should translate this into an HTTP 409 response.
var ErrUsernameExists = errors.New("username already exists")

// isUniqueErr reports whether err is a unique-constraint violation.  The
// driver exposes SQLITE_CONSTRAINT_UNIQUE as an extended code; the text
// check covers wrapped errors that lost the driver type.
func isUniqueErr(err error) bool {
    if err == nil {
        return false
    }
    var se sqlite3.Error
    if errors.As(err, &se) {
        return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
            se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
    }
    return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
