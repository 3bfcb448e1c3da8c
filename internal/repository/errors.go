// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios without inspecting
// driver error strings. For example, ErrInUse indicates that a delete was
// rejected because dependent screenings still reference the row, while
// ErrScheduleConflict signals that a room is already taken at the requested
// date-time.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrInUse is returned when a delete cannot be performed because another
// entity still references the target row (foreign key restrict). Handlers
// should translate this into an HTTP 409 response.
var ErrInUse = errors.New("resource in use")

// ErrScheduleConflict is returned when a screening write would place a
// second active screening into the same room at the same date-time.
// Handlers should translate this into an HTTP 409 response.
var ErrScheduleConflict = errors.New("schedule conflict")

// mysqlRowIsReferenced is ER_ROW_IS_REFERENCED_2: a parent row cannot be
// deleted because a foreign key constraint fails.
const mysqlRowIsReferenced = 1451

// isRowReferencedErr reports whether err is the MySQL foreign-key restrict
// error raised when deleting a row that screenings still point at.
func isRowReferencedErr(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlRowIsReferenced
	}
	return false
}
