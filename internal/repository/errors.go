// Package repository implements the data access layer on top of MySQL.
// This file defines sentinel errors shared across repositories so that
// handlers can map failure scenarios to HTTP responses.  Not-found
// conditions are reported as sql.ErrNoRows, matching the underlying
// driver.
package repository

import "errors"

// ErrTableInUse is returned when deleting a table that is still
// referenced by a reservation.  References are never silently detached;
// the delete is rejected with HTTP 409.
var ErrTableInUse = errors.New("table is referenced by reservations")

// ErrNumberTaken is returned when creating or updating a table would
// give two active tables the same number.
var ErrNumberTaken = errors.New("table number already in use")

// ErrTableInactive is returned when a reservation names a table that is
// unknown or deactivated.
var ErrTableInactive = errors.New("table is inactive or does not exist")
