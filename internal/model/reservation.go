package model

import (
	"fmt"
	"strings"
	"time"
)

// Reservation statuses.  A reservation starts out PENDING and is moved
// between the three states by staff.  CANCELLED reservations are kept
// for history but release their tables immediately.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

// ReservationDuration is the fixed occupancy window of every reservation.
// There is no stored end time; the window is always derived as
// [StartAt, StartAt+ReservationDuration).
const ReservationDuration = 2 * time.Hour

// Reservation records a booking of one or more tables for a guest party.
//
// Fields:
//  ID            – primary key identifier.
//  CustomerName  – name the booking was made under.
//  CustomerPhone – contact phone number.
//  StartAt       – start of the occupancy window, stored in UTC.
//  Guests        – party size (always positive).
//  Notes         – free-form staff notes, may be empty.
//  Status        – one of PENDING, CONFIRMED, CANCELLED.
//  Tables        – the tables held for the window (non-empty on create).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Reservation struct {
	ID            uint64    `json:"id"`             // reservations.id
	CustomerName  string    `json:"customer_name"`  // reservations.customer_name
	CustomerPhone string    `json:"customer_phone"` // reservations.customer_phone
	StartAt       time.Time `json:"start_datetime"` // reservations.start_at
	Guests        uint32    `json:"guests"`         // reservations.guests
	Notes         string    `json:"notes"`          // reservations.notes
	Status        string    `json:"status"`         // reservations.status
	Tables        []Table   `json:"tables"`         // via reservation_tables
	CreatedAt     time.Time `json:"created_at"`     // reservations.created_at
	UpdatedAt     time.Time `json:"updated_at"`     // reservations.updated_at
}

// Window returns the half-open occupancy interval of the reservation.
func (r *Reservation) Window() (start, end time.Time) {
	return r.StartAt, r.StartAt.Add(ReservationDuration)
}

// Holding reports whether the reservation currently occupies its tables.
// Only CANCELLED reservations release their tables.
func (r *Reservation) Holding() bool { return r.Status != StatusCancelled }

// ValidStatus reports whether s is one of the three reservation states.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Overlaps reports whether two reservation windows starting at a and b
// intersect.  Both windows span ReservationDuration.  The comparison is
// half-open: a reservation ending at 21:00 does not collide with one
// starting at 21:00.
func Overlaps(a, b time.Time) bool {
	return a.Before(b.Add(ReservationDuration)) && b.Before(a.Add(ReservationDuration))
}

// ValidationError describes a rejected input field.  It is returned by
// ReservationInput.Validate and reported to the caller verbatim; the
// engine never retries a validation failure.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ReservationInput carries the fields required to admit a new
// reservation.  TableIDs must reference active tables; availability is
// re-checked at commit time, not here.
type ReservationInput struct {
	CustomerName  string
	CustomerPhone string
	StartAt       time.Time
	Guests        uint32
	Notes         string
	TableIDs      []uint64
}

// Validate checks the static requirements on the input and returns a
// *ValidationError naming the first offending field.
func (in *ReservationInput) Validate() error {
	if strings.TrimSpace(in.CustomerName) == "" {
		return &ValidationError{Field: "customer_name", Reason: "is required"}
	}
	if strings.TrimSpace(in.CustomerPhone) == "" {
		return &ValidationError{Field: "customer_phone", Reason: "is required"}
	}
	if in.StartAt.IsZero() {
		return &ValidationError{Field: "start_datetime", Reason: "is required"}
	}
	if in.Guests < 1 {
		return &ValidationError{Field: "guests", Reason: "must be at least 1"}
	}
	if len(in.TableIDs) == 0 {
		return &ValidationError{Field: "table_ids", Reason: "at least one table must be selected"}
	}
	for _, id := range in.TableIDs {
		if id == 0 {
			return &ValidationError{Field: "table_ids", Reason: "contains an invalid table id"}
		}
	}
	return nil
}
