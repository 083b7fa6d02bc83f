package model

import (
	"sort"
	"time"
)

// Table describes a physical table on the restaurant floor.  Tables are
// identified to guests by their number, which must be unique among the
// currently active tables.  Deactivated tables stay in the database so
// that historical reservations keep their references, but they never
// appear in availability results.
//
// Fields:
//  ID        – primary key identifier.
//  Number    – guest-facing table number.
//  Seats     – seating capacity (always positive).
//  IsActive  – whether the table can receive new reservations.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Table struct {
	ID        uint64    `json:"id"`         // restaurant_tables.id
	Number    uint32    `json:"number"`     // restaurant_tables.number
	Seats     uint32    `json:"seats"`      // restaurant_tables.seats
	IsActive  bool      `json:"is_active"`  // restaurant_tables.is_active
	CreatedAt time.Time `json:"created_at"` // restaurant_tables.created_at
	UpdatedAt time.Time `json:"updated_at"` // restaurant_tables.updated_at
}

// SeatTotal sums the capacity of the given tables.
func SeatTotal(tables []Table) uint32 {
	var total uint32
	for _, t := range tables {
		total += t.Seats
	}
	return total
}

// FreeTables returns the tables from active that are not present in the
// occupied set, ordered by table number ascending.  The result is never
// nil; an empty slice means every active table is taken for the window.
func FreeTables(active []Table, occupied map[uint64]struct{}) []Table {
	free := make([]Table, 0, len(active))
	for _, t := range active {
		if _, taken := occupied[t.ID]; taken {
			continue
		}
		free = append(free, t)
	}
	sort.Slice(free, func(i, j int) bool { return free[i].Number < free[j].Number })
	return free
}
