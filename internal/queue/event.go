// Package queue defines message payloads exchanged over the message broker.
package queue

// Event kinds published on the reservation.events queue.
const (
	EventCreated       = "created"
	EventStatusChanged = "status_changed"
	EventDeleted       = "deleted"
)

// ReservationEvent is published on every reservation lifecycle change.
// It carries enough information for downstream consumers to write audit
// lines or drive dashboards without querying the primary database.
type ReservationEvent struct {
	Kind          string   `json:"kind"` // created | status_changed | deleted
	ReservationID uint64   `json:"reservation_id"`
	CustomerName  string   `json:"customer_name"`
	StartsAt      string   `json:"starts_at"` // RFC3339, UTC
	Guests        uint32   `json:"guests"`
	Status        string   `json:"status"`
	TableNumbers  []uint32 `json:"tables"`
	OccurredAt    string   `json:"occurred_at"` // RFC3339, UTC
}
