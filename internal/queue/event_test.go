package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAuditLine(t *testing.T) {
	ev := ReservationEvent{
		Kind:          EventCreated,
		ReservationID: 12,
		CustomerName:  "Dana",
		StartsAt:      "2024-03-08T19:00:00Z",
		Guests:        4,
		Status:        "PENDING",
		TableNumbers:  []uint32{3, 7},
		OccurredAt:    "2024-03-08T18:30:00Z",
	}
	got := FormatAuditLine(ev)
	assert.Equal(t,
		"[2024-03-08T18:30:00Z] reservation created | id=12 | customer=\"Dana\" | starts_at=2024-03-08T19:00:00Z | guests=4 | status=PENDING | tables=[3,7]\n",
		got)
}

func TestFormatAuditLineNoTables(t *testing.T) {
	got := FormatAuditLine(ReservationEvent{Kind: EventDeleted, ReservationID: 5})
	assert.Contains(t, got, "tables=[]")
	assert.Contains(t, got, "reservation deleted")
}
