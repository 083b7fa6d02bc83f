package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Helper to build a UTC timestamp on 2024-01-01.
func at(hour, min int) time.Time {
	return time.Date(2024, time.January, 1, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     time.Time
		expected bool
	}{
		{
			name:     "same start overlaps",
			a:        at(19, 0),
			b:        at(19, 0),
			expected: true,
		},
		{
			name:     "one hour apart overlaps",
			a:        at(19, 0),
			b:        at(20, 0),
			expected: true,
		},
		{
			name:     "back to back does not overlap",
			a:        at(19, 0),
			b:        at(21, 0),
			expected: false,
		},
		{
			name:     "back to back reversed does not overlap",
			a:        at(21, 0),
			b:        at(19, 0),
			expected: false,
		},
		{
			name:     "one minute short of the boundary overlaps",
			a:        at(19, 0),
			b:        at(20, 59),
			expected: true,
		},
		{
			name:     "far apart does not overlap",
			a:        at(12, 0),
			b:        at(19, 0),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Overlaps(tt.a, tt.b))
			// Overlap is symmetric by definition.
			assert.Equal(t, tt.expected, Overlaps(tt.b, tt.a))
		})
	}
}

func TestReservationWindow(t *testing.T) {
	r := Reservation{StartAt: at(19, 0)}
	start, end := r.Window()
	assert.Equal(t, at(19, 0), start)
	assert.Equal(t, at(21, 0), end)
}

func TestReservationHolding(t *testing.T) {
	assert.True(t, (&Reservation{Status: StatusPending}).Holding())
	assert.True(t, (&Reservation{Status: StatusConfirmed}).Holding())
	assert.False(t, (&Reservation{Status: StatusCancelled}).Holding())
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPending))
	assert.True(t, ValidStatus(StatusConfirmed))
	assert.True(t, ValidStatus(StatusCancelled))
	assert.False(t, ValidStatus("pending"))
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("DELETED"))
}

func TestReservationInputValidate(t *testing.T) {
	valid := ReservationInput{
		CustomerName:  "Ada",
		CustomerPhone: "+3561234567",
		StartAt:       at(19, 0),
		Guests:        2,
		TableIDs:      []uint64{1},
	}

	tests := []struct {
		name   string
		mutate func(in *ReservationInput)
		field  string
	}{
		{name: "valid input", mutate: func(in *ReservationInput) {}, field: ""},
		{name: "missing name", mutate: func(in *ReservationInput) { in.CustomerName = "  " }, field: "customer_name"},
		{name: "missing phone", mutate: func(in *ReservationInput) { in.CustomerPhone = "" }, field: "customer_phone"},
		{name: "zero time", mutate: func(in *ReservationInput) { in.StartAt = time.Time{} }, field: "start_datetime"},
		{name: "zero guests", mutate: func(in *ReservationInput) { in.Guests = 0 }, field: "guests"},
		{name: "no tables", mutate: func(in *ReservationInput) { in.TableIDs = nil }, field: "table_ids"},
		{name: "zero table id", mutate: func(in *ReservationInput) { in.TableIDs = []uint64{1, 0} }, field: "table_ids"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			in.TableIDs = append([]uint64(nil), valid.TableIDs...)
			tt.mutate(&in)
			err := in.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}
