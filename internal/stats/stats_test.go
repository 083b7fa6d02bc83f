package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablebook/internal/model"
)

var day = time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC)

func res(hour int, guests uint32, status string) model.Reservation {
	return model.Reservation{
		StartAt: day.Add(time.Duration(hour) * time.Hour),
		Guests:  guests,
		Status:  status,
	}
}

func TestComputeDailyEmpty(t *testing.T) {
	out := ComputeDaily(day, nil)
	assert.Equal(t, "2024-03-08", out.Date)
	assert.Equal(t, 0, out.TotalReservations)
	assert.Equal(t, 0, out.TotalGuests)
	assert.Equal(t, 0, out.PendingReservations)
	assert.Equal(t, 0, out.ConfirmedReservations)
	require.NotNil(t, out.HourlyData)
	assert.Empty(t, out.HourlyData)
}

func TestComputeDailyStatusBuckets(t *testing.T) {
	out := ComputeDaily(day, []model.Reservation{
		res(12, 2, model.StatusPending),
		res(13, 4, model.StatusConfirmed),
		res(14, 3, model.StatusCancelled),
	})
	// Totals count every status; the buckets are exclusive, so the
	// cancelled reservation appears in the total but in neither bucket.
	assert.Equal(t, 3, out.TotalReservations)
	assert.Equal(t, 9, out.TotalGuests)
	assert.Equal(t, 1, out.PendingReservations)
	assert.Equal(t, 1, out.ConfirmedReservations)

	// The chart only shows hours with a pending or confirmed
	// reservation; the cancelled 14:00 booking leaves no bar.
	require.Len(t, out.HourlyData, 2)
	assert.Equal(t, "12:00", out.HourlyData[0].Hour)
	assert.Equal(t, "13:00", out.HourlyData[1].Hour)
}

func TestComputeDailyHourlyGrouping(t *testing.T) {
	out := ComputeDaily(day, []model.Reservation{
		res(19, 2, model.StatusPending),
		res(19, 4, model.StatusConfirmed),
		res(21, 6, model.StatusConfirmed),
	})
	require.Len(t, out.HourlyData, 2)
	assert.Equal(t, model.HourlySlot{Hour: "19:00", Reservations: 2, Guests: 6}, out.HourlyData[0])
	assert.Equal(t, model.HourlySlot{Hour: "21:00", Reservations: 1, Guests: 6}, out.HourlyData[1])
}

func TestComputeDailyIgnoresOtherDays(t *testing.T) {
	out := ComputeDaily(day, []model.Reservation{
		res(-1, 2, model.StatusPending), // 23:00 the day before
		res(24, 4, model.StatusPending), // 00:00 the day after
		res(0, 5, model.StatusPending),  // midnight, inside the day
	})
	assert.Equal(t, 1, out.TotalReservations)
	assert.Equal(t, 5, out.TotalGuests)
	require.Len(t, out.HourlyData, 1)
	assert.Equal(t, "0:00", out.HourlyData[0].Hour)
}

func TestComputeDailyNormalisesDayArgument(t *testing.T) {
	// Passing any instant within the day aggregates the whole day.
	noon := day.Add(12 * time.Hour)
	out := ComputeDaily(noon, []model.Reservation{res(8, 2, model.StatusConfirmed)})
	assert.Equal(t, "2024-03-08", out.Date)
	assert.Equal(t, 1, out.TotalReservations)
}
