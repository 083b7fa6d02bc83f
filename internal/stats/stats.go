// Package stats derives the daily dashboard numbers from a snapshot of
// the reservation store.  The computation is a pure function of its
// inputs; the caller is responsible for loading the day's reservations
// with a read-consistent query.
package stats

import (
	"fmt"
	"sort"
	"time"

	"tablebook/internal/model"
)

// ComputeDaily aggregates the reservations whose window starts on the
// given UTC calendar day.  Reservations outside [day 00:00, day 24:00)
// are ignored, so callers may pass a wider slice than the day itself.
//
// Counting rules: every status contributes to TotalReservations and
// TotalGuests, PENDING and CONFIRMED are tabulated separately, and
// CANCELLED lands in neither bucket.  HourlyData holds one entry per
// hour with at least one PENDING or CONFIRMED reservation, ordered by
// hour; cancelled reservations never reach the chart.  An empty day
// yields zero counts and an empty (non-nil) HourlyData.
func ComputeDaily(day time.Time, reservations []model.Reservation) model.DailyStats {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	out := model.DailyStats{
		Date:       dayStart.Format("2006-01-02"),
		HourlyData: []model.HourlySlot{},
	}

	type bucket struct {
		reservations int
		guests       int
	}
	hours := make(map[int]bucket)

	for _, r := range reservations {
		start := r.StartAt.UTC()
		if start.Before(dayStart) || !start.Before(dayEnd) {
			continue
		}
		out.TotalReservations++
		out.TotalGuests += int(r.Guests)
		switch r.Status {
		case model.StatusPending:
			out.PendingReservations++
		case model.StatusConfirmed:
			out.ConfirmedReservations++
		}
		if r.Status == model.StatusCancelled {
			continue
		}
		b := hours[start.Hour()]
		b.reservations++
		b.guests += int(r.Guests)
		hours[start.Hour()] = b
	}

	keys := make([]int, 0, len(hours))
	for h := range hours {
		keys = append(keys, h)
	}
	sort.Ints(keys)
	for _, h := range keys {
		out.HourlyData = append(out.HourlyData, model.HourlySlot{
			Hour:         fmt.Sprintf("%d:00", h),
			Reservations: hours[h].reservations,
			Guests:       hours[h].guests,
		})
	}
	return out
}
