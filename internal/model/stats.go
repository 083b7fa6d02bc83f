package model

// DailyStats summarises one calendar day of reservations for the staff
// dashboard.  It is derived on demand and never persisted.  Totals count
// every reservation of the day regardless of status; the pending and
// confirmed buckets are exclusive, so cancelled reservations appear in
// the total but in neither bucket.
type DailyStats struct {
	Date                  string       `json:"date"` // YYYY-MM-DD, UTC
	TotalReservations     int          `json:"total_reservations"`
	TotalGuests           int          `json:"total_guests"`
	PendingReservations   int          `json:"pending_reservations"`
	ConfirmedReservations int          `json:"confirmed_reservations"`
	HourlyData            []HourlySlot `json:"hourly_data"`
}

// HourlySlot is one bar of the dashboard chart: the reservations whose
// window starts within a single hour of the day.  Only hours that have
// at least one reservation are emitted.
type HourlySlot struct {
	Hour         string `json:"hour"` // "19:00"
	Reservations int    `json:"reservations"`
	Guests       int    `json:"guests"`
}
