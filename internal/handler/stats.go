package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"tablebook/internal/repository"
	"tablebook/internal/stats"
)

// StatsHandler serves the staff dashboard numbers.  The dashboard polls
// every few minutes, so each request recomputes from a single
// read-consistent query; nothing is cached or persisted between calls.
type StatsHandler struct {
	Reservations *repository.ReservationRepo
}

func NewStatsHandler(reservations *repository.ReservationRepo) *StatsHandler {
	if reservations == nil {
		panic("nil repository passed to NewStatsHandler")
	}
	return &StatsHandler{Reservations: reservations}
}

// Today handles GET /v1/reservations/stats (staff only).  It aggregates
// the current UTC calendar day.  An empty day is a zeroed structure,
// not an error.
func (h *StatsHandler) Today(c echo.Context) error {
	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	reservations, err := h.Reservations.ListBetween(c.Request().Context(), dayStart, dayEnd)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, stats.ComputeDaily(dayStart, reservations))
}
