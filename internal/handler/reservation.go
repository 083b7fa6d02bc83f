package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"tablebook/internal/model"
	"tablebook/internal/queue"
	"tablebook/internal/repository"
	queue_publisher "tablebook/internal/service"
)

// ReservationHandler owns the reservation lifecycle: admission of new
// reservations, staff listing, status transitions and deletion.  Create
// is the only path allowed to claim tables and it runs entirely inside
// one transaction, so the no-double-booking invariant holds even when
// two guests submit the same table for overlapping windows at once.
type ReservationHandler struct {
	Tables       *repository.TableRepo
	Reservations *repository.ReservationRepo
}

// NewReservationHandler constructs a ReservationHandler.  Both
// repositories must be non-nil.
func NewReservationHandler(tables *repository.TableRepo, reservations *repository.ReservationRepo) *ReservationHandler {
	if tables == nil || reservations == nil {
		panic("nil repository passed to NewReservationHandler")
	}
	return &ReservationHandler{Tables: tables, Reservations: reservations}
}

type createReservationReq struct {
	CustomerName  string   `json:"customer_name"`
	CustomerPhone string   `json:"customer_phone"`
	StartDateTime string   `json:"start_datetime"` // RFC3339
	Guests        uint32   `json:"guests"`
	Notes         string   `json:"notes"`
	TableIDs      []uint64 `json:"table_ids"`
}

type createReservationResp struct {
	*model.Reservation
	// CapacityWarning flags bookings whose selected tables seat fewer
	// people than the party.  It is advice for staff, never a rejection.
	CapacityWarning bool `json:"capacity_warning,omitempty"`
}

// Create handles POST /v1/reservations.  Anyone may book; no account is
// needed.  The request's table selection is re-validated against the
// current reservation set at commit time; the availability the client
// saw when the form was rendered is stale by definition.  On conflict
// the caller gets 409 and must re-query availability.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	var startAt time.Time
	if req.StartDateTime != "" {
		t, err := time.Parse(time.RFC3339, req.StartDateTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_datetime, want RFC3339"})
		}
		startAt = t.UTC()
	}

	in := model.ReservationInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		StartAt:       startAt,
		Guests:        req.Guests,
		Notes:         req.Notes,
		TableIDs:      dedupeIDs(req.TableIDs),
	}
	if err := in.Validate(); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Reason, "field": ve.Field})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	tx, err := h.Tables.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the requested table rows; concurrent admissions for any of
	// them queue up behind this transaction.
	tables, err := h.Tables.LockTablesTx(ctx, tx, in.TableIDs)
	if err != nil {
		if errors.Is(err, repository.ErrTableInactive) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_ids must reference active tables"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	// Availability re-check under the lock.
	occupied, err := h.Reservations.OverlappingTableIDsTx(ctx, tx, in.StartAt, in.TableIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if len(occupied) > 0 {
		conflicting := make([]uint64, 0, len(occupied))
		for id := range occupied {
			conflicting = append(conflicting, id)
		}
		return c.JSON(http.StatusConflict, echo.Map{
			"error":       "some tables are no longer available for this time window",
			"conflicting": conflicting,
		})
	}

	res := &model.Reservation{
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		StartAt:       in.StartAt,
		Guests:        in.Guests,
		Notes:         in.Notes,
		Status:        model.StatusPending,
		Tables:        tables,
	}
	if err := h.Reservations.CreateTx(ctx, tx, res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
	}
	if err := h.Reservations.LinkTablesTx(ctx, tx, res.ID, in.TableIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to link tables"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	h.publish(queue.EventCreated, res)

	return c.JSON(http.StatusCreated, createReservationResp{
		Reservation:     res,
		CapacityWarning: model.SeatTotal(res.Tables) < res.Guests,
	})
}

// List handles GET /v1/reservations (staff only) with an optional
// ?status= filter.
func (h *ReservationHandler) List(c echo.Context) error {
	status := c.QueryParam("status")
	if status != "" && !model.ValidStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
	}
	list, err := h.Reservations.List(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, list)
}

// Get handles GET /v1/reservations/:id (staff only).
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Reservations.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, res)
}

type statusReq struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /v1/reservations/:id (staff only).  Any
// transition among the three states is allowed; a self-transition is a
// no-op.  Moving a reservation out of CANCELLED does not re-check that
// its tables are still free: staff rely on this to undo mistaken
// cancellations, accepting that it can reintroduce a double booking.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if !model.ValidStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status value"})
	}
	res, err := h.Reservations.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	h.publish(queue.EventStatusChanged, res)

	return c.JSON(http.StatusOK, res)
}

// Delete handles DELETE /v1/reservations/:id (staff only).  The record
// and its table links are removed permanently.
func (h *ReservationHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	res, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Reservations.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	h.publish(queue.EventDeleted, res)

	return c.NoContent(http.StatusNoContent)
}

// publish sends a lifecycle event to the broker, best effort.  A broker
// outage never fails the request.
func (h *ReservationHandler) publish(kind string, res *model.Reservation) {
	numbers := make([]uint32, len(res.Tables))
	for i, t := range res.Tables {
		numbers[i] = t.Number
	}
	ev := queue.ReservationEvent{
		Kind:          kind,
		ReservationID: res.ID,
		CustomerName:  res.CustomerName,
		StartsAt:      res.StartAt.UTC().Format(time.RFC3339),
		Guests:        res.Guests,
		Status:        res.Status,
		TableNumbers:  numbers,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishReservationEvent(ctx, ev)
	}()
}

// dedupeIDs drops zero and duplicate ids while preserving order.
func dedupeIDs(ids []uint64) []uint64 {
	unique := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
