package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"tablebook/internal/middleware"
	"tablebook/internal/model"
	"tablebook/internal/repository"
)

// TableHandler serves the table registry and the availability resolver.
// Availability is a pure read: active tables minus the tables held by a
// non-cancelled reservation whose fixed 2-hour window overlaps the
// requested one.  An empty result is a normal answer, not an error.
type TableHandler struct {
	Tables       *repository.TableRepo
	Reservations *repository.ReservationRepo
}

// NewTableHandler constructs a TableHandler.  Both repositories must be
// non-nil.
func NewTableHandler(tables *repository.TableRepo, reservations *repository.ReservationRepo) *TableHandler {
	if tables == nil || reservations == nil {
		panic("nil repository passed to NewTableHandler")
	}
	return &TableHandler{Tables: tables, Reservations: reservations}
}

type tableReq struct {
	Number   uint32 `json:"number"`
	Seats    uint32 `json:"seats"`
	IsActive *bool  `json:"is_active"`
}

// List handles GET /v1/tables.  With a ?datetime=RFC3339 query it
// answers the availability question for the 2-hour window starting
// there, ordered by table number.  Without it, anonymous callers get
// the active tables and staff get the whole registry.  The route is
// wrapped in the response cache middleware since the booking form
// re-queries on every date change.
func (h *TableHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	if raw := c.QueryParam("datetime"); raw != "" {
		startAt, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid datetime format, want RFC3339"})
		}
		active, err := h.Tables.List(ctx, true)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		occupied, err := h.Reservations.OverlappingTableIDs(ctx, startAt)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		return c.JSON(http.StatusOK, model.FreeTables(active, occupied))
	}

	ident, _ := middleware.CurrentIdentity(c)
	tables, err := h.Tables.List(ctx, !ident.CanManage())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, tables)
}

// Create handles POST /v1/tables (staff only).
func (h *TableHandler) Create(c echo.Context) error {
	var req tableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Number == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number must be positive"})
	}
	if req.Seats == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats must be positive"})
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	t, err := h.Tables.Create(c.Request().Context(), req.Number, req.Seats, isActive)
	if err != nil {
		if errors.Is(err, repository.ErrNumberTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "table number already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, t)
}

// Get handles GET /v1/tables/:id (staff only).
func (h *TableHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	t, err := h.Tables.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, t)
}

// Update handles PUT /v1/tables/:id (staff only).  Deactivating a table
// never touches existing reservations; it only removes the table from
// future availability answers.
func (h *TableHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	var req tableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Number == 0 || req.Seats == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number and seats must be positive"})
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	t, err := h.Tables.Update(c.Request().Context(), id, req.Number, req.Seats, isActive)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		case errors.Is(err, repository.ErrNumberTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "table number already in use"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	return c.JSON(http.StatusOK, t)
}

// Delete handles DELETE /v1/tables/:id (staff only).  Tables referenced
// by reservations are protected and the delete is rejected, so history
// never loses its table set.
func (h *TableHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	if err := h.Tables.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		case errors.Is(err, repository.ErrTableInUse):
			return c.JSON(http.StatusConflict, echo.Map{"error": "table is referenced by reservations"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// parseID extracts the :id path parameter as uint64.
func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
