package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"tablebook/internal/config"
	"tablebook/internal/middleware"
	"tablebook/internal/repository"
)

// StaffUserHandler lets superusers manage staff accounts.  All routes
// sit behind the superuser middleware; the handler still reads the
// caller identity for the self-delete guard.
type StaffUserHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewStaffUserHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *StaffUserHandler {
	if u == nil || t == nil {
		panic("nil repository passed to NewStaffUserHandler")
	}
	return &StaffUserHandler{Cfg: cfg, Users: u, Tokens: t}
}

// List handles GET /v1/admin/users.
func (h *StaffUserHandler) List(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	results := make([]userPart, 0, len(users))
	for _, u := range users {
		results = append(results, userPart{
			ID: u.ID, Email: u.Email, IsStaff: u.IsStaff, IsSuperuser: u.IsSuperuser, IsActive: u.IsActive,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"results": results})
}

type createUserReq struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	IsStaff     *bool  `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// Create handles POST /v1/admin/users.  New accounts default to staff;
// superuser must be requested explicitly.
func (h *StaffUserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}
	isStaff := true
	if req.IsStaff != nil {
		isStaff = *req.IsStaff
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Users.Create(ctx, req.Email, req.Password, isStaff, req.IsSuperuser, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "email": req.Email})
}

// Delete handles DELETE /v1/admin/users/:id.  Deleting an account also
// revokes its refresh tokens.  Superusers cannot delete themselves.
func (h *StaffUserHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if ident, ok := middleware.CurrentIdentity(c); ok && ident.UserID == id {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot delete your own account"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	_ = h.Tokens.RevokeAllForUser(ctx, id)
	return c.NoContent(http.StatusNoContent)
}
