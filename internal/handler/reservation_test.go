package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablebook/internal/repository"
)

const createReservationBody = `{"customer_name":"Ada","customer_phone":"+3561234567","start_datetime":"2024-01-01T19:00:00Z","guests":2,"table_ids":[1]}`

func newMockedReservationHandler(t *testing.T) (*ReservationHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewReservationHandler(repository.NewTableRepo(db), repository.NewReservationRepo(db)), mock
}

func postReservation(body string) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/reservations", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func lockedTableRows(active bool) *sqlmock.Rows {
	now := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{"id", "number", "seats", "is_active", "created_at", "updated_at"}).
		AddRow(1, 5, 4, active, now, now)
}

// Admission control must reject the second booking of a table whose
// 2-hour window overlaps an existing non-cancelled reservation: the
// overlap re-check runs under the row lock, so of two competing creates
// exactly one commits and the other sees the conflict.
func TestCreateReservationConflict(t *testing.T) {
	h, mock := newMockedReservationHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM restaurant_tables").WillReturnRows(lockedTableRows(true))
	mock.ExpectQuery("SELECT DISTINCT rt.table_id").
		WillReturnRows(sqlmock.NewRows([]string{"table_id"}).AddRow(1))
	mock.ExpectRollback()

	rec, c := postReservation(createReservationBody)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "conflicting")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationSuccess(t *testing.T) {
	h, mock := newMockedReservationHandler(t)

	start := time.Date(2024, time.January, 1, 19, 0, 0, 0, time.UTC)
	now := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM restaurant_tables").WillReturnRows(lockedTableRows(true))
	mock.ExpectQuery("SELECT DISTINCT rt.table_id").
		WillReturnRows(sqlmock.NewRows([]string{"table_id"}))
	mock.ExpectExec("INSERT INTO reservations").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectQuery("FROM reservations WHERE id").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "customer_name", "customer_phone", "start_at", "guests", "notes", "status", "created_at", "updated_at",
		}).AddRow(12, "Ada", "+3561234567", start, 2, "", "PENDING", now, now))
	mock.ExpectExec("INSERT INTO reservation_tables").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	rec, c := postReservation(createReservationBody)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":12`)
	assert.Contains(t, rec.Body.String(), `"status":"PENDING"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationInactiveTable(t *testing.T) {
	h, mock := newMockedReservationHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM restaurant_tables").WillReturnRows(lockedTableRows(false))
	mock.ExpectRollback()

	rec, c := postReservation(createReservationBody)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReservationValidation(t *testing.T) {
	h, _ := newMockedReservationHandler(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{
			name:  "zero guests",
			body:  `{"customer_name":"Ada","customer_phone":"+3561234567","start_datetime":"2024-01-01T19:00:00Z","guests":0,"table_ids":[1]}`,
			field: "guests",
		},
		{
			name:  "no tables",
			body:  `{"customer_name":"Ada","customer_phone":"+3561234567","start_datetime":"2024-01-01T19:00:00Z","guests":2,"table_ids":[]}`,
			field: "table_ids",
		},
		{
			name:  "bad datetime",
			body:  `{"customer_name":"Ada","customer_phone":"+3561234567","start_datetime":"tonight","guests":2,"table_ids":[1]}`,
			field: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, c := postReservation(tt.body)
			require.NoError(t, h.Create(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			if tt.field != "" {
				assert.Contains(t, rec.Body.String(), tt.field)
			}
		})
	}
}
