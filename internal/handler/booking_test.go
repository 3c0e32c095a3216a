package handler

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/config"
    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/model"
    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/repository"
)

func newBookingHandlerWithMock(t *testing.T) (*BookingHandler, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { _ = db.Close() })
    h := NewBookingHandler(config.Config{},
        repository.NewEventRepo(db),
        repository.NewBookingRepo(db),
        repository.NewSeatLockRepo(db))
    return h, mock
}

// cancelRequest drives PUT /api/bookings/:id/cancel as an authenticated
// member, the way the JWT middleware would set the request up.
func cancelRequest(t *testing.T, h *BookingHandler, bookingID string, userID uint64) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodPut, "/api/bookings/"+bookingID+"/cancel", nil)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetPath("/api/bookings/:id/cancel")
    c.SetParamNames("id")
    c.SetParamValues(bookingID)
    c.Set("user_id", userID)
    c.Set("role", "user")
    require.NoError(t, h.Cancel(c))
    return rec
}

func bookingRow(status string) *sqlmock.Rows {
    now := time.Now().UTC()
    return sqlmock.NewRows([]string{
        "id", "event_id", "user_id", "name", "email", "phone", "number_of_people",
        "payment_screenshot", "payment_amount", "booking_status", "notes",
        "created_at", "updated_at",
    }).AddRow(7, 3, 42, "Leo Andres", "leo@example.com", "9876543210", 2,
        "payment-screenshots/x.png", 500.0, status, nil, now, now)
}

const ownedBookingQuery = `(?s)SELECT .+ FROM bookings WHERE id = \? AND user_id = \? FOR UPDATE`

func TestCancelRestoresSeats(t *testing.T) {
    h, mock := newBookingHandlerWithMock(t)
    mock.ExpectBegin()
    mock.ExpectQuery(ownedBookingQuery).
        WithArgs(7, 42).
        WillReturnRows(bookingRow(model.BookingConfirmed))
    mock.ExpectExec(`UPDATE bookings SET booking_status = \?`).
        WithArgs(model.BookingCancelled, 7).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(`UPDATE events SET booked_seats = booked_seats \+ \?`).
        WithArgs(-2, 3).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    rec := cancelRequest(t, h, "7", 42)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelAlreadyCancelledBooking(t *testing.T) {
    h, mock := newBookingHandlerWithMock(t)
    mock.ExpectBegin()
    mock.ExpectQuery(ownedBookingQuery).
        WithArgs(7, 42).
        WillReturnRows(bookingRow(model.BookingCancelled))
    mock.ExpectRollback()

    rec := cancelRequest(t, h, "7", 42)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Contains(t, rec.Body.String(), "already cancelled")
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelRejectedBooking(t *testing.T) {
    h, mock := newBookingHandlerWithMock(t)
    mock.ExpectBegin()
    mock.ExpectQuery(ownedBookingQuery).
        WithArgs(7, 42).
        WillReturnRows(bookingRow(model.BookingRejected))
    mock.ExpectRollback()

    rec := cancelRequest(t, h, "7", 42)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    assert.Contains(t, rec.Body.String(), "cannot be cancelled")
    assert.NoError(t, mock.ExpectationsWereMet())
}

// Ownership is enforced in SQL; a non-matching user sees no rows at all.
func TestCancelSomeoneElsesBooking(t *testing.T) {
    h, mock := newBookingHandlerWithMock(t)
    mock.ExpectBegin()
    mock.ExpectQuery(ownedBookingQuery).
        WithArgs(7, 99).
        WillReturnRows(sqlmock.NewRows([]string{"id"}))
    mock.ExpectRollback()

    rec := cancelRequest(t, h, "7", 99)
    assert.Equal(t, http.StatusNotFound, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}
