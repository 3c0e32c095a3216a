package handler

import (
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/model"
    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/repository"
)

// SeatLockHandler implements the temporary seat hold flow members go
// through while filling in the booking form.  Sessions are identified by
// a client-generated id, so guests and members share the same endpoints.
// Acquisition runs inside a transaction holding the event row lock, which
// serializes competing sessions per event.
type SeatLockHandler struct {
    Events  *repository.EventRepo
    Locks   *repository.SeatLockRepo
    LockTTL time.Duration
}

func NewSeatLockHandler(events *repository.EventRepo, locks *repository.SeatLockRepo, ttl time.Duration) *SeatLockHandler {
    if events == nil || locks == nil {
        panic("nil repository passed to NewSeatLockHandler")
    }
    return &SeatLockHandler{Events: events, Locks: locks, LockTTL: ttl}
}

type lockReq struct {
    EventID   uint64 `json:"event_id"`
    SessionID string `json:"session_id"`
    Seats     int    `json:"seats_count"`
}

type unlockReq struct {
    EventID   uint64 `json:"event_id"`
    SessionID string `json:"session_id"`
}

// Lock handles POST /api/seat-locks/lock.  It acquires or renews the
// session's hold on an event.  A renewal replaces the previous seat count
// rather than stacking on top of it, so polling clients can re-lock the
// same seats every few minutes without eating capacity.
func (h *SeatLockHandler) Lock(c echo.Context) error {
    var body lockReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if body.EventID == 0 || body.SessionID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id and session_id are required"})
    }
    if body.Seats < 1 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats_count must be at least 1"})
    }

    ctx := c.Request().Context()
    tx, err := h.Events.DB.BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    // The FOR UPDATE read serializes every concurrent acquisition on this
    // event until commit.
    row, err := h.Events.GetSeatRowForUpdateTx(ctx, tx, body.EventID)
    if err != nil {
        if errors.Is(err, repository.ErrEventNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if row.Status != model.EventUpcoming {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "event is not open for booking"})
    }
    if _, err := h.Locks.ExpireForEventTx(ctx, tx, body.EventID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cleanup expired locks"})
    }
    lockedByOthers, err := h.Locks.SumOtherSessionsTx(ctx, tx, body.EventID, body.SessionID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check availability"})
    }
    if err := repository.CheckCapacity(body.Seats, row.TotalCapacity, row.BookedSeats, lockedByOthers); err != nil {
        if ce, ok := repository.AsCapacityError(err); ok {
            return c.JSON(http.StatusBadRequest, echo.Map{
                "error":          "not enough seats available",
                "availableSeats": ce.Available,
            })
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check availability"})
    }
    expiresAt := time.Now().UTC().Add(h.LockTTL)
    if err := h.Locks.UpsertTx(ctx, tx, body.EventID, body.SessionID, body.Seats, expiresAt); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to lock seats"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true
    return c.JSON(http.StatusOK, echo.Map{
        "success":     true,
        "lockedSeats": body.Seats,
        "expiresAt":   expiresAt.Format(time.RFC3339),
    })
}

// Unlock handles POST /api/seat-locks/unlock.  Releasing is idempotent:
// beacons sent on tab close may fire after the lock already expired.
func (h *SeatLockHandler) Unlock(c echo.Context) error {
    var body unlockReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if body.EventID == 0 || body.SessionID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id and session_id are required"})
    }
    if err := h.Locks.Release(c.Request().Context(), body.EventID, body.SessionID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release lock"})
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Extend handles POST /api/seat-locks/extend.  It pushes the expiry of an
// active hold out by a full TTL so a member still filling the form keeps
// their seats.
func (h *SeatLockHandler) Extend(c echo.Context) error {
    var body unlockReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if body.EventID == 0 || body.SessionID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id and session_id are required"})
    }
    expiresAt := time.Now().UTC().Add(h.LockTTL)
    err := h.Locks.Extend(c.Request().Context(), body.EventID, body.SessionID, expiresAt)
    if err != nil {
        if errors.Is(err, repository.ErrLockNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "no active lock found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to extend lock"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "success":   true,
        "expiresAt": expiresAt.Format(time.RFC3339),
    })
}

// Available serves both GET /api/seat-locks/:id/available and
// GET /api/events/:id/availability.  The optional session_id query
// parameter lets the caller see their own hold reported separately from
// everyone else's.
func (h *SeatLockHandler) Available(c echo.Context) error {
    eventID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    sessionID := c.QueryParam("session_id")
    a, err := h.Locks.GetAvailability(c.Request().Context(), eventID, sessionID)
    if err != nil {
        if errors.Is(err, repository.ErrEventNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, a)
}
