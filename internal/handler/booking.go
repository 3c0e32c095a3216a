package handler

import (
    "context"
    "errors"
    "net/http"
    "path"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/config"
    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/model"
    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/queue"
    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/repository"
    queue_publisher "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/service"
    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/utils"
)

// BookingHandler finalises seat bookings.  Creation takes a multipart
// form because members upload their UPI payment screenshot with it.  The
// capacity check validates against confirmed booked seats only; a seat
// lock improves the member's odds but is not required to finalise.
type BookingHandler struct {
    Cfg      config.Config
    Events   *repository.EventRepo
    Bookings *repository.BookingRepo
    Locks    *repository.SeatLockRepo
}

func NewBookingHandler(cfg config.Config, events *repository.EventRepo, bookings *repository.BookingRepo, locks *repository.SeatLockRepo) *BookingHandler {
    if events == nil || bookings == nil || locks == nil {
        panic("nil repository passed to NewBookingHandler")
    }
    return &BookingHandler{Cfg: cfg, Events: events, Bookings: bookings, Locks: locks}
}

func (h *BookingHandler) screenshotDir() string {
    return path.Join(h.Cfg.UploadDir, "payment-screenshots")
}

// Create handles POST /api/bookings (multipart/form-data).  Fields:
// event_id, name, email, phone, number_of_people, notes, session_id and
// the payment_screenshot file.  The payment amount is computed server
// side from the event price.
func (h *BookingHandler) Create(c echo.Context) error {
    eventID, err := strconv.ParseUint(c.FormValue("event_id"), 10, 64)
    if err != nil || eventID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event_id"})
    }
    people, err := strconv.Atoi(c.FormValue("number_of_people"))
    if err != nil || people < 1 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "number_of_people must be at least 1"})
    }
    name := strings.TrimSpace(c.FormValue("name"))
    email := strings.TrimSpace(c.FormValue("email"))
    phone := strings.TrimSpace(c.FormValue("phone"))
    if name == "" || email == "" || phone == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and phone are required"})
    }
    var notes *string
    if v := strings.TrimSpace(c.FormValue("notes")); v != "" {
        notes = &v
    }
    sessionID := c.FormValue("session_id")

    fh, err := c.FormFile("payment_screenshot")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_screenshot is required"})
    }
    stored, err := utils.SaveUpload(fh, h.screenshotDir())
    if err != nil {
        if errors.Is(err, utils.ErrUploadTooLarge) || errors.Is(err, utils.ErrUploadType) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store screenshot"})
    }
    // The stored file is only kept if the transaction commits.
    keepFile := false
    defer func() {
        if !keepFile {
            utils.RemoveUpload(h.screenshotDir(), stored)
        }
    }()

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

    row, err := h.Events.GetSeatRowForUpdateTx(ctx, tx, eventID)
    if err != nil {
        if errors.Is(err, repository.ErrEventNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if row.Status != model.EventUpcoming {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "event is not open for booking"})
    }
    if err := repository.CheckCapacity(people, row.TotalCapacity, row.BookedSeats, 0); err != nil {
        if ce, ok := repository.AsCapacityError(err); ok {
            return c.JSON(http.StatusBadRequest, echo.Map{
                "error":          "not enough seats available",
                "availableSeats": ce.Available,
            })
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check availability"})
    }

    var userID *uint64
    if id, errU := getUserID(c); errU == nil {
        userID = &id
    }
    b := model.Booking{
        EventID:           eventID,
        UserID:            userID,
        Name:              name,
        Email:             email,
        Phone:             phone,
        NumberOfPeople:    people,
        PaymentScreenshot: stored,
        PaymentAmount:     row.Price * float64(people),
        Notes:             notes,
    }
    if err := h.Bookings.CreateTx(ctx, tx, &b); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
    }
    if err := h.Events.AddBookedSeatsTx(ctx, tx, eventID, people); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update seat count"})
    }
    // The session's hold has served its purpose.
    if sessionID != "" {
        if err := h.Locks.ReleaseTx(ctx, tx, eventID, sessionID); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release lock"})
        }
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true
    keepFile = true

    h.publishCreated(b)

    return c.JSON(http.StatusCreated, echo.Map{
        "message": "booking received, pending payment verification",
        "booking": echo.Map{
            "id":             b.ID,
            "event_id":       b.EventID,
            "seats":          b.NumberOfPeople,
            "payment_amount": b.PaymentAmount,
            "status":         b.Status,
        },
    })
}

// publishCreated emits the booking.created event after commit.  Failures
// only cost the audit log line, never the booking.
func (h *BookingHandler) publishCreated(b model.Booking) {
    title := ""
    if ev, err := h.Events.GetByID(context.Background(), b.EventID); err == nil {
        title = ev.Title
    }
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        _ = queue_publisher.PublishBookingCreated(ctx, queue.BookingCreatedEvent{
            BookingID:     b.ID,
            EventID:       b.EventID,
            EventTitle:    title,
            UserID:        b.UserID,
            Name:          b.Name,
            Email:         b.Email,
            Seats:         b.NumberOfPeople,
            PaymentAmount: b.PaymentAmount,
            CreatedAt:     time.Now().UTC().Format(time.RFC3339),
        })
    }()
}

// MyBookings handles GET /api/bookings/my-bookings.  Requires authentication.
func (h *BookingHandler) MyBookings(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Bookings.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
    }
    out := make([]echo.Map, 0, len(items))
    for _, b := range items {
        out = append(out, echo.Map{
            "id":             b.ID,
            "event_id":       b.EventID,
            "event_title":    b.EventTitle,
            "event_date":     b.EventDate,
            "venue_name":     b.VenueName,
            "seats":          b.NumberOfPeople,
            "payment_amount": b.PaymentAmount,
            "status":         b.Status,
            "created_at":     b.CreatedAt,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Cancel handles PUT /api/bookings/:id/cancel.  Only the booking's owner
// may cancel, and only from pending or confirmed.  Cancelling returns the
// booking's seats to the event.
func (h *BookingHandler) Cancel(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
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

    b, err := h.Bookings.GetOwnedForUpdateTx(ctx, tx, id, userID)
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if err := h.Bookings.TransitionTx(ctx, tx, b, model.BookingCancelled); err != nil {
        if errors.Is(err, repository.ErrAlreadyCancelled) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking is already cancelled"})
        }
        if errors.Is(err, repository.ErrInvalidTransition) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking cannot be cancelled"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
    }
    if err := h.Events.AddBookedSeatsTx(ctx, tx, b.EventID, -b.NumberOfPeople); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to restore seats"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true
    return c.JSON(http.StatusOK, echo.Map{"message": "booking cancelled"})
}
