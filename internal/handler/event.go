package handler

import (
    "errors"
    "net/http"
    "path"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/config"
    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/model"
    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/repository"
    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/utils"
)

// EventHandler serves the public event listings plus the admin CRUD and
// booking moderation endpoints.
type EventHandler struct {
    Cfg      config.Config
    Events   *repository.EventRepo
    Bookings *repository.BookingRepo
}

func NewEventHandler(cfg config.Config, events *repository.EventRepo, bookings *repository.BookingRepo) *EventHandler {
    if events == nil || bookings == nil {
        panic("nil repository passed to NewEventHandler")
    }
    return &EventHandler{Cfg: cfg, Events: events, Bookings: bookings}
}

func (h *EventHandler) coverDir() string {
    return path.Join(h.Cfg.UploadDir, "event-covers")
}

// eventResp is the public JSON shape of an event.
type eventResp struct {
    ID             uint64    `json:"id"`
    Title          string    `json:"title"`
    Description    *string   `json:"description"`
    MatchDetails   *string   `json:"match_details"`
    VenueName      string    `json:"venue_name"`
    VenueAddress   string    `json:"venue_address"`
    EventDate      time.Time `json:"event_date"`
    Price          float64   `json:"price"`
    CoverCharge    float64   `json:"cover_charge"`
    TotalCapacity  int       `json:"total_capacity"`
    BookedSeats    int       `json:"booked_seats"`
    AvailableSeats int       `json:"available_seats"`
    CoverImage     *string   `json:"cover_image"`
    UpiID          string    `json:"upi_id"`
    Status         string    `json:"status"`
    CreatedAt      time.Time `json:"created_at"`
}

func toEventResp(e model.Event) eventResp {
    return eventResp{
        ID:             e.ID,
        Title:          e.Title,
        Description:    e.Description,
        MatchDetails:   e.MatchDetails,
        VenueName:      e.VenueName,
        VenueAddress:   e.VenueAddress,
        EventDate:      e.EventDate,
        Price:          e.Price,
        CoverCharge:    e.CoverCharge,
        TotalCapacity:  e.TotalCapacity,
        BookedSeats:    e.BookedSeats,
        AvailableSeats: e.TotalCapacity - e.BookedSeats,
        CoverImage:     e.CoverImage,
        UpiID:          e.UpiID,
        Status:         e.Status,
        CreatedAt:      e.CreatedAt,
    }
}

// ListUpcoming handles GET /api/events: upcoming and ongoing events,
// soonest first.
func (h *EventHandler) ListUpcoming(c echo.Context) error {
    events, err := h.Events.ListUpcoming(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]eventResp, 0, len(events))
    for _, e := range events {
        out = append(out, toEventResp(e))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /api/events/:id.
func (h *EventHandler) Get(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    e, err := h.Events.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrEventNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": toEventResp(e)})
}

// ListAll handles GET /api/events/admin/all: every event regardless of
// status, with booking counts.
func (h *EventHandler) ListAll(c echo.Context) error {
    events, err := h.Events.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]echo.Map, 0, len(events))
    for _, e := range events {
        resp := toEventResp(e.Event)
        out = append(out, echo.Map{"event": resp, "total_bookings": e.TotalBookings})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Create handles POST /api/events (multipart/form-data, admin).  The
// cover_image file is optional.
func (h *EventHandler) Create(c echo.Context) error {
    title := strings.TrimSpace(c.FormValue("title"))
    venueName := strings.TrimSpace(c.FormValue("venue_name"))
    venueAddress := strings.TrimSpace(c.FormValue("venue_address"))
    upiID := strings.TrimSpace(c.FormValue("upi_id"))
    if title == "" || venueName == "" || venueAddress == "" || upiID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "title, venue_name, venue_address and upi_id are required"})
    }
    eventDate, err := time.Parse(time.RFC3339, c.FormValue("event_date"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_date must be RFC3339"})
    }
    price, err := strconv.ParseFloat(c.FormValue("price"), 64)
    if err != nil || price < 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price"})
    }
    capacity, err := strconv.Atoi(c.FormValue("total_capacity"))
    if err != nil || capacity < 1 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_capacity must be at least 1"})
    }
    coverCharge := 0.0
    if v := c.FormValue("cover_charge"); v != "" {
        if coverCharge, err = strconv.ParseFloat(v, 64); err != nil || coverCharge < 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cover_charge"})
        }
    }
    var description, matchDetails *string
    if v := strings.TrimSpace(c.FormValue("description")); v != "" {
        description = &v
    }
    if v := strings.TrimSpace(c.FormValue("match_details")); v != "" {
        matchDetails = &v
    }

    var coverImage *string
    if fh, errF := c.FormFile("cover_image"); errF == nil {
        stored, errS := utils.SaveUpload(fh, h.coverDir())
        if errS != nil {
            if errors.Is(errS, utils.ErrUploadTooLarge) || errors.Is(errS, utils.ErrUploadType) {
                return c.JSON(http.StatusBadRequest, echo.Map{"error": errS.Error()})
            }
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store cover image"})
        }
        url := "/uploads/event-covers/" + stored
        coverImage = &url
    }

    var createdBy *uint64
    if id, errU := getUserID(c); errU == nil {
        createdBy = &id
    }
    e := model.Event{
        Title:         title,
        Description:   description,
        MatchDetails:  matchDetails,
        VenueName:     venueName,
        VenueAddress:  venueAddress,
        EventDate:     eventDate,
        Price:         price,
        CoverCharge:   coverCharge,
        TotalCapacity: capacity,
        CoverImage:    coverImage,
        UpiID:         upiID,
        Status:        model.EventUpcoming,
        CreatedBy:     createdBy,
    }
    if err := h.Events.Create(c.Request().Context(), &e); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create event"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"item": toEventResp(e)})
}

type eventUpdateReq struct {
    Title         *string  `json:"title"`
    Description   *string  `json:"description"`
    MatchDetails  *string  `json:"match_details"`
    VenueName     *string  `json:"venue_name"`
    VenueAddress  *string  `json:"venue_address"`
    EventDate     *string  `json:"event_date"`
    Price         *float64 `json:"price"`
    CoverCharge   *float64 `json:"cover_charge"`
    TotalCapacity *int     `json:"total_capacity"`
    CoverImage    *string  `json:"cover_image"`
    UpiID         *string  `json:"upi_id"`
    Status        *string  `json:"status"`
}

// Update handles PUT /api/events/:id (admin).  Absent fields keep their
// current values.  Capacity can never drop below the seats already booked.
func (h *EventHandler) Update(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    var body eventUpdateReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    ctx := c.Request().Context()
    current, err := h.Events.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrEventNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    patch := repository.EventPatch{
        Title:         body.Title,
        Description:   body.Description,
        MatchDetails:  body.MatchDetails,
        VenueName:     body.VenueName,
        VenueAddress:  body.VenueAddress,
        Price:         body.Price,
        CoverCharge:   body.CoverCharge,
        CoverImage:    body.CoverImage,
        UpiID:         body.UpiID,
    }
    if body.EventDate != nil {
        t, err := time.Parse(time.RFC3339, *body.EventDate)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_date must be RFC3339"})
        }
        patch.EventDate = &t
    }
    if body.TotalCapacity != nil {
        if *body.TotalCapacity < current.BookedSeats {
            return c.JSON(http.StatusBadRequest, echo.Map{
                "error": "total_capacity cannot be below the booked seat count",
            })
        }
        patch.TotalCapacity = body.TotalCapacity
    }
    if body.Status != nil {
        switch *body.Status {
        case model.EventUpcoming, model.EventOngoing, model.EventCompleted, model.EventCancelled:
        default:
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
        }
        patch.Status = body.Status
    }
    updated, err := h.Events.Update(ctx, id, patch)
    if err != nil {
        if errors.Is(err, repository.ErrEventNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update event"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": toEventResp(updated)})
}

// Delete handles DELETE /api/events/:id (admin).  Bookings and locks
// cascade with the event.
func (h *EventHandler) Delete(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    if err := h.Events.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrEventNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete event"})
    }
    return c.NoContent(http.StatusNoContent)
}

// EventBookings handles GET /api/events/:id/bookings (admin): every
// booking of one event for payment verification.
func (h *EventHandler) EventBookings(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
    }
    ctx := c.Request().Context()
    if _, err := h.Events.GetByID(ctx, id); err != nil {
        if errors.Is(err, repository.ErrEventNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    items, err := h.Bookings.ListByEvent(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
    }
    out := make([]echo.Map, 0, len(items))
    for _, b := range items {
        out = append(out, echo.Map{
            "id":                 b.ID,
            "user_id":            b.UserID,
            "user_email":         b.UserEmail,
            "name":               b.Name,
            "email":              b.Email,
            "phone":              b.Phone,
            "seats":              b.NumberOfPeople,
            "payment_amount":     b.PaymentAmount,
            "payment_screenshot": b.PaymentScreenshot,
            "status":             b.Status,
            "notes":              b.Notes,
            "created_at":         b.CreatedAt,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

type bookingStatusReq struct {
    Status string `json:"status"`
}

// UpdateBookingStatus handles PUT /api/events/bookings/:bookingId/status
// (admin).  Allowed transitions: pending to confirmed, rejected or
// cancelled, and confirmed to cancelled.  Only a transition into
// cancelled returns the booking's seats to the event.
func (h *EventHandler) UpdateBookingStatus(c echo.Context) error {
    bookingID, ok := pathID(c, "bookingId")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    var body bookingStatusReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if !model.ValidBookingStatus(body.Status) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
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

    b, err := h.Bookings.GetForUpdateTx(ctx, tx, bookingID)
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    if err := h.Bookings.TransitionTx(ctx, tx, b, body.Status); err != nil {
        if errors.Is(err, repository.ErrAlreadyCancelled) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking is already cancelled"})
        }
        if errors.Is(err, repository.ErrInvalidTransition) {
            return c.JSON(http.StatusBadRequest, echo.Map{
                "error": "invalid booking status transition",
                "from":  b.Status,
                "to":    body.Status,
            })
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update booking"})
    }
    if body.Status == model.BookingCancelled {
        if err := h.Events.AddBookedSeatsTx(ctx, tx, b.EventID, -b.NumberOfPeople); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to restore seats"})
        }
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
    }
    committed = true
    return c.JSON(http.StatusOK, echo.Map{
        "message": "booking status updated",
        "status":  body.Status,
    })
}
