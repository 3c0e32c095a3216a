package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/model"
)

// EventRepo provides data access to the events table.  The row-lock
// helpers (`...ForUpdateTx`) are the serialization point for everything
// that touches an event's seat accounting: both the lock manager and the
// booking flow take the event row FOR UPDATE before reading capacity, so
// concurrent operations on the same event queue up while different events
// proceed independently.
type EventRepo struct{ DB *sql.DB }

// NewEventRepo returns a new EventRepo bound to the provided database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

// EventSeatRow is the slice of an event row needed for seat accounting.
type EventSeatRow struct {
    TotalCapacity int
    BookedSeats   int
    Price         float64
    Status        string
}

// GetSeatRowForUpdateTx reads capacity, booked count, price and status with
// an exclusive row lock.  Every read-then-write on an event's seats must go
// through this inside a transaction; the lock is what prevents two
// concurrent requests from both observing the same availability.
func (r *EventRepo) GetSeatRowForUpdateTx(ctx context.Context, tx *sql.Tx, eventID uint64) (EventSeatRow, error) {
    var row EventSeatRow
    err := tx.QueryRowContext(ctx,
        `SELECT total_capacity, booked_seats, price, status FROM events WHERE id = ? FOR UPDATE`,
        eventID).Scan(&row.TotalCapacity, &row.BookedSeats, &row.Price, &row.Status)
    if err == sql.ErrNoRows {
        return EventSeatRow{}, ErrEventNotFound
    }
    return row, err
}

// AddBookedSeatsTx adjusts booked_seats by delta (positive on booking
// creation, negative on cancellation) inside the caller's transaction.
func (r *EventRepo) AddBookedSeatsTx(ctx context.Context, tx *sql.Tx, eventID uint64, delta int) error {
    _, err := tx.ExecContext(ctx,
        `UPDATE events SET booked_seats = booked_seats + ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`,
        delta, eventID)
    return err
}

const eventCols = `id, title, description, match_details, venue_name, venue_address,
          event_date, price, cover_charge, total_capacity, booked_seats,
          cover_image, upi_id, status, created_by, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (model.Event, error) {
    var e model.Event
    err := row.Scan(&e.ID, &e.Title, &e.Description, &e.MatchDetails, &e.VenueName,
        &e.VenueAddress, &e.EventDate, &e.Price, &e.CoverCharge, &e.TotalCapacity,
        &e.BookedSeats, &e.CoverImage, &e.UpiID, &e.Status, &e.CreatedBy,
        &e.CreatedAt, &e.UpdatedAt)
    return e, err
}

// GetByID fetches a single event.  Returns ErrEventNotFound when absent.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, error) {
    e, err := scanEvent(r.DB.QueryRowContext(ctx,
        `SELECT `+eventCols+` FROM events WHERE id = ?`, id))
    if err == sql.ErrNoRows {
        return model.Event{}, ErrEventNotFound
    }
    return e, err
}

// ListUpcoming returns events whose date has not passed, soonest first.
func (r *EventRepo) ListUpcoming(ctx context.Context) ([]model.Event, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT `+eventCols+` FROM events WHERE event_date >= UTC_TIMESTAMP() ORDER BY event_date ASC`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    events := []model.Event{}
    for rows.Next() {
        e, err := scanEvent(rows)
        if err != nil {
            return nil, err
        }
        events = append(events, e)
    }
    return events, rows.Err()
}

// AdminEvent is an event row augmented with its booking count for the
// admin dashboard.
type AdminEvent struct {
    model.Event
    TotalBookings int `json:"total_bookings"`
}

// ListAll returns every event with its booking count, newest event first.
// Admin only.
func (r *EventRepo) ListAll(ctx context.Context) ([]AdminEvent, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT e.id, e.title, e.description, e.match_details, e.venue_name, e.venue_address,
                e.event_date, e.price, e.cover_charge, e.total_capacity, e.booked_seats,
                e.cover_image, e.upi_id, e.status, e.created_by, e.created_at, e.updated_at,
                COUNT(b.id) AS total_bookings
           FROM events e
           LEFT JOIN bookings b ON b.event_id = e.id
          GROUP BY e.id
          ORDER BY e.event_date DESC`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    events := []AdminEvent{}
    for rows.Next() {
        var a AdminEvent
        if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.MatchDetails, &a.VenueName,
            &a.VenueAddress, &a.EventDate, &a.Price, &a.CoverCharge, &a.TotalCapacity,
            &a.BookedSeats, &a.CoverImage, &a.UpiID, &a.Status, &a.CreatedBy,
            &a.CreatedAt, &a.UpdatedAt, &a.TotalBookings); err != nil {
            return nil, err
        }
        events = append(events, a)
    }
    return events, rows.Err()
}

// Create inserts a new event with zero booked seats and returns it.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
    res, err := r.DB.ExecContext(ctx,
        `INSERT INTO events (title, description, match_details, venue_name, venue_address,
                             event_date, price, cover_charge, total_capacity, booked_seats,
                             cover_image, upi_id, status, created_by)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?, ?)`,
        e.Title, e.Description, e.MatchDetails, e.VenueName, e.VenueAddress,
        e.EventDate.UTC(), e.Price, e.CoverCharge, e.TotalCapacity,
        e.CoverImage, e.UpiID, e.Status, e.CreatedBy)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    e.ID = uint64(id)
    e.BookedSeats = 0
    return nil
}

// EventPatch carries optional field updates; nil pointers leave the
// current column value in place (COALESCE semantics).
type EventPatch struct {
    Title         *string
    Description   *string
    MatchDetails  *string
    VenueName     *string
    VenueAddress  *string
    EventDate     *time.Time
    Price         *float64
    CoverCharge   *float64
    TotalCapacity *int
    CoverImage    *string
    UpiID         *string
    Status        *string
}

// Update applies a partial update and returns the fresh row.  Returns
// ErrEventNotFound when the id does not exist.
func (r *EventRepo) Update(ctx context.Context, id uint64, p EventPatch) (model.Event, error) {
    sets := []string{}
    args := []any{}
    add := func(col string, v any) {
        sets = append(sets, col+" = ?")
        args = append(args, v)
    }
    if p.Title != nil {
        add("title", *p.Title)
    }
    if p.Description != nil {
        add("description", *p.Description)
    }
    if p.MatchDetails != nil {
        add("match_details", *p.MatchDetails)
    }
    if p.VenueName != nil {
        add("venue_name", *p.VenueName)
    }
    if p.VenueAddress != nil {
        add("venue_address", *p.VenueAddress)
    }
    if p.EventDate != nil {
        add("event_date", p.EventDate.UTC())
    }
    if p.Price != nil {
        add("price", *p.Price)
    }
    if p.CoverCharge != nil {
        add("cover_charge", *p.CoverCharge)
    }
    if p.TotalCapacity != nil {
        add("total_capacity", *p.TotalCapacity)
    }
    if p.CoverImage != nil {
        add("cover_image", *p.CoverImage)
    }
    if p.UpiID != nil {
        add("upi_id", *p.UpiID)
    }
    if p.Status != nil {
        add("status", *p.Status)
    }
    if len(sets) > 0 {
        sets = append(sets, "updated_at = UTC_TIMESTAMP()")
        args = append(args, id)
        res, err := r.DB.ExecContext(ctx,
            `UPDATE events SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
        if err != nil {
            return model.Event{}, err
        }
        if n, err := res.RowsAffected(); err == nil && n == 0 {
            // MySQL reports 0 for no-op updates too, so double check existence.
            if _, err := r.GetByID(ctx, id); err != nil {
                return model.Event{}, err
            }
        }
    }
    return r.GetByID(ctx, id)
}

// Delete removes an event (bookings and locks cascade via FK).  Returns
// ErrEventNotFound when nothing was deleted.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrEventNotFound
    }
    return nil
}
