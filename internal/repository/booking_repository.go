package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/model"
)

// BookingRepo provides data access to the bookings table.  Creation and
// every status change that touches seat accounting run inside a caller
// transaction (`...Tx` methods) alongside EventRepo's row-lock helpers, so
// a booking row and its event's booked_seats always move together or not
// at all.
type BookingRepo struct{ DB *sql.DB }

// NewBookingRepo returns a new BookingRepo bound to the provided database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

const bookingCols = `id, event_id, user_id, name, email, phone, number_of_people,
          payment_screenshot, payment_amount, booking_status, notes, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (model.Booking, error) {
    var b model.Booking
    err := row.Scan(&b.ID, &b.EventID, &b.UserID, &b.Name, &b.Email, &b.Phone,
        &b.NumberOfPeople, &b.PaymentScreenshot, &b.PaymentAmount, &b.Status,
        &b.Notes, &b.CreatedAt, &b.UpdatedAt)
    return b, err
}

// CreateTx inserts a pending booking inside the caller's transaction and
// fills in the generated id and timestamps.  The caller must have taken
// the event row lock and verified capacity first.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    res, err := tx.ExecContext(ctx,
        `INSERT INTO bookings (event_id, user_id, name, email, phone, number_of_people,
                               payment_screenshot, payment_amount, booking_status, notes)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
        b.EventID, b.UserID, b.Name, b.Email, b.Phone, b.NumberOfPeople,
        b.PaymentScreenshot, b.PaymentAmount, model.BookingPending, b.Notes)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    b.Status = model.BookingPending
    now := time.Now().UTC()
    b.CreatedAt, b.UpdatedAt = now, now
    return nil
}

// GetOwnedForUpdateTx loads a booking with a row lock, constrained to the
// owning user.  Returns ErrBookingNotFound when the id does not exist or
// belongs to someone else (ownership is not leaked to the caller).
func (r *BookingRepo) GetOwnedForUpdateTx(ctx context.Context, tx *sql.Tx, id, userID uint64) (model.Booking, error) {
    b, err := scanBooking(tx.QueryRowContext(ctx,
        `SELECT `+bookingCols+` FROM bookings WHERE id = ? AND user_id = ? FOR UPDATE`,
        id, userID))
    if err == sql.ErrNoRows {
        return model.Booking{}, ErrBookingNotFound
    }
    return b, err
}

// GetForUpdateTx loads any booking with a row lock.  Admin path.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, error) {
    b, err := scanBooking(tx.QueryRowContext(ctx,
        `SELECT `+bookingCols+` FROM bookings WHERE id = ? FOR UPDATE`, id))
    if err == sql.ErrNoRows {
        return model.Booking{}, ErrBookingNotFound
    }
    return b, err
}

// UpdateStatusTx sets booking_status inside the caller's transaction.
// Seat accounting for cancellations is the caller's responsibility via
// EventRepo.AddBookedSeatsTx in the same transaction.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
    _, err := tx.ExecContext(ctx,
        `UPDATE bookings SET booking_status = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`,
        status, id)
    return err
}

// TransitionTx validates the booking state machine and then applies the
// status change.  Cancelling an already-cancelled booking returns
// ErrAlreadyCancelled so callers do not restore seats twice; any other
// disallowed move returns ErrInvalidTransition.
func (r *BookingRepo) TransitionTx(ctx context.Context, tx *sql.Tx, b model.Booking, to string) error {
    if b.Status == model.BookingCancelled && to == model.BookingCancelled {
        return ErrAlreadyCancelled
    }
    if !model.CanTransition(b.Status, to) {
        return ErrInvalidTransition
    }
    return r.UpdateStatusTx(ctx, tx, b.ID, to)
}

// GetByID fetches one booking without locking.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
    b, err := scanBooking(r.DB.QueryRowContext(ctx,
        `SELECT `+bookingCols+` FROM bookings WHERE id = ?`, id))
    if err == sql.ErrNoRows {
        return model.Booking{}, ErrBookingNotFound
    }
    return b, err
}

// UserBooking is a booking joined with the event fields the "my bookings"
// page displays.
type UserBooking struct {
    model.Booking
    EventTitle string    `json:"event_title"`
    EventDate  time.Time `json:"event_date"`
    VenueName  string    `json:"venue_name"`
}

// ListByUser returns the user's bookings, newest first, with event details.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]UserBooking, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT b.id, b.event_id, b.user_id, b.name, b.email, b.phone, b.number_of_people,
                b.payment_screenshot, b.payment_amount, b.booking_status, b.notes,
                b.created_at, b.updated_at,
                e.title, e.event_date, e.venue_name
           FROM bookings b
           JOIN events e ON e.id = b.event_id
          WHERE b.user_id = ?
          ORDER BY b.created_at DESC`, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []UserBooking{}
    for rows.Next() {
        var ub UserBooking
        if err := rows.Scan(&ub.ID, &ub.EventID, &ub.UserID, &ub.Name, &ub.Email, &ub.Phone,
            &ub.NumberOfPeople, &ub.PaymentScreenshot, &ub.PaymentAmount, &ub.Status,
            &ub.Notes, &ub.CreatedAt, &ub.UpdatedAt,
            &ub.EventTitle, &ub.EventDate, &ub.VenueName); err != nil {
            return nil, err
        }
        out = append(out, ub)
    }
    return out, rows.Err()
}

// EventBooking is a booking joined with the owning user's email for the
// admin per-event bookings list.
type EventBooking struct {
    model.Booking
    UserEmail *string `json:"user_email"`
}

// ListByEvent returns every booking for an event, newest first.  Admin only.
func (r *BookingRepo) ListByEvent(ctx context.Context, eventID uint64) ([]EventBooking, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT b.id, b.event_id, b.user_id, b.name, b.email, b.phone, b.number_of_people,
                b.payment_screenshot, b.payment_amount, b.booking_status, b.notes,
                b.created_at, b.updated_at,
                u.email
           FROM bookings b
           LEFT JOIN users u ON u.id = b.user_id
          WHERE b.event_id = ?
          ORDER BY b.created_at DESC`, eventID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []EventBooking{}
    for rows.Next() {
        var eb EventBooking
        if err := rows.Scan(&eb.ID, &eb.EventID, &eb.UserID, &eb.Name, &eb.Email, &eb.Phone,
            &eb.NumberOfPeople, &eb.PaymentScreenshot, &eb.PaymentAmount, &eb.Status,
            &eb.Notes, &eb.CreatedAt, &eb.UpdatedAt, &eb.UserEmail); err != nil {
            return nil, err
        }
        out = append(out, eb)
    }
    return out, rows.Err()
}
