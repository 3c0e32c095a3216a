package repository

import (
    "context"
    "database/sql"
    "time"
)

// Availability is the live seat picture for one event as seen by one
// session.  AvailableSeats already excludes seats held by other sessions;
// the caller's own hold is reported separately so the UI can show it.
type Availability struct {
    TotalCapacity  int `json:"totalCapacity"`
    BookedSeats    int `json:"bookedSeats"`
    LockedByOthers int `json:"lockedByOthers"`
    LockedByMe     int `json:"lockedByMe"`
    AvailableSeats int `json:"availableSeats"`
}

// AvailableSeats computes true availability: capacity minus confirmed
// bookings minus seats held by other sessions.  The caller's own hold is
// deliberately not subtracted: a renewal replaces it.
func AvailableSeats(totalCapacity, bookedSeats, lockedByOthers int) int {
    return totalCapacity - bookedSeats - lockedByOthers
}

// CheckCapacity validates a seat request against true availability and
// returns a CapacityError carrying the remaining seats when it does not
// fit.  Availability is clamped at zero for reporting.
func CheckCapacity(requested, totalCapacity, bookedSeats, lockedByOthers int) error {
    available := AvailableSeats(totalCapacity, bookedSeats, lockedByOthers)
    if requested > available {
        if available < 0 {
            available = 0
        }
        return &CapacityError{Available: available}
    }
    return nil
}

// SeatLockRepo provides data access to the seat_locks table.  Locks are
// advisory per-(event, session) holds with replace-not-stack upsert
// semantics enforced by the UNIQUE(event_id, session_id) constraint.  All
// expiry comparisons happen in SQL against UTC_TIMESTAMP() so request
// handlers and the background sweeper agree on what "expired" means.
type SeatLockRepo struct{ DB *sql.DB }

// NewSeatLockRepo returns a new SeatLockRepo bound to the provided database.
func NewSeatLockRepo(db *sql.DB) *SeatLockRepo { return &SeatLockRepo{DB: db} }

// ExpireForEventTx removes this event's expired locks inside the caller's
// transaction.  Lock acquisition calls it before computing totals so
// correctness never depends on the background sweeper having run
// recently.  Returns the number of rows removed.
func (r *SeatLockRepo) ExpireForEventTx(ctx context.Context, tx *sql.Tx, eventID uint64) (int64, error) {
    res, err := tx.ExecContext(ctx,
        `DELETE FROM seat_locks WHERE event_id = ? AND expires_at <= UTC_TIMESTAMP()`,
        eventID)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

// SumOtherSessionsTx returns the total seats held by unexpired locks of
// sessions other than sessionID for the given event.  Must run inside the
// same transaction that locked the event row, otherwise two concurrent
// acquisitions could both read a stale total.
func (r *SeatLockRepo) SumOtherSessionsTx(ctx context.Context, tx *sql.Tx, eventID uint64, sessionID string) (int, error) {
    var locked int
    err := tx.QueryRowContext(ctx,
        `SELECT COALESCE(SUM(seats_locked), 0)
           FROM seat_locks
          WHERE event_id = ? AND session_id <> ? AND expires_at > UTC_TIMESTAMP()`,
        eventID, sessionID).Scan(&locked)
    return locked, err
}

// UpsertTx creates or replaces the lock row for (event, session) with the
// new seat count and expiry.  A renewal for 3 seats replaces, not adds to,
// an earlier 2-seat hold.
func (r *SeatLockRepo) UpsertTx(ctx context.Context, tx *sql.Tx, eventID uint64, sessionID string, seats int, expiresAt time.Time) error {
    _, err := tx.ExecContext(ctx,
        `INSERT INTO seat_locks (event_id, session_id, seats_locked, locked_at, expires_at)
         VALUES (?, ?, ?, UTC_TIMESTAMP(), ?)
         ON DUPLICATE KEY UPDATE
             seats_locked = VALUES(seats_locked),
             locked_at    = UTC_TIMESTAMP(),
             expires_at   = VALUES(expires_at)`,
        eventID, sessionID, seats, expiresAt.UTC())
    return err
}

// Release unconditionally deletes the lock row for (event, session).  It
// is idempotent: releasing a lock that does not exist succeeds with no
// error, so SDK beacons fired on tab close can never fail meaningfully.
func (r *SeatLockRepo) Release(ctx context.Context, eventID uint64, sessionID string) error {
    _, err := r.DB.ExecContext(ctx,
        `DELETE FROM seat_locks WHERE event_id = ? AND session_id = ?`,
        eventID, sessionID)
    return err
}

// ReleaseTx deletes the lock row for (event, session) inside the caller's
// transaction.  Booking finalization uses it so the hold disappears in
// the same commit that claims the seats.
func (r *SeatLockRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, eventID uint64, sessionID string) error {
    _, err := tx.ExecContext(ctx,
        `DELETE FROM seat_locks WHERE event_id = ? AND session_id = ?`,
        eventID, sessionID)
    return err
}

// Extend pushes the expiry of an active lock out to expiresAt.  Returns
// ErrLockNotFound when the session has no unexpired lock on the event.
func (r *SeatLockRepo) Extend(ctx context.Context, eventID uint64, sessionID string, expiresAt time.Time) error {
    res, err := r.DB.ExecContext(ctx,
        `UPDATE seat_locks
            SET expires_at = ?, locked_at = UTC_TIMESTAMP()
          WHERE event_id = ? AND session_id = ? AND expires_at > UTC_TIMESTAMP()`,
        expiresAt.UTC(), eventID, sessionID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrLockNotFound
    }
    return nil
}

// DeleteExpired removes every expired lock regardless of event.  Used by
// the background sweeper; returns the count removed for logging.
func (r *SeatLockRepo) DeleteExpired(ctx context.Context) (int64, error) {
    res, err := r.DB.ExecContext(ctx,
        `DELETE FROM seat_locks WHERE expires_at <= UTC_TIMESTAMP()`)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

// GetAvailability returns the live seat numbers for an event from the
// perspective of sessionID.  It sweeps expired locks first (outside any
// transaction, this is a read-only poll endpoint) and then aggregates the
// remaining locks in a single query.  Returns ErrEventNotFound for an
// unknown event id.
func (r *SeatLockRepo) GetAvailability(ctx context.Context, eventID uint64, sessionID string) (Availability, error) {
    if _, err := r.DeleteExpired(ctx); err != nil {
        return Availability{}, err
    }
    // session_id equality against the NULL-joined rows yields 0 sums for
    // events with no locks thanks to COALESCE.
    var a Availability
    err := r.DB.QueryRowContext(ctx,
        `SELECT e.total_capacity, e.booked_seats,
                COALESCE(SUM(CASE WHEN sl.session_id <> ? THEN sl.seats_locked ELSE 0 END), 0) AS locked_by_others,
                COALESCE(SUM(CASE WHEN sl.session_id = ? THEN sl.seats_locked ELSE 0 END), 0) AS locked_by_me
           FROM events e
           LEFT JOIN seat_locks sl
             ON sl.event_id = e.id AND sl.expires_at > UTC_TIMESTAMP()
          WHERE e.id = ?
          GROUP BY e.id, e.total_capacity, e.booked_seats`,
        sessionID, sessionID, eventID).
        Scan(&a.TotalCapacity, &a.BookedSeats, &a.LockedByOthers, &a.LockedByMe)
    if err == sql.ErrNoRows {
        return Availability{}, ErrEventNotFound
    }
    if err != nil {
        return Availability{}, err
    }
    a.AvailableSeats = AvailableSeats(a.TotalCapacity, a.BookedSeats, a.LockedByOthers)
    return a, nil
}
