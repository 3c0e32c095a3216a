package model

import "time"

// SeatLock represents a temporary, advisory hold on event seats while a
// member fills out the booking form.  One row exists per (event, session)
// pair; a new lock request from the same session replaces the previous
// count and expiry rather than stacking.  Locks never change an event's
// BookedSeats (only a finalized booking does) and they vanish either on
// explicit release, on defensive sweeps inside lock acquisition, or via
// the background sweeper once ExpiresAt has passed.
//
// Fields:
//  ID          – primary key identifier.
//  EventID     – event whose seats are held.
//  SessionID   – opaque client-supplied session token.
//  SeatsLocked – number of seats this session currently holds.
//  LockedAt    – when the hold was created or last renewed.
//  ExpiresAt   – when the hold lapses.
type SeatLock struct {
    ID          uint64    // seat_locks.id
    EventID     uint64    // seat_locks.event_id
    SessionID   string    // seat_locks.session_id
    SeatsLocked int       // seat_locks.seats_locked
    LockedAt    time.Time // seat_locks.locked_at
    ExpiresAt   time.Time // seat_locks.expires_at
}
