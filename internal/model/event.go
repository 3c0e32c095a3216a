package model

import "time"

// Event status values as stored in events.status.
const (
    EventUpcoming  = "upcoming"
    EventOngoing   = "ongoing"
    EventCompleted = "completed"
    EventCancelled = "cancelled"
)

// Event represents a peña screening or meetup with limited seating.
// BookedSeats is the authoritative confirmed claim on capacity; seat
// locks never touch it.  The invariant 0 <= BookedSeats <= TotalCapacity
// must hold after every committed transaction.
//
// Fields:
//  ID            – primary key identifier.
//  Title         – event title shown to members.
//  Description   – long form description.
//  MatchDetails  – which fixture is being screened, if any.
//  VenueName     – name of the venue hosting the event.
//  VenueAddress  – full address of the venue.
//  EventDate     – when the event starts.
//  Price         – per-seat price in rupees.
//  CoverCharge   – optional extra charge collected at the venue.
//  TotalCapacity – total number of seats the venue allows.
//  BookedSeats   – cumulative confirmed booked-seat count.
//  CoverImage    – optional promotional image URL.
//  UpiID         – UPI handle members pay to before uploading a screenshot.
//  Status        – upcoming | ongoing | completed | cancelled.
//  CreatedBy     – admin user who created the event (nullable).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Event struct {
    ID            uint64    // events.id
    Title         string    // events.title
    Description   *string   // events.description (nullable)
    MatchDetails  *string   // events.match_details (nullable)
    VenueName     string    // events.venue_name
    VenueAddress  string    // events.venue_address
    EventDate     time.Time // events.event_date
    Price         float64   // events.price
    CoverCharge   float64   // events.cover_charge
    TotalCapacity int       // events.total_capacity
    BookedSeats   int       // events.booked_seats
    CoverImage    *string   // events.cover_image (nullable)
    UpiID         string    // events.upi_id
    Status        string    // events.status
    CreatedBy     *uint64   // events.created_by (nullable)
    CreatedAt     time.Time // events.created_at
    UpdatedAt     time.Time // events.updated_at
}
