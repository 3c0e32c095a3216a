package model

import "time"

// Booking status values as stored in bookings.booking_status.
const (
    BookingPending   = "pending"
    BookingConfirmed = "confirmed"
    BookingRejected  = "rejected"
    BookingCancelled = "cancelled"
)

// Booking records a member's (or guest's) claim on event capacity together
// with the uploaded payment screenshot awaiting manual verification.  A
// booking's existence permanently affects the event's BookedSeats; its
// status only matters for seat accounting when it becomes cancelled, at
// which point the seats it claimed are restored.
//
// Fields:
//  ID                – primary key identifier.
//  EventID           – event being booked.
//  UserID            – booking owner (nullable; anonymous bookings allowed).
//  Name              – contact name supplied on the form.
//  Email             – contact email.
//  Phone             – contact phone number.
//  NumberOfPeople    – seats claimed by this booking.
//  PaymentScreenshot – stored path of the uploaded payment artifact.
//  PaymentAmount     – price × seats at the time of booking.
//  Status            – pending | confirmed | rejected | cancelled.
//  Notes             – free-form notes from the member.
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type Booking struct {
    ID                uint64    // bookings.id
    EventID           uint64    // bookings.event_id
    UserID            *uint64   // bookings.user_id (nullable)
    Name              string    // bookings.name
    Email             string    // bookings.email
    Phone             string    // bookings.phone
    NumberOfPeople    int       // bookings.number_of_people
    PaymentScreenshot string    // bookings.payment_screenshot
    PaymentAmount     float64   // bookings.payment_amount
    Status            string    // bookings.booking_status
    Notes             *string   // bookings.notes (nullable)
    CreatedAt         time.Time // bookings.created_at
    UpdatedAt         time.Time // bookings.updated_at
}

// ValidBookingStatus reports whether s is one of the four known booking
// statuses.  Used to reject malformed admin requests before touching the
// database.
func ValidBookingStatus(s string) bool {
    switch s {
    case BookingPending, BookingConfirmed, BookingRejected, BookingCancelled:
        return true
    }
    return false
}

// CanTransition reports whether a booking may move from one status to
// another.  Pending bookings may be confirmed, rejected or cancelled by an
// admin; a confirmed booking may still be cancelled (the refund flow).
// Every other move, including any transition out of rejected or cancelled,
// is illegal.
func CanTransition(from, to string) bool {
    if from == to {
        return false
    }
    switch from {
    case BookingPending:
        return to == BookingConfirmed || to == BookingRejected || to == BookingCancelled
    case BookingConfirmed:
        return to == BookingCancelled
    }
    return false
}
