// Package queue defines message payloads exchanged over the message broker
// and the background consumers that turn them into audit log lines.
package queue

// BookingCreatedEvent is published after a booking row is committed.  It
// carries everything downstream consumers need for notifications and the
// match-day audit log without touching the primary database.
type BookingCreatedEvent struct {
    BookingID     uint64  `json:"booking_id"`
    EventID       uint64  `json:"event_id"`
    EventTitle    string  `json:"event_title"`
    UserID        *uint64 `json:"user_id,omitempty"`
    Name          string  `json:"name"`
    Email         string  `json:"email"`
    Seats         int     `json:"seats"`
    PaymentAmount float64 `json:"payment_amount"`
    CreatedAt     string  `json:"created_at"`
}

// OrderPlacedEvent is published after a merch order is committed.
type OrderPlacedEvent struct {
    OrderID       uint64  `json:"order_id"`
    OrderNumber   string  `json:"order_number"`
    UserID        *uint64 `json:"user_id,omitempty"`
    CustomerName  string  `json:"customer_name"`
    CustomerEmail string  `json:"customer_email"`
    ItemCount     int     `json:"item_count"`
    TotalAmount   float64 `json:"total_amount"`
    PlacedAt      string  `json:"placed_at"`
}
