// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios: a missing
// event maps to HTTP 404, an illegal booking transition to HTTP 400, and
// so on.  CapacityError is the one structured error; it carries the
// current availability so clients can shrink their request and retry.
package repository

import (
    "errors"
    "fmt"
)

// ErrEventNotFound is returned when an event id does not exist (or, for
// booking creation, when the event is not open for booking).
var ErrEventNotFound = errors.New("event not found")

// ErrBookingNotFound is returned when a booking id does not exist or is
// not visible to the caller.
var ErrBookingNotFound = errors.New("booking not found")

// ErrLockNotFound is returned when extending a seat lock that does not
// exist or has already expired.
var ErrLockNotFound = errors.New("no active lock found")

// ErrAlreadyCancelled is returned when cancelling a booking that is
// already cancelled.  The event's seat count is left untouched.
var ErrAlreadyCancelled = errors.New("booking is already cancelled")

// ErrInvalidTransition is returned when an admin requests a booking
// status change the state machine does not allow.
var ErrInvalidTransition = errors.New("invalid booking status transition")

// ErrEmailExists is returned when registering with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrBlogNotFound is returned when a blog id does not exist.
var ErrBlogNotFound = errors.New("blog not found")

// ErrProductNotFound is returned when a product id does not exist or the
// product is inactive.
var ErrProductNotFound = errors.New("product not found")

// ErrCartItemNotFound is returned when a cart item id does not exist or
// does not belong to the caller.
var ErrCartItemNotFound = errors.New("cart item not found")

// ErrOrderNotFound is returned when an order id does not exist or is not
// visible to the caller.
var ErrOrderNotFound = errors.New("order not found")

// ErrOutOfStock is returned when an order requests more units of a
// product than remain in stock.
var ErrOutOfStock = errors.New("insufficient stock")

// CapacityError reports that a seat request exceeds the event's true
// availability.  Available holds the number of seats the caller could
// still get, so the client can retry with a smaller request.
type CapacityError struct {
    Available int
}

func (e *CapacityError) Error() string {
    return fmt.Sprintf("only %d seats available", e.Available)
}

// AsCapacityError unwraps err into a *CapacityError if it is one.
func AsCapacityError(err error) (*CapacityError, bool) {
    var ce *CapacityError
    if errors.As(err, &ce) {
        return ce, true
    }
    return nil, false
}
