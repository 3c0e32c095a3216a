package repository

import (
    "context"
    "testing"

    "github.com/stretchr/testify/assert"

    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/model"
)

// Illegal moves are rejected before any SQL runs, so a nil transaction is
// safe here.
func TestTransitionTxValidation(t *testing.T) {
    r := NewBookingRepo(nil)
    ctx := context.Background()

    err := r.TransitionTx(ctx, nil, model.Booking{ID: 1, Status: model.BookingCancelled}, model.BookingCancelled)
    assert.ErrorIs(t, err, ErrAlreadyCancelled)

    err = r.TransitionTx(ctx, nil, model.Booking{ID: 1, Status: model.BookingRejected}, model.BookingConfirmed)
    assert.ErrorIs(t, err, ErrInvalidTransition)

    err = r.TransitionTx(ctx, nil, model.Booking{ID: 1, Status: model.BookingConfirmed}, model.BookingConfirmed)
    assert.ErrorIs(t, err, ErrInvalidTransition)
}
