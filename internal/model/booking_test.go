package model

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestValidBookingStatus(t *testing.T) {
    for _, s := range []string{BookingPending, BookingConfirmed, BookingRejected, BookingCancelled} {
        assert.True(t, ValidBookingStatus(s), s)
    }
    assert.False(t, ValidBookingStatus(""))
    assert.False(t, ValidBookingStatus("paid"))
    assert.False(t, ValidBookingStatus("Pending"))
}

func TestCanTransition(t *testing.T) {
    cases := []struct {
        from, to string
        ok       bool
    }{
        {BookingPending, BookingConfirmed, true},
        {BookingPending, BookingRejected, true},
        {BookingPending, BookingCancelled, true},
        {BookingConfirmed, BookingCancelled, true},

        {BookingConfirmed, BookingPending, false},
        {BookingConfirmed, BookingRejected, false},
        {BookingRejected, BookingConfirmed, false},
        {BookingRejected, BookingCancelled, false},
        {BookingCancelled, BookingPending, false},
        {BookingCancelled, BookingConfirmed, false},
        {BookingPending, BookingPending, false},
        {BookingCancelled, BookingCancelled, false},
    }
    for _, tc := range cases {
        assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
    }
}
