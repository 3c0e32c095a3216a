package repository

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestAvailableSeats(t *testing.T) {
    assert.Equal(t, 10, AvailableSeats(10, 0, 0))
    assert.Equal(t, 2, AvailableSeats(5, 3, 0))
    assert.Equal(t, 4, AvailableSeats(10, 0, 6))
    // Oversold picture; the raw number goes negative.
    assert.Equal(t, -2, AvailableSeats(5, 4, 3))
}

func TestCheckCapacity(t *testing.T) {
    cases := []struct {
        name      string
        requested int
        capacity  int
        booked    int
        others    int
        wantErr   bool
        wantAvail int
    }{
        {"fits exactly", 2, 5, 3, 0, false, 0},
        {"one over after bookings", 3, 5, 3, 0, true, 2},
        {"empty event takes a big request", 6, 10, 0, 0, false, 0},
        {"second session blocked by first hold", 6, 10, 0, 6, true, 4},
        {"full event rejects one seat", 1, 5, 5, 0, true, 0},
        {"oversold availability clamps to zero", 1, 5, 4, 3, true, 0},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            err := CheckCapacity(tc.requested, tc.capacity, tc.booked, tc.others)
            if !tc.wantErr {
                assert.NoError(t, err)
                return
            }
            require.Error(t, err)
            ce, ok := AsCapacityError(err)
            require.True(t, ok)
            assert.Equal(t, tc.wantAvail, ce.Available)
        })
    }
}
