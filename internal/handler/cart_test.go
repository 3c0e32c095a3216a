package handler

import (
    "testing"

    "github.com/stretchr/testify/assert"

    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/model"
    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/repository"
)

func line(price float64, qty int) repository.CartLine {
    return repository.CartLine{
        CartItem:  model.CartItem{Quantity: qty},
        LinePrice: price,
    }
}

func TestCartTotals(t *testing.T) {
    cases := []struct {
        name     string
        lines    []repository.CartLine
        subtotal float64
        shipping float64
    }{
        {"empty cart", nil, 0, 0},
        {"below threshold pays flat fee", []repository.CartLine{line(799, 2)}, 1598, 100},
        {"at threshold ships free", []repository.CartLine{line(1000, 2)}, 2000, 0},
        {"above threshold ships free", []repository.CartLine{line(1299, 2), line(499, 1)}, 3097, 0},
        {"just under threshold", []repository.CartLine{line(1999.99, 1)}, 1999.99, 100},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            subtotal, shipping, total := CartTotals(tc.lines)
            assert.InDelta(t, tc.subtotal, subtotal, 0.001)
            assert.InDelta(t, tc.shipping, shipping, 0.001)
            assert.InDelta(t, tc.subtotal+tc.shipping, total, 0.001)
        })
    }
}
