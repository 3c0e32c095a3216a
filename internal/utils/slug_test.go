package utils

import (
    "regexp"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
    cases := map[string]string{
        "La Liga":                      "la-liga",
        "  El Clásico 2026!  ":         "el-cl-sico-2026",
        "Champions   League":           "champions-league",
        "visca-barca":                  "visca-barca",
        "---":                          "",
        "Home Jersey (2025/26)":        "home-jersey-2025-26",
        "UPPER case & symbols @片仮名": "upper-case-symbols",
    }
    for in, want := range cases {
        assert.Equal(t, want, Slugify(in), "input %q", in)
    }
}

func TestNewOrderNumber(t *testing.T) {
    now := time.Date(2026, 8, 29, 23, 59, 0, 0, time.FixedZone("IST", 5*3600+1800))
    num, err := NewOrderNumber(now)
    require.NoError(t, err)

    // The date part is rendered in UTC regardless of the input zone.
    assert.Regexp(t, regexp.MustCompile(`^VB20260829\d{4}$`), num)
}
