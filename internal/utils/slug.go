package utils

import (
    "crypto/rand"
    "fmt"
    "math/big"
    "regexp"
    "strings"
    "time"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts free text into a lowercase URL-safe slug: runs of
// anything outside [a-z0-9] collapse into single hyphens.
func Slugify(s string) string {
    s = strings.ToLower(strings.TrimSpace(s))
    s = nonSlugChars.ReplaceAllString(s, "-")
    return strings.Trim(s, "-")
}

// NewOrderNumber builds a human-facing order reference of the form
// VB + yyyymmdd + four random digits, e.g. VB202608293174.
func NewOrderNumber(now time.Time) (string, error) {
    n, err := rand.Int(rand.Reader, big.NewInt(10000))
    if err != nil {
        return "", err
    }
    return fmt.Sprintf("VB%s%04d", now.UTC().Format("20060102"), n.Int64()), nil
}
