package config

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestParseMethods(t *testing.T) {
    assert.Equal(t, map[string]bool{"GET": true}, parseMethods("GET"))
    assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, parseMethods(" get , head ,,"))
    assert.Equal(t, map[string]bool{}, parseMethods(""))
}

func TestLoadRateLimitConfigNormalises(t *testing.T) {
    t.Setenv("RATE_LIMIT_CAPACITY", "0")
    t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-2")
    t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "0s")
    t.Setenv("RATE_LIMIT_TTL", "1s")

    cfg := LoadRateLimitConfig()
    assert.Equal(t, 1, cfg.Capacity)
    assert.Equal(t, 1, cfg.RefillTokens)
    assert.Equal(t, time.Second, cfg.RefillInterval)
    // TTL is stretched so bucket state outlives several refill cycles.
    assert.Equal(t, 5*time.Second, cfg.TTL)
}

func TestLoadRateLimitConfigBurstAliases(t *testing.T) {
    t.Setenv("RATE_LIMIT_BURST", "25")
    t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")

    cfg := LoadRateLimitConfig()
    assert.Equal(t, 25, cfg.Capacity)
    assert.Equal(t, 1, cfg.RefillTokens)
    assert.Equal(t, 2*time.Second, cfg.RefillInterval)
}
