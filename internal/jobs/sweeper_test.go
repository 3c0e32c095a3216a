package jobs

import (
    "context"
    "errors"
    "sync/atomic"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

type fakePruner struct {
    calls atomic.Int64
    err   error
}

func (f *fakePruner) DeleteExpired(context.Context) (int64, error) {
    f.calls.Add(1)
    return 3, f.err
}

func TestSweeperRunsImmediatelyAndOnTicks(t *testing.T) {
    p := &fakePruner{}
    s := NewSweeper(p, 10*time.Millisecond)
    s.Start()

    assert.Eventually(t, func() bool { return p.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
    s.Stop()

    after := p.calls.Load()
    time.Sleep(30 * time.Millisecond)
    assert.Equal(t, after, p.calls.Load(), "no sweeps after Stop")
}

func TestSweeperSurvivesErrors(t *testing.T) {
    p := &fakePruner{err: errors.New("db gone")}
    s := NewSweeper(p, 10*time.Millisecond)
    s.Start()

    // Errors are logged and the loop keeps ticking.
    assert.Eventually(t, func() bool { return p.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
    s.Stop()
}

func TestSweeperDefaultInterval(t *testing.T) {
    s := NewSweeper(&fakePruner{}, 0)
    assert.Equal(t, time.Minute, s.interval)
}
