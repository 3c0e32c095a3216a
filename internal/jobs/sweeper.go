package jobs

import (
	"context"
	"log"
	"time"
)

// pruner deletes rows whose hold has lapsed and reports how many went away.
type pruner interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Sweeper periodically removes expired seat locks. Expired rows are also
// ignored inside the locking transactions, so the sweeper only keeps the
// table small; correctness does not depend on it running.
type Sweeper struct {
	locks    pruner
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewSweeper builds a sweeper over the given lock store. A non-positive
// interval falls back to one minute.
func NewSweeper(locks pruner, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		locks:    locks,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the sweep loop in a new goroutine. It sweeps once immediately
// and then on every tick until Stop is called.
func (s *Sweeper) Start() {
	go func() {
		defer close(s.done)
		s.sweep()
		t := time.NewTicker(s.interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				s.sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts the loop and waits for the current sweep to finish.
func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	n, err := s.locks.DeleteExpired(ctx)
	if err != nil {
		// A failed sweep is retried on the next tick.
		log.Printf("seat-lock sweeper: delete expired failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("seat-lock sweeper: removed %d expired lock(s)", n)
	}
}
