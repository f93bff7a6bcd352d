package service

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// latencySimulator delays store operations by a random duration in [min, max].
type latencySimulator struct {
	min, max time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

func newLatencySimulator(minDelay, maxDelay time.Duration) *latencySimulator {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &latencySimulator{
		min: minDelay,
		max: maxDelay,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (l *latencySimulator) next() time.Duration {
	if l.max <= 0 {
		return 0
	}
	if l.max == l.min {
		return l.min
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.min + time.Duration(l.rng.Int63n(int64(l.max-l.min)+1))
}

// Wait blocks for the simulated latency or until ctx is done.
func (l *latencySimulator) Wait(ctx context.Context) error {
	delay := l.next()
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
