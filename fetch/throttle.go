package fetch

import (
	"context"
	"sync"
	"time"
)

const (
	cooldown              = time.Minute
	maxConcurrentRequests = 2
)

// throttle allows at most rate requests per cooldown window and at most
// maxConcurrentRequests in flight.
type throttle struct {
	rate int

	mu       sync.Mutex
	attempts []time.Time

	inflight chan struct{}
	now      func() time.Time
}

func newThrottle(rate int) *throttle {
	if rate <= 0 {
		rate = 1
	}
	return &throttle{
		rate:     rate,
		inflight: make(chan struct{}, maxConcurrentRequests),
		now:      time.Now,
	}
}

// acquire blocks until a request may start. The returned func releases the
// concurrency slot.
func (t *throttle) acquire(ctx context.Context) (func(), error) {
	select {
	case t.inflight <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	release := func() { <-t.inflight }

	for {
		wait := t.reserve()
		if wait == 0 {
			return release, nil
		}
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			release()
			return nil, ctx.Err()
		}
	}
}

// reserve records an attempt and returns 0 when the window has room, or
// how long until the oldest attempt leaves the window.
func (t *throttle) reserve() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	att := t.attempts
	for len(att) > 0 && now.Sub(att[0]) >= cooldown {
		att = att[1:]
	}
	if len(att) < t.rate {
		t.attempts = append(att, now)
		return 0
	}
	t.attempts = att
	return cooldown - now.Sub(att[0])
}
