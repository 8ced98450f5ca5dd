package openai

import (
	"context"
	"sync"
	"time"
)

// tokenBucket paces outbound requests. Tokens are refilled from elapsed time
// on each Wait, so the bucket holds no background goroutine.
type tokenBucket struct {
	mu       sync.Mutex
	capacity float64
	tokens   float64
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

// newTokenBucket returns nil when rpm is not positive, which disables limiting.
func newTokenBucket(rpm, burst int) *tokenBucket {
	if rpm <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return newTokenBucketWithClock(rpm, burst, time.Now)
}

func newTokenBucketWithClock(rpm, burst int, now func() time.Time) *tokenBucket {
	interval := time.Minute / time.Duration(rpm)
	if interval <= 0 {
		interval = time.Millisecond
	}
	return &tokenBucket{
		capacity: float64(burst),
		tokens:   float64(burst),
		interval: interval,
		last:     now(),
		now:      now,
	}
}

// Wait takes one token, sleeping until it is available or ctx ends.
func (b *tokenBucket) Wait(ctx context.Context) error {
	for {
		delay := b.reserve()
		if delay == 0 {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// reserve takes a token and returns zero, or returns how long until one refills.
func (b *tokenBucket) reserve() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if elapsed := now.Sub(b.last); elapsed > 0 {
		b.tokens += float64(elapsed) / float64(b.interval)
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
	}
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		return 0
	}
	return time.Duration((1 - b.tokens) * float64(b.interval))
}
