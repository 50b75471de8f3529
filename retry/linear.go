package retry

import (
	"context"
	"time"
)

// LinearPolicy grows the wait between attempts linearly from minInterval to
// maxInterval.
type LinearPolicy struct {
	attempted   int
	attempts    int
	infinite    bool
	jitter      float64
	step        time.Duration
	minInterval time.Duration
	maxInterval time.Duration
	maxReached  bool
}

var _ Policy = (*LinearPolicy)(nil)

// Linear returns a policy allowing the given number of attempts, with waits
// growing from minInterval to maxInterval in equal steps. Zero attempts means
// unlimited, stepping by minInterval. The first attempt is always immediate.
func Linear(attempts int, minInterval, maxInterval time.Duration) *LinearPolicy {
	if attempts < 0 {
		panic("attempts can't be < 0")
	}
	if minInterval <= 0 {
		panic("minInterval can't be <= 0")
	}
	if minInterval >= maxInterval {
		panic("minInterval can't be >= maxInterval")
	}

	var step time.Duration
	if attempts == 0 {
		step = minInterval
	} else if attempts > 2 {
		step = (maxInterval - minInterval) / time.Duration(attempts-2)
	}

	return &LinearPolicy{
		attempts:    attempts,
		infinite:    attempts == 0,
		minInterval: minInterval,
		maxInterval: maxInterval,
		step:        step,
		jitter:      0.1,
	}
}

func (r *LinearPolicy) WithStep(step time.Duration) *LinearPolicy {
	if step <= 0 {
		panic("step can't be <= 0")
	}
	r.step = step
	return r
}

func (r *LinearPolicy) WithJitter(jitter float64) *LinearPolicy {
	if jitter < 0 {
		panic("jitter can't be < 0")
	}
	if jitter >= 1 {
		panic("jitter can't be >= 1")
	}
	r.jitter = jitter
	return r
}

func (r *LinearPolicy) Attempt(ctx context.Context) (ok bool) {
	defer func() {
		if ok {
			r.attempted += 1
		}
	}()

	if r.attempted == 0 {
		return true
	}

	if !r.infinite && r.attempted >= r.attempts {
		return false
	}

	var interval time.Duration
	if r.maxReached {
		interval = r.maxInterval
	} else {
		delta := r.step * time.Duration(r.attempted-1)
		interval = r.minInterval + delta
		if interval > r.maxInterval {
			r.maxReached = true
			interval = r.maxInterval
		}
	}

	return wait(ctx, interval, r.jitter)
}

func (r *LinearPolicy) Derive() Policy {
	return Linear(r.attempts, r.minInterval, r.maxInterval).
		WithStep(r.step).
		WithJitter(r.jitter)
}
