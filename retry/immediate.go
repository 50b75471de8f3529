package retry

import (
	"context"
)

// ImmediatePolicy allows a fixed number of attempts with no waiting between
// them. It is the default policy with a single attempt: one failed call ends
// the cycle.
type ImmediatePolicy struct {
	attempted int
	attempts  int
	infinite  bool
}

var _ Policy = (*ImmediatePolicy)(nil)

// Immediate returns a policy allowing the given number of attempts, back to
// back. Zero means unlimited attempts.
func Immediate(attempts int) *ImmediatePolicy {
	if attempts < 0 {
		panic("attempts can't be < 0")
	}
	return &ImmediatePolicy{
		attempts: attempts,
		infinite: attempts == 0,
	}
}

func (r *ImmediatePolicy) Attempt(ctx context.Context) (ok bool) {
	defer func() {
		if ok && !r.infinite {
			r.attempted += 1
		}
	}()

	if !r.infinite && r.attempted >= r.attempts {
		return false
	}

	return ctx.Err() == nil
}

func (r *ImmediatePolicy) Derive() Policy {
	return Immediate(r.attempts)
}
