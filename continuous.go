package asyncbuf

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Continuous is a single-packet buffer whose worker updates in a loop, with
// no triggers. It suits sources that are constantly populated, where updating
// only on an external schedule could let upstream buffers overfill.
//
// The source call rate is fully decoupled from the read rate: callers may
// read the same payload twice or miss intermediate payloads. [WithInterval]
// bounds the iteration rate; without it the worker free-runs, checking for
// cancellation once per iteration.
type Continuous[P any] struct {
	updater[P]

	closing atomic.Bool
	limiter *rate.Limiter

	ctx   context.Context
	stop  func()
	group *errgroup.Group
}

// NewContinuous spawns the buffer's worker and returns the running buffer.
func NewContinuous[P any](source Source[P], options ...Option) *Continuous[P] {
	cfg := newConfig(options...)

	var limiter *rate.Limiter
	if cfg.interval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.interval), 1)
	}

	ctx_, stop := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx_)

	b := &Continuous[P]{
		updater: updater[P]{
			cfg:    cfg,
			source: source,
		},
		limiter: limiter,
		ctx:     ctx,
		stop:    stop,
		group:   group,
	}

	b.group.Go(b.worker)

	return b
}

// Updating reports true for the buffer's whole lifetime, since the worker is
// constantly updating. It turns false only once Close has been called.
func (b *Continuous[P]) Updating() bool {
	return !b.closing.Load()
}

// Read returns a copy of the most recently completed payload. It never
// blocks. ok is false until the first update completes.
func (b *Continuous[P]) Read() (p P, ok bool) {
	return b.data.read()
}

// Close cancels the worker and waits for it to fully exit. A second call
// returns [ErrClosed].
func (b *Continuous[P]) Close() error {
	if b.closing.Swap(true) {
		return ErrClosed
	}

	b.stop()
	if err := b.group.Wait(); err != nil {
		return fmt.Errorf("worker: %w", err)
	}

	return nil
}

func (b *Continuous[P]) worker() error {
	for {
		if b.limiter != nil {
			// The next iteration starts no sooner than the configured
			// interval after the previous one began.
			if err := b.limiter.Wait(b.ctx); err != nil {
				return nil
			}
		} else {
			select {
			case <-b.ctx.Done():
				return nil
			default:
			}
		}

		b.update(b.ctx)
	}
}
