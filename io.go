package asyncbuf

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// IO is a pipelined input/output buffer over a [Transform].
//
// Callers provide input packets and drain output packets at rates fully
// decoupled from the worker, which consumes a fresh input, runs the
// transform, publishes the output and loops. The input and output slots have
// independent locks: a caller providing input is never blocked by a caller
// draining output, and vice versa.
//
// The pipeline has depth 1: at most one input and one output packet are in
// flight inside the buffer. Providing a second input before the worker
// consumes the first silently discards the first (last-write-wins). Slot
// contents are moved, never
// duplicated: a consumed slot is left zeroed and not fresh.
type IO[In, Out any] struct {
	cfg       *config
	transform Transform[In, Out]

	updating atomic.Bool
	closing  atomic.Bool
	wake     chan struct{}
	in       slot[In]
	out      slot[Out]

	ctx   context.Context
	stop  func()
	group *errgroup.Group
}

// NewIO spawns the buffer's worker and returns the running buffer.
func NewIO[In, Out any](transform Transform[In, Out], options ...Option) *IO[In, Out] {
	cfg := newConfig(options...)

	ctx_, stop := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx_)

	b := &IO[In, Out]{
		cfg:       cfg,
		transform: transform,
		wake:      make(chan struct{}, 1),
		ctx:       ctx,
		stop:      stop,
		group:     group,
	}

	b.group.Go(b.worker)

	return b
}

// Provide hands ownership of in to the buffer and wakes the worker. It never
// blocks. If the worker has not yet consumed the previous input, that input
// is discarded (last-write-wins).
func (b *IO[In, Out]) Provide(in In) {
	if b.closing.Load() {
		return
	}

	if dropped := b.in.store(in); dropped {
		b.cfg.metrics.inputDropped()
	}

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// InputPending reports whether the current input packet has not yet been
// consumed by the worker, so callers can tell a pending Provide would
// overwrite it.
func (b *IO[In, Out]) InputPending() bool {
	return b.in.pending()
}

// OutputReady reports whether the output slot holds a packet not yet taken
// by a caller.
func (b *IO[In, Out]) OutputReady() bool {
	return b.out.pending()
}

// Take moves the output packet out of the buffer, if a new one is available,
// and marks the slot drained. ok is false when there is no new output; the
// buffer state is unchanged then.
func (b *IO[In, Out]) Take() (out Out, ok bool) {
	out, ok = b.out.take()
	if ok {
		b.cfg.metrics.outputTaken()
	}
	return out, ok
}

// Updating reports whether the worker is between consuming an input packet
// and publishing the matching output.
func (b *IO[In, Out]) Updating() bool {
	return b.updating.Load()
}

// Close cancels the worker and waits for it to fully exit, even if a
// transform is in flight. A second call returns [ErrClosed].
func (b *IO[In, Out]) Close() error {
	if b.closing.Swap(true) {
		return ErrClosed
	}

	b.stop()
	if err := b.group.Wait(); err != nil {
		return fmt.Errorf("worker: %w", err)
	}

	return nil
}

func (b *IO[In, Out]) worker() error {
	for {
		select {
		case <-b.ctx.Done():
			return nil
		case <-b.wake:
		}

		in, ok := b.in.take()
		if !ok {
			// Stale wakeup: the matching input was already consumed.
			continue
		}

		b.updating.Store(true)
		b.process(in)
		b.updating.Store(false)
	}
}

// process runs one transform cycle, retrying per the configured policy. A
// cycle that exhausts its attempts leaves the previous output in place; the
// consumed input is not re-queued.
func (b *IO[In, Out]) process(in In) {
	var (
		attempt = b.cfg.retryPolicy.Derive()
		started = time.Now()
	)

	for n := 1; attempt.Attempt(b.ctx); n++ {
		out, err := b.transform.Process(b.ctx, in)
		if err == nil {
			b.out.store(out)
			b.cfg.metrics.update("ok", time.Since(started))
			return
		}
		b.cfg.logger.Warn("transform failed",
			zap.Error(err),
			zap.Int("attempt", n),
		)
	}

	if b.ctx.Err() != nil {
		return
	}

	b.cfg.metrics.update("error", time.Since(started))
}
