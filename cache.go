package asyncbuf

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrClosed is returned by Close when the buffer has already been closed.
	ErrClosed = errors.New("buffer is closed")
)

// Cache is a demand-driven single-packet buffer over a [Source].
//
// A single worker goroutine, spawned by [NewCache], idles until [Cache.Trigger]
// is called, then runs one update cycle: it calls the source with no locks
// held and publishes the result into the cached payload. Callers read the
// latest completed payload with [Cache.Read] at any time without blocking.
//
// A Cache is started exactly once, at construction, and stopped exactly once,
// by [Cache.Close]. It cannot be restarted.
type Cache[P any] struct {
	updater[P]

	updating atomic.Bool
	closing  atomic.Bool
	wake     chan struct{}

	ctx   context.Context
	stop  func()
	group *errgroup.Group
}

// NewCache spawns the buffer's worker and returns the running buffer.
func NewCache[P any](source Source[P], options ...Option) *Cache[P] {
	cfg := newConfig(options...)

	ctx_, stop := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx_)

	b := &Cache[P]{
		updater: updater[P]{
			cfg:    cfg,
			source: source,
		},
		wake:  make(chan struct{}, 1),
		ctx:   ctx,
		stop:  stop,
		group: group,
	}

	b.group.Go(b.worker)

	return b
}

// Trigger requests one update cycle. If an update is already in flight the
// call is a no-op: the pending update is left to finish and no second one is
// queued. Trigger never blocks and does not report whether it started an
// update.
func (b *Cache[P]) Trigger() {
	if b.closing.Load() {
		return
	}

	if !b.updating.CompareAndSwap(false, true) {
		b.cfg.metrics.trigger("coalesced")
		return
	}
	b.cfg.metrics.trigger("started")

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Updating reports whether an update cycle is in flight. It never blocks and
// has no side effects.
func (b *Cache[P]) Updating() bool {
	return b.updating.Load()
}

// Read returns a copy of the most recently completed payload. It never
// blocks: callers reading mid-update receive the previous, stale but
// consistent, value. ok is false until the first update completes.
func (b *Cache[P]) Read() (p P, ok bool) {
	return b.data.read()
}

// Close cancels the worker and waits for it to fully exit, even if an update
// is in flight. A second call returns [ErrClosed].
func (b *Cache[P]) Close() error {
	if b.closing.Swap(true) {
		return ErrClosed
	}

	b.stop()
	if err := b.group.Wait(); err != nil {
		return fmt.Errorf("worker: %w", err)
	}

	return nil
}

func (b *Cache[P]) worker() error {
	for {
		select {
		case <-b.ctx.Done():
			return nil
		case <-b.wake:
		}

		// Guard against a stale wakeup: only proceed on an armed trigger.
		if !b.updating.Load() {
			continue
		}

		b.update(b.ctx)

		// The payload write above happens before this store, so a caller
		// that observes Updating() == false sees the completed update.
		b.updating.Store(false)
	}
}

// updater holds the parts shared by the demand-driven and continuous cache
// variants: the source, the payload slot and the update cycle feeding the
// latter from the former.
type updater[P any] struct {
	cfg    *config
	source Source[P]
	data   slot[P]
}

// update runs one cycle: call the source, retrying per the configured
// policy, and publish the result. A cycle that exhausts its attempts leaves
// the previous payload in place.
func (u *updater[P]) update(ctx context.Context) {
	var (
		attempt = u.cfg.retryPolicy.Derive()
		started = time.Now()
	)

	for n := 1; attempt.Attempt(ctx); n++ {
		pkt, err := u.source.Packet(ctx)
		if err == nil {
			u.data.store(pkt)
			u.cfg.metrics.update("ok", time.Since(started))
			return
		}
		u.cfg.logger.Warn("packet update failed",
			zap.Error(err),
			zap.Int("attempt", n),
		)
	}

	if ctx.Err() != nil {
		// Teardown, not a failed update.
		return
	}

	u.cfg.metrics.update("error", time.Since(started))
}
