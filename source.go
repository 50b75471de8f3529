package asyncbuf

import "context"

// Source produces packets for a [Cache] or [Continuous] buffer.
//
// Packet is called by the buffer's worker with no locks held, so it may take
// arbitrarily long. The context is canceled when the buffer closes; a Source
// doing slow I/O should honor it. An error leaves the previously cached
// payload in place and the worker keeps running.
type Source[P any] interface {
	Packet(ctx context.Context) (P, error)
}

// SourceFunc adapts a plain function to the [Source] interface.
type SourceFunc[P any] func(ctx context.Context) (P, error)

func (f SourceFunc[P]) Packet(ctx context.Context) (P, error) {
	return f(ctx)
}

// Transform consumes an input packet and produces an output packet for an
// [IO] buffer. The same calling rules as [Source] apply.
type Transform[In, Out any] interface {
	Process(ctx context.Context, in In) (Out, error)
}

// TransformFunc adapts a plain function to the [Transform] interface.
type TransformFunc[In, Out any] func(ctx context.Context, in In) (Out, error)

func (f TransformFunc[In, Out]) Process(ctx context.Context, in In) (Out, error) {
	return f(ctx, in)
}

// Cloner is implemented by packet types whose plain value copy would alias
// shared references (slices, maps, pointers). When a packet implements it,
// reads return Clone() instead of a value copy, so the buffer's internal
// payload is never exposed by reference.
type Cloner[P any] interface {
	Clone() P
}
