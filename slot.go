package asyncbuf

import "sync"

// slot is a single-value hand-off cell. Each slot has its own lock, so
// callers touching one slot are never blocked by callers touching another.
type slot[P any] struct {
	mu    sync.Mutex
	val   P
	seq   uint64 // completed writes
	fresh bool   // written and not yet consumed by the designated reader
}

// store publishes v and marks the slot fresh. Reports whether an unconsumed
// previous value was overwritten.
func (s *slot[P]) store(v P) (dropped bool) {
	s.mu.Lock()
	dropped = s.fresh
	s.val = v
	s.seq++
	s.fresh = true
	s.mu.Unlock()
	return dropped
}

// read returns a copy of the value without consuming it. ok is false until
// the first store.
func (s *slot[P]) read() (v P, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq == 0 {
		return v, false
	}
	return clonePacket(s.val), true
}

// take moves the value out, leaving a drained zero value behind. ok is false
// if the slot holds nothing fresh; the slot is left untouched then.
func (s *slot[P]) take() (v P, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.fresh {
		return v, false
	}
	v = s.val
	var zero P
	s.val = zero
	s.fresh = false
	return v, true
}

// pending reports whether the slot holds an unconsumed value.
func (s *slot[P]) pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fresh
}

func clonePacket[P any](v P) P {
	if c, ok := any(v).(Cloner[P]); ok {
		return c.Clone()
	}
	return v
}
