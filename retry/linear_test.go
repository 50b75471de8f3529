package retry_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/velsh/asyncbuf/retry"
)

func TestLinear(t *testing.T) {
	run(t, "With infinite attempts", func(t *testing.T) {
		p := retry.Linear(0, time.Second, time.Minute)
		require.NotNil(t, p)
	})

	run(t, "With finite attempts", func(t *testing.T) {
		p := retry.Linear(5, time.Second, time.Minute)
		require.NotNil(t, p)
	})

	run(t, "With invalid attempts", func(t *testing.T) {
		require.PanicsWithValue(t, "attempts can't be < 0", func() {
			_ = retry.Linear(-1, time.Second, time.Minute)
		})
	})

	run(t, "With invalid minInterval", func(t *testing.T) {
		require.PanicsWithValue(t, "minInterval can't be <= 0", func() {
			_ = retry.Linear(0, 0, time.Minute)
		})
		require.PanicsWithValue(t, "minInterval can't be >= maxInterval", func() {
			_ = retry.Linear(0, time.Minute, time.Second)
		})
	})

	run(t, "With invalid step", func(t *testing.T) {
		require.PanicsWithValue(t, "step can't be <= 0", func() {
			_ = retry.Linear(0, time.Second, time.Minute).WithStep(0)
		})
	})
}

func TestLinearAttempt(t *testing.T) {
	run(t, "Finite attempts", func(t *testing.T) {
		// 4 attempts from 1s to 3s: steps of 1s between the waits.
		p := retry.Linear(4, time.Second, 3*time.Second).WithJitter(0)
		f := delayFunc(t, 0)
		f(0, func() { require.True(t, p.Attempt(t.Context())) })
		f(time.Second, func() { require.True(t, p.Attempt(t.Context())) })
		f(2*time.Second, func() { require.True(t, p.Attempt(t.Context())) })
		f(3*time.Second, func() { require.True(t, p.Attempt(t.Context())) })
		f(0, func() { require.False(t, p.Attempt(t.Context())) })
	})

	run(t, "Infinite attempts cap at maxInterval", func(t *testing.T) {
		p := retry.Linear(0, time.Second, 3*time.Second).WithJitter(0)
		f := delayFunc(t, 0)
		f(0, func() { require.True(t, p.Attempt(t.Context())) })
		f(time.Second, func() { require.True(t, p.Attempt(t.Context())) })
		f(2*time.Second, func() { require.True(t, p.Attempt(t.Context())) })
		f(3*time.Second, func() { require.True(t, p.Attempt(t.Context())) })
		for range 10 {
			f(3*time.Second, func() { require.True(t, p.Attempt(t.Context())) })
		}
	})

	run(t, "Custom step", func(t *testing.T) {
		p := retry.Linear(0, time.Second, 10*time.Second).
			WithStep(2 * time.Second).
			WithJitter(0)
		f := delayFunc(t, 0)
		f(0, func() { require.True(t, p.Attempt(t.Context())) })
		f(time.Second, func() { require.True(t, p.Attempt(t.Context())) })
		f(3*time.Second, func() { require.True(t, p.Attempt(t.Context())) })
		f(5*time.Second, func() { require.True(t, p.Attempt(t.Context())) })
	})
}
