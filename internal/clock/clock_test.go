package clock_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/warlord/internal/clock"
)

func runFor(t *testing.T, c *clock.DayClock, until func() bool) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- c.Start() }()
	require.Eventually(t, until, 2*time.Second, 5*time.Millisecond)
	c.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("clock did not stop")
	}
}

func TestDayClock_TicksAreSerialized(t *testing.T) {
	var inFlight, maxInFlight, days atomic.Int32
	tick := func(ctx context.Context) error {
		n := inFlight.Add(1)
		if n > maxInFlight.Load() {
			maxInFlight.Store(n)
		}
		time.Sleep(3 * time.Millisecond)
		inFlight.Add(-1)
		days.Add(1)
		return nil
	}
	c := clock.New(time.Millisecond, tick, zaptest.NewLogger(t))

	runFor(t, c, func() bool { return days.Load() >= 5 })
	assert.Equal(t, int32(1), maxInFlight.Load())
	assert.GreaterOrEqual(t, c.Ticks(), int64(5))
	assert.Zero(t, c.Failures())
}

func TestDayClock_FailuresDoNotStopTheClock(t *testing.T) {
	var calls atomic.Int32
	tick := func(ctx context.Context) error {
		if calls.Add(1)%2 == 1 {
			return errors.New("save failed")
		}
		return nil
	}
	c := clock.New(2*time.Millisecond, tick, nil)

	runFor(t, c, func() bool { return calls.Load() >= 4 })
	assert.GreaterOrEqual(t, c.Failures(), int64(2))
}

func TestDayClock_StopIsIdempotent(t *testing.T) {
	c := clock.New(time.Hour, func(context.Context) error { return nil }, nil)
	c.Stop()
	c.Stop()
	assert.NoError(t, c.Start())
	assert.Zero(t, c.Ticks())
}

func TestNew_Preconditions(t *testing.T) {
	assert.Panics(t, func() { clock.New(0, func(context.Context) error { return nil }, nil) })
	assert.Panics(t, func() { clock.New(time.Second, nil, nil) })
}
