// Package clock drives the simulation forward one day per interval.
package clock

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// TickFunc advances the simulation one day. Errors are logged and the clock
// keeps running.
type TickFunc func(ctx context.Context) error

// DayClock calls its TickFunc once per interval from a single goroutine, so
// ticks never overlap.
//
// Invariant: a tick begins only after the previous one has returned.
type DayClock struct {
	interval time.Duration
	tick     TickFunc
	logger   *zap.Logger

	ticks    atomic.Int64
	failures atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// New returns a stopped DayClock.
//
// Precondition: interval > 0; tick must not be nil.
func New(interval time.Duration, tick TickFunc, logger *zap.Logger) *DayClock {
	if interval <= 0 {
		panic("clock.New: interval must be > 0")
	}
	if tick == nil {
		panic("clock.New: tick must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &DayClock{interval: interval, tick: tick, logger: logger, ctx: ctx, cancel: cancel}
}

// Start runs the tick loop until Stop is called.
func (c *DayClock) Start() error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	c.logger.Info("day clock started", zap.Duration("interval", c.interval))
	for {
		select {
		case <-c.ctx.Done():
			return nil
		case <-ticker.C:
			began := time.Now()
			err := c.tick(c.ctx)
			c.ticks.Add(1)
			if err != nil {
				c.failures.Add(1)
				c.logger.Error("day tick failed", zap.Error(err))
				continue
			}
			c.logger.Debug("day tick", zap.Duration("elapsed", time.Since(began)))
		}
	}
}

// Stop ends the tick loop. It is idempotent; an in-flight tick sees its
// context cancelled.
func (c *DayClock) Stop() {
	c.once.Do(c.cancel)
}

// Ticks returns how many ticks have run.
func (c *DayClock) Ticks() int64 { return c.ticks.Load() }

// Failures returns how many ticks returned an error.
func (c *DayClock) Failures() int64 { return c.failures.Load() }
