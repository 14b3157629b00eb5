package tickloop

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"popuptimer/internal/core/stopwatch"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// ErrLoopFailed reports that an iteration panicked and the loop gave up.
var ErrLoopFailed = errors.New("tick loop failed")

// Advancer is the state the loop drives once per interval.
type Advancer interface {
	Advance() (stopwatch.TickEvent, bool)
}

// Option configures a Loop.
type Option func(*Loop)

// WithInterval overrides the one second cadence.
func WithInterval(interval time.Duration) Option {
	return func(loop *Loop) {
		if interval > 0 {
			loop.interval = interval
		}
	}
}

// WithClock injects the time source.
func WithClock(clock clockwork.Clock) Option {
	return func(loop *Loop) {
		if clock != nil {
			loop.clock = clock
		}
	}
}

// WithLogger sets the logger used for loop failures.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(loop *Loop) {
		if logger != nil {
			loop.logger = logger
		}
	}
}

// Loop advances its target once per interval for the life of the process.
//
// Each wait starts when the previous one ended, so small scheduling delays
// accumulate instead of being corrected against a fixed epoch.
type Loop struct {
	target   Advancer
	interval time.Duration
	clock    clockwork.Clock
	logger   logrus.FieldLogger
	ticks    atomic.Uint64
}

// New creates a loop driving target.
func New(target Advancer, opts ...Option) *Loop {
	loop := &Loop{
		target:   target,
		interval: time.Second,
		clock:    clockwork.NewRealClock(),
		logger:   logrus.StandardLogger().WithField("component", "tickloop"),
	}
	for _, opt := range opts {
		opt(loop)
	}
	return loop
}

// Interval returns the configured wait between ticks.
func (loop *Loop) Interval() time.Duration {
	return loop.interval
}

// Ticks returns how many waits have completed.
func (loop *Loop) Ticks() uint64 {
	return loop.ticks.Load()
}

// Start runs the loop on its own goroutine. The returned channel receives
// the result of Run once it returns.
func (loop *Loop) Start(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx)
	}()
	return done
}

// Run blocks, advancing the target after every interval, until ctx is done
// or an iteration panics.
func (loop *Loop) Run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			loop.logger.WithFields(logrus.Fields{
				"panic": recovered,
				"ticks": loop.ticks.Load(),
			}).Error("tick loop stopped")
			err = fmt.Errorf("%w: %v", ErrLoopFailed, recovered)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-loop.clock.After(loop.interval):
		}

		loop.ticks.Add(1)
		if event, ok := loop.target.Advance(); ok {
			loop.logger.WithField("elapsed", event.ElapsedSeconds).Debug("tick")
		}
	}
}
