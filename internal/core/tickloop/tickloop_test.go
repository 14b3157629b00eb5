package tickloop

import (
	"context"
	"testing"
	"time"

	"popuptimer/internal/core/stopwatch"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 2 * time.Second

func subscribe(watch *stopwatch.Stopwatch) <-chan stopwatch.TickEvent {
	events := make(chan stopwatch.TickEvent, 16)
	watch.Subscribe(func(event stopwatch.TickEvent) {
		events <- event
	})
	return events
}

func receive(t *testing.T, events <-chan stopwatch.TickEvent) stopwatch.TickEvent {
	t.Helper()
	select {
	case event := <-events:
		return event
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for tick event")
		return stopwatch.TickEvent{}
	}
}

func runLoop(t *testing.T, loop *Loop) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := loop.Start(ctx)
	t.Cleanup(cancel)
	return cancel, done
}

func TestLoopAdvancesRunningStopwatchEverySecond(t *testing.T) {
	clock := clockwork.NewFakeClock()
	watch := stopwatch.New()
	watch.Toggle()
	events := subscribe(watch)

	loop := New(watch, WithClock(clock))
	runLoop(t, loop)

	for want := 1; want <= 3; want++ {
		clock.BlockUntil(1)
		clock.Advance(time.Second)
		event := receive(t, events)
		assert.Equal(t, want, event.ElapsedSeconds)
	}
	assert.Equal(t, 3, watch.Snapshot().ElapsedSeconds)
}

func TestLoopSkipsStoppedStopwatch(t *testing.T) {
	clock := clockwork.NewFakeClock()
	watch := stopwatch.New()
	events := subscribe(watch)

	loop := New(watch, WithClock(clock))
	runLoop(t, loop)

	clock.BlockUntil(1)
	clock.Advance(time.Second)
	clock.BlockUntil(1)

	assert.Equal(t, uint64(1), loop.Ticks())
	assert.Equal(t, 0, watch.Snapshot().ElapsedSeconds)
	assert.Empty(t, events)
}

func TestLoopMeasuresEachWaitFromPreviousTick(t *testing.T) {
	clock := clockwork.NewFakeClock()
	watch := stopwatch.New()
	watch.Toggle()
	events := subscribe(watch)

	loop := New(watch, WithClock(clock))
	runLoop(t, loop)

	clock.BlockUntil(1)
	clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, 1, receive(t, events).ElapsedSeconds)

	clock.BlockUntil(1)
	clock.Advance(500 * time.Millisecond)
	clock.BlockUntil(1)
	assert.Equal(t, uint64(1), loop.Ticks())
	assert.Empty(t, events)

	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, 2, receive(t, events).ElapsedSeconds)
}

func TestLoopHonoursInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	watch := stopwatch.New()
	watch.Toggle()
	events := subscribe(watch)

	loop := New(watch, WithClock(clock), WithInterval(250*time.Millisecond))
	assert.Equal(t, 250*time.Millisecond, loop.Interval())
	runLoop(t, loop)

	clock.BlockUntil(1)
	clock.Advance(250 * time.Millisecond)
	assert.Equal(t, 1, receive(t, events).ElapsedSeconds)
}

func TestNewIgnoresInvalidOptions(t *testing.T) {
	loop := New(stopwatch.New(), WithInterval(0), WithClock(nil), WithLogger(nil))
	assert.Equal(t, time.Second, loop.Interval())
	assert.NotNil(t, loop.clock)
	assert.NotNil(t, loop.logger)
}

func TestRunReturnsWhenContextCancelled(t *testing.T) {
	clock := clockwork.NewFakeClock()
	loop := New(stopwatch.New(), WithClock(clock))
	cancel, done := runLoop(t, loop)

	clock.BlockUntil(1)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(waitTimeout):
		t.Fatal("loop did not stop")
	}
}

type panickingAdvancer struct{}

func (panickingAdvancer) Advance() (stopwatch.TickEvent, bool) {
	panic("subscriber exploded")
}

func TestRunStopsOnPanicWithoutCrashing(t *testing.T) {
	clock := clockwork.NewFakeClock()
	logger, hook := logtest.NewNullLogger()

	loop := New(panickingAdvancer{}, WithClock(clock), WithLogger(logger))
	_, done := runLoop(t, loop)

	clock.BlockUntil(1)
	clock.Advance(time.Second)

	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrLoopFailed)
		assert.Contains(t, err.Error(), "subscriber exploded")
	case <-time.After(waitTimeout):
		t.Fatal("loop did not report failure")
	}

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "tick loop stopped", entry.Message)
}
