package stopwatch

import (
	"sync"
	"time"
)

// Stopwatch holds the elapsed counter and the running flag.
//
// Toggle, Reset and Advance are mutually exclusive. Each one notifies
// subscribers before the next mutation may start, so every subscriber sees
// events in the order the mutations happened.
type Stopwatch struct {
	// emitMu serializes mutation plus notification. mu guards the fields
	// and is released before handlers run so they may call Snapshot.
	emitMu sync.Mutex
	mu     sync.Mutex

	elapsed  int
	running  bool
	handlers []*Subscription
	now      func() time.Time
}

// Subscription is returned by Subscribe. Cancel stops delivery.
type Subscription struct {
	owner   *Stopwatch
	handler Handler
}

// New creates a stopped stopwatch at zero.
func New() *Stopwatch {
	return &Stopwatch{now: time.Now}
}

// Subscribe registers a handler for every event emitted from now on.
// Handlers run synchronously on the goroutine that caused the change and
// must not call Toggle, Reset or Advance themselves.
func (watch *Stopwatch) Subscribe(handler Handler) *Subscription {
	subscription := &Subscription{owner: watch, handler: handler}
	watch.mu.Lock()
	watch.handlers = append(watch.handlers, subscription)
	watch.mu.Unlock()
	return subscription
}

// Cancel unregisters the subscription. Calling it twice is harmless.
func (subscription *Subscription) Cancel() {
	if subscription == nil || subscription.owner == nil {
		return
	}
	watch := subscription.owner
	watch.mu.Lock()
	defer watch.mu.Unlock()
	for index, current := range watch.handlers {
		if current == subscription {
			watch.handlers = append(watch.handlers[:index:index], watch.handlers[index+1:]...)
			return
		}
	}
}

// Snapshot returns the current state.
func (watch *Stopwatch) Snapshot() State {
	watch.mu.Lock()
	defer watch.mu.Unlock()
	return State{ElapsedSeconds: watch.elapsed, Running: watch.running}
}

// Toggle flips the running flag. It always emits, even though the count is
// unchanged, so views can redraw the Play/Pause control.
func (watch *Stopwatch) Toggle() TickEvent {
	watch.emitMu.Lock()
	defer watch.emitMu.Unlock()

	watch.mu.Lock()
	watch.running = !watch.running
	event, handlers := watch.eventLocked()
	watch.mu.Unlock()

	deliver(handlers, event)
	return event
}

// Reset stops the stopwatch and sets the count back to zero.
func (watch *Stopwatch) Reset() TickEvent {
	watch.emitMu.Lock()
	defer watch.emitMu.Unlock()

	watch.mu.Lock()
	watch.elapsed = 0
	watch.running = false
	event, handlers := watch.eventLocked()
	watch.mu.Unlock()

	deliver(handlers, event)
	return event
}

// Advance adds one second when running. When stopped nothing changes,
// nothing is emitted and ok is false.
func (watch *Stopwatch) Advance() (event TickEvent, ok bool) {
	watch.emitMu.Lock()
	defer watch.emitMu.Unlock()

	watch.mu.Lock()
	if !watch.running {
		watch.mu.Unlock()
		return TickEvent{}, false
	}
	watch.elapsed++
	event, handlers := watch.eventLocked()
	watch.mu.Unlock()

	deliver(handlers, event)
	return event, true
}

func (watch *Stopwatch) eventLocked() (TickEvent, []*Subscription) {
	event := TickEvent{
		ElapsedSeconds: watch.elapsed,
		Running:        watch.running,
		At:             watch.now(),
	}
	return event, append([]*Subscription(nil), watch.handlers...)
}

func deliver(handlers []*Subscription, event TickEvent) {
	for _, subscription := range handlers {
		if subscription.handler != nil {
			subscription.handler(event)
		}
	}
}
