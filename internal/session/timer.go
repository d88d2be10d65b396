package session

import (
	"sync"
	"time"
)

// Timer counts down from an initial duration at one-second granularity and
// fires the expiry callback exactly once when it reaches zero. There is no
// pause: once started the timer runs until expiry or Stop. Stopping before
// expiry suppresses the callback.
type Timer struct {
	mu        sync.Mutex
	remaining int
	interval  time.Duration
	onExpire  func()
	stopCh    chan struct{}
	started   bool
	done      bool
}

// NewTimer creates a timer for durationSeconds with a one-second tick.
func NewTimer(durationSeconds int, onExpire func()) *Timer {
	return newTimer(durationSeconds, time.Second, onExpire)
}

// newTimer allows a shortened tick interval in tests.
func newTimer(durationSeconds int, interval time.Duration, onExpire func()) *Timer {
	return &Timer{
		remaining: durationSeconds,
		interval:  interval,
		onExpire:  onExpire,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the countdown. Calling Start more than once is a no-op.
func (t *Timer) Start() {
	t.mu.Lock()
	if t.started || t.done {
		t.mu.Unlock()
		return
	}
	t.started = true
	t.mu.Unlock()

	go t.run()
}

func (t *Timer) run() {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopCh:
			return
		case <-ticker.C:
			if t.tick() {
				return
			}
		}
	}
}

// tick decrements the remaining time and reports whether the timer finished.
func (t *Timer) tick() bool {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return true
	}
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining > 0 {
		t.mu.Unlock()
		return false
	}
	t.done = true
	onExpire := t.onExpire
	t.mu.Unlock()

	if onExpire != nil {
		onExpire()
	}
	return true
}

// Stop cancels the countdown and suppresses the expiry callback. Idempotent,
// and safe to call after expiry.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return
	}
	t.done = true
	close(t.stopCh)
}

// Remaining returns the seconds left, floored at zero.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.remaining < 0 {
		return 0
	}
	return t.remaining
}
