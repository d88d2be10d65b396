package session

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerFiresExactlyOnce(t *testing.T) {
	var fired int32
	timer := newTimer(5, 2*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})
	timer.Start()

	// Before the countdown completes nothing must fire.
	time.Sleep(4 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))

	// Well past expiry: exactly one signal, never more.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
	assert.Equal(t, 0, timer.Remaining())
}

func TestTimerStopSuppressesExpiry(t *testing.T) {
	var fired int32
	timer := newTimer(3, 2*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})
	timer.Start()
	timer.Stop()

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
}

func TestTimerStopIdempotent(t *testing.T) {
	timer := newTimer(3, time.Millisecond, nil)
	timer.Start()
	timer.Stop()
	assert.NotPanics(t, func() {
		timer.Stop()
		timer.Stop()
	})
}

func TestTimerStopAfterExpiry(t *testing.T) {
	var fired int32
	timer := newTimer(1, time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})
	timer.Start()
	time.Sleep(20 * time.Millisecond)

	assert.NotPanics(t, timer.Stop)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
}

func TestTimerRemainingDecreases(t *testing.T) {
	timer := newTimer(100, 2*time.Millisecond, nil)
	timer.Start()
	defer timer.Stop()

	time.Sleep(10 * time.Millisecond)
	remaining := timer.Remaining()
	assert.Less(t, remaining, 100)
	assert.Greater(t, remaining, 0)
}
