package application

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is an advanceable clock for timer tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestTimer(notifier Notifier) (*SleepTimer, *fakeClock) {
	clock := newFakeClock()
	timer := NewSleepTimer(notifier)
	timer.now = clock.Now
	timer.tick = time.Millisecond
	return timer, clock
}

func TestSleepTimerCountsDownAndFiresOnce(t *testing.T) {
	notifier := &spyNotifier{}
	timer, clock := newTestTimer(notifier)
	defer timer.Stop()

	var fired atomic.Int32
	timer.Start(5, func() { fired.Add(1) })

	remaining, active := timer.Remaining()
	require.True(t, active)
	assert.Equal(t, 5*60, remaining)

	clock.Advance(2 * time.Minute)
	assert.Eventually(t, func() bool {
		r, a := timer.Remaining()
		return a && r == 3*60
	}, time.Second, time.Millisecond, "remaining recomputed from absolute end time")

	clock.Advance(3 * time.Minute)
	assert.Eventually(t, func() bool {
		_, a := timer.Remaining()
		return !a
	}, time.Second, time.Millisecond)

	// Callback fires exactly once even though ticks continue briefly.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestSleepTimerWarningIsEdgeTriggered(t *testing.T) {
	notifier := &spyNotifier{}
	timer, clock := newTestTimer(notifier)
	defer timer.Stop()

	timer.Start(2, func() {})

	clock.Advance(time.Minute)
	assert.Eventually(t, func() bool {
		return notifier.count() == 1
	}, time.Second, time.Millisecond, "one warning when remaining first reaches 60")

	// Stays at one while remaining hovers near 60.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, notifier.count())
}

func TestSleepTimerOneMinuteWarnsAndExpires(t *testing.T) {
	notifier := &spyNotifier{}
	timer, clock := newTestTimer(notifier)
	defer timer.Stop()

	done := make(chan struct{})
	timer.Start(1, func() { close(done) })

	assert.Eventually(t, func() bool {
		return notifier.count() == 1
	}, time.Second, time.Millisecond, "1 minute remaining fires immediately for a one-minute timer")

	clock.Advance(61 * time.Second)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("onTimeout not invoked")
	}
}

func TestSleepTimerCancelSuppressesCallback(t *testing.T) {
	notifier := &spyNotifier{}
	timer, clock := newTestTimer(notifier)
	defer timer.Stop()

	var fired atomic.Int32
	timer.Start(1, func() { fired.Add(1) })
	timer.Cancel()

	_, active := timer.Remaining()
	assert.False(t, active)

	clock.Advance(2 * time.Minute)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestSleepTimerStartCancelsPrevious(t *testing.T) {
	notifier := &spyNotifier{}
	timer, clock := newTestTimer(notifier)
	defer timer.Stop()

	var firstFired atomic.Int32
	timer.Start(1, func() { firstFired.Add(1) })
	timer.Start(10, func() {})

	remaining, active := timer.Remaining()
	require.True(t, active)
	assert.Equal(t, 10*60, remaining)

	clock.Advance(2 * time.Minute)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), firstFired.Load(), "replaced timer must not fire")
}
