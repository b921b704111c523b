package application

import (
	"sync"
	"time"
)

// SleepTimer manages a single countdown that fires a callback when it
// expires. Exactly one timer can be running; starting a new one cancels the
// previous one first. Remaining time is recomputed from the absolute end
// time on every tick so delayed ticks cannot skew the countdown.
type SleepTimer struct {
	notifier Notifier

	// now and tick are swappable for tests.
	now  func() time.Time
	tick time.Duration

	mu        sync.Mutex
	active    bool
	endTime   time.Time
	remaining int
	warned    bool
	onTimeout func()
	stop      chan struct{}
}

// NewSleepTimer creates an idle timer ticking once per second.
func NewSleepTimer(notifier Notifier) *SleepTimer {
	return &SleepTimer{
		notifier: notifier,
		now:      time.Now,
		tick:     time.Second,
	}
}

// Start begins a countdown of the given number of minutes, cancelling any
// running timer first. onTimeout is invoked exactly once when the countdown
// reaches zero, unless Cancel or Stop intervenes.
func (t *SleepTimer) Start(minutes int, onTimeout func()) {
	t.mu.Lock()
	t.stopLocked()

	t.active = true
	t.endTime = t.now().Add(time.Duration(minutes) * time.Minute)
	t.remaining = minutes * 60
	t.warned = false
	t.onTimeout = onTimeout
	stop := make(chan struct{})
	t.stop = stop
	t.mu.Unlock()

	go t.run(stop)
}

func (t *SleepTimer) run(stop chan struct{}) {
	ticker := time.NewTicker(t.tick)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if t.onTick() {
				return
			}
		}
	}
}

// onTick recomputes the remaining seconds and fires the warning and terminal
// transitions. Returns true once the timer has reached zero.
func (t *SleepTimer) onTick() bool {
	t.mu.Lock()
	if !t.active {
		t.mu.Unlock()
		return true
	}

	d := t.endTime.Sub(t.now())
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 0 {
		secs = 0
	}
	t.remaining = secs

	if secs > 0 && secs <= 60 && !t.warned {
		t.warned = true
		t.mu.Unlock()
		t.notifier.Notify(NotifyLow, "Sleep timer: 1 minute remaining")
		return false
	}

	if secs <= 0 {
		t.active = false
		t.remaining = 0
		onTimeout := t.onTimeout
		t.onTimeout = nil
		close(t.stop)
		t.stop = nil
		t.mu.Unlock()

		if onTimeout != nil {
			onTimeout()
		}
		t.notifier.Notify(NotifyInfo, "Sleep timer ended")
		return true
	}

	t.mu.Unlock()
	return false
}

// Cancel stops a running countdown without invoking its callback and
// surfaces a cancellation notification. Cancelling an idle timer is a no-op.
func (t *SleepTimer) Cancel() {
	t.mu.Lock()
	wasActive := t.active
	t.stopLocked()
	t.mu.Unlock()

	if wasActive {
		t.notifier.Notify(NotifyInfo, "Sleep timer cancelled")
	}
}

// Stop tears the timer down silently. Safe to call on shutdown regardless of
// state.
func (t *SleepTimer) Stop() {
	t.mu.Lock()
	t.stopLocked()
	t.mu.Unlock()
}

// stopLocked halts the tick loop and resets to idle. Caller holds t.mu.
func (t *SleepTimer) stopLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
	t.active = false
	t.remaining = 0
	t.warned = false
	t.onTimeout = nil
}

// Remaining returns the seconds left and whether a countdown is running.
func (t *SleepTimer) Remaining() (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining, t.active
}
