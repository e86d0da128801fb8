package idle

import (
	"sync"
	"time"
)

// Monitor forces a logout after a fixed period without user activity.
// Touch restarts the countdown; on expiry the callback runs exactly once.
// Only live while the owning session is authenticated; Stop tears it down.
type Monitor struct {
	mu      sync.Mutex
	budget  time.Duration
	timer   *time.Timer
	expired bool
	stopped bool
	onIdle  func()
}

// NewMonitor starts the countdown immediately.
func NewMonitor(budget time.Duration, onIdle func()) *Monitor {
	m := &Monitor{budget: budget, onIdle: onIdle}
	m.timer = time.AfterFunc(budget, m.expire)
	return m
}

// Touch resets the countdown to the full budget from this moment.
// A no-op once expired or stopped.
func (m *Monitor) Touch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.expired || m.stopped {
		return
	}
	m.timer.Reset(m.budget)
}

// Stop cancels the countdown without firing the callback. Idempotent.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	m.timer.Stop()
}

func (m *Monitor) expire() {
	m.mu.Lock()
	if m.expired || m.stopped {
		m.mu.Unlock()
		return
	}
	m.expired = true
	m.mu.Unlock()

	m.onIdle()
}
