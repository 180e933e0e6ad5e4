package timer

import (
	"context"
	"sync"
	"time"
)

// pending represents a single armed wall-clock timer.
type pending struct {
	key    Key
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager is the wall-clock Scheduler.
// Thread-safe for concurrent scheduling and cancellation.
type Manager struct {
	mu     sync.Mutex
	timers map[Key]*pending
}

// NewManager creates an empty timer manager.
func NewManager() *Manager {
	return &Manager{
		timers: make(map[Key]*pending, 32),
	}
}

// Schedule arms fn to run after delay.
// If a timer with the same key already exists, it is cancelled first.
func (m *Manager) Schedule(key Key, delay time.Duration, fn func()) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &pending{
		key:    key,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	m.mu.Lock()
	old, replaced := m.timers[key]
	m.timers[key] = p
	m.mu.Unlock()

	if replaced {
		old.cancel()
	}

	go m.wait(ctx, p, delay, fn)
}

// wait blocks until the delay elapses or the timer is cancelled.
// The timer unregisters itself before running fn, so fn may call back into
// the manager (e.g. Cancel on its own key) without deadlocking.
func (m *Manager) wait(ctx context.Context, p *pending, delay time.Duration, fn func()) {
	defer close(p.done)

	t := time.NewTimer(delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return
	case <-t.C:
	}

	m.mu.Lock()
	current, ok := m.timers[p.key]
	fire := ok && current == p
	if fire {
		delete(m.timers, p.key)
	}
	m.mu.Unlock()

	if fire {
		fn()
	}
}

// Cancel stops a timer before it fires.
// Blocks until the timer goroutine has exited.
func (m *Manager) Cancel(key Key) bool {
	m.mu.Lock()
	p, ok := m.timers[key]
	if ok {
		delete(m.timers, key)
	}
	m.mu.Unlock()

	if ok {
		p.cancel()
		<-p.done
	}
	return ok
}

// Pending returns the number of active timers.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Shutdown cancels all active timers.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	all := make([]*pending, 0, len(m.timers))
	for _, p := range m.timers {
		all = append(all, p)
	}
	m.timers = make(map[Key]*pending)
	m.mu.Unlock()

	for _, p := range all {
		p.cancel()
		<-p.done
	}
}
