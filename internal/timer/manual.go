package timer

import (
	"sort"
	"sync"
	"time"
)

// manualTimer is a timer armed on a Manual clock.
type manualTimer struct {
	key Key
	at  time.Duration
	seq uint64
	fn  func()
}

// Manual is a Scheduler driven by a simulated clock.
// Nothing fires until Advance is called; due callbacks run on the goroutine
// calling Advance, in deadline order (scheduling order on equal deadlines).
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers map[Key]*manualTimer
}

// NewManual creates a simulated clock at time zero.
func NewManual() *Manual {
	return &Manual{timers: make(map[Key]*manualTimer, 16)}
}

// Now returns the simulated time elapsed since creation.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Schedule arms fn at now+delay, replacing a pending timer with the same key.
func (m *Manual) Schedule(key Key, delay time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	m.timers[key] = &manualTimer{key: key, at: m.now + delay, seq: m.seq, fn: fn}
}

// Cancel removes a pending timer.
func (m *Manual) Cancel(key Key) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.timers[key]; !ok {
		return false
	}
	delete(m.timers, key)
	return true
}

// Pending returns the number of armed timers.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Advance moves the clock forward by d, firing every timer that falls due.
// Timers scheduled by callbacks fire within the same call if their deadline
// is not past the target time. Returns the number of callbacks run.
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	fired := 0
	for {
		m.mu.Lock()
		next := m.nextDue(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return fired
		}
		delete(m.timers, next.key)
		m.now = next.at
		m.mu.Unlock()

		next.fn()
		fired++
	}
}

// nextDue returns the earliest timer due at or before target.
// Must be called with mu held.
func (m *Manual) nextDue(target time.Duration) *manualTimer {
	due := make([]*manualTimer, 0, len(m.timers))
	for _, t := range m.timers {
		if t.at <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}
