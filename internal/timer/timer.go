// Package timer schedules deferred callbacks keyed by entity, channel and name.
//
// Two implementations share the Scheduler interface: Manager runs on the wall
// clock with one goroutine per pending timer, Manual runs on a simulated clock
// advanced explicitly by the caller.
package timer

import (
	"strconv"
	"time"
)

// Key identifies a pending timer.
// Scheduling a timer with a key that is already pending replaces it.
// Scope separates owners sharing one Scheduler; zero is a valid scope.
type Key struct {
	Scope   uint64
	Entity  uint32
	Channel string
	Name    string
}

// String formats the key as "channel:name:entity", prefixed with "scope/"
// when the scope is set.
func (k Key) String() string {
	s := k.Channel + ":" + k.Name + ":" + strconv.FormatUint(uint64(k.Entity), 10)
	if k.Scope != 0 {
		s = strconv.FormatUint(k.Scope, 10) + "/" + s
	}
	return s
}

// Scheduler runs fire-once callbacks after a delay.
//
// Callbacks run outside of any scheduler lock and may schedule or cancel
// other timers, including their own key.
type Scheduler interface {
	// Schedule arms fn to run after delay, replacing a pending timer with the same key.
	Schedule(key Key, delay time.Duration, fn func())
	// Cancel stops a pending timer. Returns true if one was pending.
	Cancel(key Key) bool
	// Pending returns the number of armed timers.
	Pending() int
}
