package effect

import "time"

// Indefinite marks an entry that never expires on its own.
// Any non-positive duration is treated the same way.
const Indefinite time.Duration = 0

// Entry is one named contribution to a channel for one entity.
// Presence-only channels (pose lock, using-move, stun flags) store entries
// with zero Value and Priority.
type Entry struct {
	Name     string
	Value    float64
	Priority int
	Duration time.Duration
}

// Expires reports whether the entry carries a finite duration.
func (e Entry) Expires() bool {
	return e.Duration > 0
}
