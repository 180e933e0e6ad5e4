package status

import (
	"log/slog"
	"time"

	"github.com/udisondev/statusfx/internal/effect"
)

// valueChannel is a prioritised numeric channel (speed, jump, auto-rotate).
type valueChannel struct {
	svc      *Service
	channel  Channel
	fallback func(id EntityID) float64
	emit     func(id EntityID, v float64)
}

// add upserts an entry, resolves and emits.
// Must be called with st.mu held.
func (c *valueChannel) add(st *entityState, e effect.Entry) {
	p := st.partition(c.channel)
	p.Set(e)

	c.svc.arm(st, c.channel, e, func(st *entityState) {
		c.remove(st, e.Name)
	})

	resolved := p.ResolveOr(c.fallback(st.id))
	c.emit(st.id, resolved)

	slog.Debug("status added",
		"entity", st.id,
		"channel", c.channel,
		"name", e.Name,
		"value", e.Value,
		"priority", e.Priority,
		"resolved", resolved)
}

// remove deletes an entry and re-resolves, falling back to the entity's
// live raw value when nothing is left. No-op if the entry is absent.
// Must be called with st.mu held.
func (c *valueChannel) remove(st *entityState, name string) {
	p := st.partition(c.channel)
	if !p.Delete(name) {
		return
	}
	c.svc.disarm(st, c.channel, name)

	resolved := p.ResolveOr(c.fallback(st.id))
	c.emit(st.id, resolved)

	slog.Debug("status removed",
		"entity", st.id,
		"channel", c.channel,
		"name", name,
		"resolved", resolved)
}

// AddSpeed applies a walk-speed entry. A non-positive duration is indefinite.
func (s *Service) AddSpeed(id EntityID, name string, value float64, priority int, duration time.Duration) {
	s.store.with(id, true, func(st *entityState) {
		s.speed.add(st, effect.Entry{Name: name, Value: value, Priority: priority, Duration: duration})
	})
}

// RemoveSpeed removes a walk-speed entry. No-op if absent.
func (s *Service) RemoveSpeed(id EntityID, name string) {
	s.store.with(id, false, func(st *entityState) {
		s.speed.remove(st, name)
	})
}

// AddJump applies a jump-power entry. A non-positive duration is indefinite.
func (s *Service) AddJump(id EntityID, name string, value float64, priority int, duration time.Duration) {
	s.store.with(id, true, func(st *entityState) {
		s.jump.add(st, effect.Entry{Name: name, Value: value, Priority: priority, Duration: duration})
	})
}

// RemoveJump removes a jump-power entry. No-op if absent.
func (s *Service) RemoveJump(id EntityID, name string) {
	s.store.with(id, false, func(st *entityState) {
		s.jump.remove(st, name)
	})
}

// AddAutoRotate applies an auto-rotate entry.
// Disabled wins ties at equal priority.
func (s *Service) AddAutoRotate(id EntityID, name string, enabled bool, priority int, duration time.Duration) {
	s.store.with(id, true, func(st *entityState) {
		s.autoRotate.add(st, effect.Entry{Name: name, Value: boolValue(enabled), Priority: priority, Duration: duration})
	})
}

// RemoveAutoRotate removes an auto-rotate entry. No-op if absent.
func (s *Service) RemoveAutoRotate(id EntityID, name string) {
	s.store.with(id, false, func(st *entityState) {
		s.autoRotate.remove(st, name)
	})
}
