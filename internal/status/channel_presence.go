package status

import (
	"log/slog"
	"time"

	"github.com/udisondev/statusfx/internal/effect"
)

// AddRagdoll engages a pose lock under name.
// Idempotent: re-adding an active name neither re-engages nor re-arms its timer.
func (s *Service) AddRagdoll(id EntityID, name string, duration time.Duration) {
	s.store.with(id, true, func(st *entityState) {
		s.addRagdoll(st, name, duration)
	})
}

// RemoveRagdoll releases the pose lock under name.
// The collaborator is disengaged only when the last lock goes away.
func (s *Service) RemoveRagdoll(id EntityID, name string) {
	s.store.with(id, false, func(st *entityState) {
		s.removeRagdoll(st, name)
	})
}

func (s *Service) addRagdoll(st *entityState, name string, duration time.Duration) {
	if st.ragdoll.Has(name) {
		return
	}

	e := effect.Entry{Name: name, Duration: duration}
	st.ragdoll.Set(e)

	hint := time.Duration(0)
	if e.Expires() {
		hint = duration
	}
	s.pose.EngagePoseLock(st.id, hint)

	s.arm(st, ChannelRagdoll, e, func(st *entityState) {
		s.removeRagdoll(st, name)
	})

	slog.Debug("pose lock added", "entity", st.id, "name", name, "active", st.ragdoll.Len())
}

func (s *Service) removeRagdoll(st *entityState, name string) {
	if !st.ragdoll.Delete(name) {
		return
	}
	s.disarm(st, ChannelRagdoll, name)

	if st.ragdoll.Empty() {
		s.pose.DisengagePoseLock(st.id)
	}

	slog.Debug("pose lock removed", "entity", st.id, "name", name, "active", st.ragdoll.Len())
}

// AddUsingMove marks the entity as busy with a move under name.
func (s *Service) AddUsingMove(id EntityID, name string, duration time.Duration) {
	s.store.with(id, true, func(st *entityState) {
		s.addFlag(st, ChannelUsingMove, name, duration)
	})
}

// RemoveUsingMove clears the using-move flag under name.
func (s *Service) RemoveUsingMove(id EntityID, name string) {
	s.store.with(id, false, func(st *entityState) {
		s.removeFlag(st, ChannelUsingMove, name)
	})
}

// AddAttack marks the entity as attacking under name.
func (s *Service) AddAttack(id EntityID, name string, duration time.Duration) {
	s.store.with(id, true, func(st *entityState) {
		s.addFlag(st, ChannelAttack, name, duration)
	})
}

// RemoveAttack clears the attack flag under name.
func (s *Service) RemoveAttack(id EntityID, name string) {
	s.store.with(id, false, func(st *entityState) {
		s.removeFlag(st, ChannelAttack, name)
	})
}

// addFlag records presence in a set-like channel. Re-adding refreshes the timer.
func (s *Service) addFlag(st *entityState, ch Channel, name string, duration time.Duration) {
	e := effect.Entry{Name: name, Duration: duration}
	st.partition(ch).Set(e)

	s.arm(st, ch, e, func(st *entityState) {
		s.removeFlag(st, ch, name)
	})

	slog.Debug("flag added", "entity", st.id, "channel", ch, "name", name)
}

func (s *Service) removeFlag(st *entityState, ch Channel, name string) {
	if !st.partition(ch).Delete(name) {
		return
	}
	s.disarm(st, ch, name)

	slog.Debug("flag removed", "entity", st.id, "channel", ch, "name", name)
}
