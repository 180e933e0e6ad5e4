package status

import (
	"log/slog"
	"time"

	"github.com/udisondev/statusfx/internal/effect"
)

// StunEffects is the sparse set of channels a stun overrides.
// Nil fields are left untouched.
type StunEffects struct {
	WalkSpeed  *float64
	JumpPower  *float64
	Ragdoll    bool
	AutoRotate *bool
}

// StunEntryName returns the name under which a stun's cascaded entries are stored.
func (s *Service) StunEntryName(name string) string {
	return name + s.opts.StunSuffix
}

// AddStun records a stun and cascades priority entries into the speed,
// jump, ragdoll and auto-rotate channels, all sharing the same duration.
//
// Expiry of the stun flag itself does not touch the cascaded entries;
// those carry their own timers.
func (s *Service) AddStun(id EntityID, name string, effects StunEffects, duration time.Duration) {
	s.store.with(id, true, func(st *entityState) {
		if st.stun == nil {
			st.stun = effect.NewPartition()
		}
		flag := effect.Entry{Name: name, Duration: duration}
		st.stun.Set(flag)

		sub := s.StunEntryName(name)
		prio := s.opts.StunPriority

		if effects.WalkSpeed != nil {
			s.speed.add(st, effect.Entry{Name: sub, Value: *effects.WalkSpeed, Priority: prio, Duration: duration})
		}
		if effects.JumpPower != nil {
			s.jump.add(st, effect.Entry{Name: sub, Value: *effects.JumpPower, Priority: prio, Duration: duration})
		}
		if effects.Ragdoll {
			s.addRagdoll(st, sub, duration)
		}
		if effects.AutoRotate != nil {
			s.autoRotate.add(st, effect.Entry{Name: sub, Value: boolValue(*effects.AutoRotate), Priority: prio, Duration: duration})
		}

		s.arm(st, ChannelStun, flag, func(st *entityState) {
			s.dropStunFlag(st, name)
		})

		slog.Debug("stun added", "entity", id, "name", name, "duration", duration)
	})
}

// RemoveStun reverts every cascaded entry of the stun and clears its flag.
// No-op if the entity has no stun recorded at all.
func (s *Service) RemoveStun(id EntityID, name string) {
	s.store.with(id, false, func(st *entityState) {
		if st.stun == nil {
			return
		}

		sub := s.StunEntryName(name)
		if st.speed.Has(sub) {
			s.speed.remove(st, sub)
		}
		if st.jump.Has(sub) {
			s.jump.remove(st, sub)
		}
		if st.ragdoll.Has(sub) {
			s.removeRagdoll(st, sub)
		}
		if st.autoRotate.Has(sub) {
			s.autoRotate.remove(st, sub)
		}

		s.dropStunFlag(st, name)
		slog.Debug("stun removed", "entity", id, "name", name)
	})
}

// dropStunFlag deletes the stun presence flag and frees the partition once empty.
func (s *Service) dropStunFlag(st *entityState, name string) {
	if st.stun == nil || !st.stun.Delete(name) {
		return
	}
	s.disarm(st, ChannelStun, name)
	if st.stun.Empty() {
		st.stun = nil
	}
}
