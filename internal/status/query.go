package status

import "github.com/udisondev/statusfx/internal/effect"

// CheckState reports whether the entity has anything recorded in a channel.
// Unknown entities and cleaned entities report false.
func (s *Service) CheckState(id EntityID, ch Channel) bool {
	active := false
	s.store.with(id, false, func(st *entityState) {
		active = st.nonEmpty(ch)
	})
	return active
}

// IsUsingMove reports whether any using-move flag is set.
func (s *Service) IsUsingMove(id EntityID) bool {
	return s.CheckState(id, ChannelUsingMove)
}

// IsAttacking reports whether any attack flag is set.
func (s *Service) IsAttacking(id EntityID) bool {
	return s.CheckState(id, ChannelAttack)
}

// IsStunned reports whether any stun flag is set.
func (s *Service) IsStunned(id EntityID) bool {
	return s.CheckState(id, ChannelStun)
}

// IsRagdolled reports whether any pose lock is active.
func (s *Service) IsRagdolled(id EntityID) bool {
	return s.CheckState(id, ChannelRagdoll)
}

// Speed returns the resolved walk speed and whether any entry exists.
func (s *Service) Speed(id EntityID) (float64, bool) {
	return s.resolved(id, ChannelSpeed)
}

// Jump returns the resolved jump power and whether any entry exists.
func (s *Service) Jump(id EntityID) (float64, bool) {
	return s.resolved(id, ChannelJump)
}

// AutoRotate returns the resolved auto-rotate flag and whether any entry exists.
func (s *Service) AutoRotate(id EntityID) (bool, bool) {
	v, ok := s.resolved(id, ChannelAutoRotate)
	return v != 0, ok
}

// Entries returns a snapshot of a channel's entries sorted by name.
func (s *Service) Entries(id EntityID, ch Channel) []effect.Entry {
	var result []effect.Entry
	s.store.with(id, false, func(st *entityState) {
		if p := st.partition(ch); p != nil {
			result = p.Entries()
		}
	})
	return result
}

func (s *Service) resolved(id EntityID, ch Channel) (float64, bool) {
	var (
		value float64
		found bool
	)
	s.store.with(id, false, func(st *entityState) {
		var w effect.Entry
		if w, found = st.partition(ch).Resolve(); found {
			value = w.Value
		}
	})
	return value, found
}
