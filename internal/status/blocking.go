package status

import "github.com/udisondev/statusfx/internal/effect"

// StartBlocking slows the entity with the "Block" speed entry and creates
// its block meter.
func (s *Service) StartBlocking(id EntityID) {
	s.store.with(id, true, func(st *entityState) {
		s.speed.add(st, effect.Entry{
			Name:     BlockEntryName,
			Value:    s.opts.BlockSpeed,
			Priority: s.opts.BlockPriority,
			Duration: effect.Indefinite,
		})
		if s.blocks != nil {
			s.blocks.CreateBlockMeter(id, s.opts.BlockMeterInitial)
		}
	})
}

// StopBlocking removes the "Block" speed entry and destroys the block meter.
func (s *Service) StopBlocking(id EntityID) {
	s.store.with(id, false, func(st *entityState) {
		s.speed.remove(st, BlockEntryName)
		if s.blocks != nil {
			s.blocks.DestroyBlockMeter(id)
		}
	})
}

// IsBlocking reports whether the "Block" speed entry is active.
func (s *Service) IsBlocking(id EntityID) bool {
	blocking := false
	s.store.with(id, false, func(st *entityState) {
		blocking = st.speed.Has(BlockEntryName)
	})
	return blocking
}
