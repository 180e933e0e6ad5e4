package status

import (
	"sync"

	"github.com/udisondev/statusfx/internal/effect"
	"github.com/udisondev/statusfx/internal/timer"
)

// entityState owns all partitions of one entity.
// All fields are guarded by mu.
type entityState struct {
	mu sync.Mutex
	id EntityID

	// dead is set once the state is removed from the Store; operations that
	// raced with Clean observe it and do nothing.
	dead bool

	speed      *effect.Partition
	jump       *effect.Partition
	stun       *effect.Partition // nil while no stun is recorded
	usingMove  *effect.Partition
	ragdoll    *effect.Partition
	autoRotate *effect.Partition
	attack     *effect.Partition
	damage     map[EntityID]float64

	// timers maps an armed timer to its generation; a firing timer whose
	// generation no longer matches is stale and ignored.
	timers   map[timer.Key]uint64
	timerGen uint64
}

func newEntityState(id EntityID) *entityState {
	return &entityState{
		id:         id,
		speed:      effect.NewPartition(),
		jump:       effect.NewPartition(),
		usingMove:  effect.NewPartition(),
		ragdoll:    effect.NewPartition(),
		autoRotate: effect.NewPartition(),
		attack:     effect.NewPartition(),
		damage:     make(map[EntityID]float64),
		timers:     make(map[timer.Key]uint64),
	}
}

// partition returns the partition of a channel.
// The stun partition may be nil; damage has no Partition.
func (st *entityState) partition(ch Channel) *effect.Partition {
	switch ch {
	case ChannelSpeed:
		return st.speed
	case ChannelJump:
		return st.jump
	case ChannelStun:
		return st.stun
	case ChannelUsingMove:
		return st.usingMove
	case ChannelRagdoll:
		return st.ragdoll
	case ChannelAutoRotate:
		return st.autoRotate
	case ChannelAttack:
		return st.attack
	default:
		return nil
	}
}

// nonEmpty reports whether the channel holds anything for this entity.
func (st *entityState) nonEmpty(ch Channel) bool {
	if ch == ChannelDamage {
		return len(st.damage) > 0
	}
	p := st.partition(ch)
	return p != nil && !p.Empty()
}

// Store is the registry of entity states.
// One Store is owned by whatever composes a game session and shared by
// every channel of the Service built on it.
//
// Thread-safe: the map is guarded by an RWMutex, each entity by its own mutex.
type Store struct {
	mu       sync.RWMutex
	entities map[EntityID]*entityState
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{entities: make(map[EntityID]*entityState, 64)}
}

// Len returns the number of entities with state.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// Exists reports whether the entity has state.
func (s *Store) Exists(id EntityID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entities[id]
	return ok
}

func (s *Store) lookup(id EntityID) *entityState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entities[id]
}

func (s *Store) getOrCreate(id EntityID) *entityState {
	if st := s.lookup(id); st != nil {
		return st
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.entities[id]; ok {
		return st
	}
	st := newEntityState(id)
	s.entities[id] = st
	return st
}

// detach drops st from the registry if it is still the entity's state.
func (s *Store) detach(id EntityID, st *entityState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entities[id] == st {
		delete(s.entities, id)
	}
}

// acquire returns the locked live state of an entity.
// With create set, missing state is initialised; otherwise nil is returned
// for unknown entities. The caller must unlock st.mu.
func (s *Store) acquire(id EntityID, create bool) *entityState {
	for {
		var st *entityState
		if create {
			st = s.getOrCreate(id)
		} else {
			st = s.lookup(id)
		}
		if st == nil {
			return nil
		}

		st.mu.Lock()
		if !st.dead {
			return st
		}
		st.mu.Unlock()

		if !create {
			return nil
		}
		s.detach(id, st)
	}
}

// with runs fn under the entity's lock. Reports whether fn ran.
func (s *Store) with(id EntityID, create bool, fn func(st *entityState)) bool {
	st := s.acquire(id, create)
	if st == nil {
		return false
	}
	defer st.mu.Unlock()
	fn(st)
	return true
}
