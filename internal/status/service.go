// Package status resolves stacking status effects per entity.
//
// Independent sources apply named, prioritised, optionally expiring entries
// to an entity's channels (speed, jump, auto-rotate, ragdoll, stun, ...).
// After every change the Service resolves the single authoritative value of
// the channel and pushes it to the collaborators.
//
// Collaborators are called while the entity's lock is held, so they must not
// call back into the Service for the same entity.
package status

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/udisondev/statusfx/internal/effect"
	"github.com/udisondev/statusfx/internal/timer"
)

// Default tuning, used by DefaultOptions.
const (
	DefaultStunPriority  = 10
	DefaultStunSuffix    = "_Stun"
	DefaultBlockSpeed    = 6.0
	DefaultBlockPriority = 9

	// BlockEntryName is the speed entry applied while blocking.
	BlockEntryName = "Block"
)

// Options tunes the composite behaviours built on the channels.
type Options struct {
	// StunPriority is the priority of entries cascaded by a stun.
	StunPriority int
	// StunSuffix is appended to the stun name for cascaded entries.
	StunSuffix string

	BlockSpeed        float64
	BlockPriority     int
	BlockMeterInitial float64
}

// DefaultOptions returns Options with the stock tuning.
func DefaultOptions() Options {
	return Options{
		StunPriority:  DefaultStunPriority,
		StunSuffix:    DefaultStunSuffix,
		BlockSpeed:    DefaultBlockSpeed,
		BlockPriority: DefaultBlockPriority,
	}
}

// Deps are the collaborators of a Service.
// Host, Local, Pose and Timers are required; the rest are optional.
type Deps struct {
	Store  *Store
	Host   Host
	Local  Sink
	Remote Sink // nil routes remote entities to Local
	Pose   PoseController
	Blocks BlockMeter
	Kills  KillRecorder
	Timers timer.Scheduler
	Now    func() time.Time
}

// Service is the status-effect resolver.
// Thread-safe: every operation runs under the target entity's lock.
type Service struct {
	store  *Store
	host   Host
	local  Sink
	remote Sink
	pose   PoseController
	blocks BlockMeter
	kills  KillRecorder
	timers timer.Scheduler
	now    func() time.Time
	opts   Options
	scope  uint64 // timer key namespace, unique per Service

	speed      valueChannel
	jump       valueChannel
	autoRotate valueChannel
}

// nextScope hands out timer scopes so Services can share a Scheduler.
var nextScope atomic.Uint64

// NewService wires a Service. Panics if a required collaborator is missing.
func NewService(deps Deps, opts Options) *Service {
	if deps.Host == nil || deps.Local == nil || deps.Pose == nil || deps.Timers == nil {
		panic("status: NewService requires Host, Local, Pose and Timers")
	}
	if deps.Store == nil {
		deps.Store = NewStore()
	}
	if deps.Remote == nil {
		deps.Remote = deps.Local
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if opts.StunSuffix == "" {
		opts.StunSuffix = DefaultStunSuffix
	}

	s := &Service{
		store:  deps.Store,
		host:   deps.Host,
		local:  deps.Local,
		remote: deps.Remote,
		pose:   deps.Pose,
		blocks: deps.Blocks,
		kills:  deps.Kills,
		timers: deps.Timers,
		now:    deps.Now,
		opts:   opts,
		scope:  nextScope.Add(1),
	}

	s.speed = valueChannel{
		svc:      s,
		channel:  ChannelSpeed,
		fallback: s.host.BaselineSpeed,
		emit: func(id EntityID, v float64) {
			s.sink(id).ApplySpeed(id, v)
		},
	}
	s.jump = valueChannel{
		svc:      s,
		channel:  ChannelJump,
		fallback: s.host.BaselineJump,
		emit: func(id EntityID, v float64) {
			s.sink(id).ApplyJump(id, v)
		},
	}
	s.autoRotate = valueChannel{
		svc:     s,
		channel: ChannelAutoRotate,
		fallback: func(id EntityID) float64 {
			return boolValue(s.host.BaselineAutoRotate(id))
		},
		emit: func(id EntityID, v float64) {
			s.sink(id).ApplyAutoRotate(id, v != 0)
		},
	}
	return s
}

// Store returns the entity registry the Service operates on.
func (s *Service) Store() *Store {
	return s.store
}

// Options returns the tuning the Service was built with.
func (s *Service) Options() Options {
	return s.opts
}

// Setup initialises all partitions of an entity. Idempotent.
func (s *Service) Setup(id EntityID) {
	st := s.store.acquire(id, true)
	st.mu.Unlock()
}

// Clean drops every partition of an entity and cancels its pending timers.
// This is the only teardown path; timers that already fired do nothing.
func (s *Service) Clean(id EntityID) {
	st := s.store.acquire(id, false)
	if st == nil {
		return
	}

	// Timers are cancelled before the state can be replaced, so a new life
	// of the same id never loses a timer to this teardown.
	st.dead = true
	for key := range st.timers {
		s.timers.Cancel(key)
	}
	cancelled := len(st.timers)
	clear(st.timers)
	st.mu.Unlock()

	s.store.detach(id, st)
	slog.Debug("status cleaned", "entity", id, "cancelledTimers", cancelled)
}

// sink picks the output for an entity.
func (s *Service) sink(id EntityID) Sink {
	if s.host.IsRemote(id) {
		return s.remote
	}
	return s.local
}

// arm schedules expiry of an entry, or cancels a previous timer of the same
// name when the new entry is indefinite.
// Must be called with st.mu held.
func (s *Service) arm(st *entityState, ch Channel, e effect.Entry, expire func(st *entityState)) {
	key := s.timerKey(st.id, ch, e.Name)

	if !e.Expires() {
		s.disarm(st, ch, e.Name)
		return
	}

	st.timerGen++
	gen := st.timerGen
	st.timers[key] = gen

	s.timers.Schedule(key, e.Duration, func() {
		s.fire(st, key, gen, expire)
	})
}

func (s *Service) timerKey(id EntityID, ch Channel, name string) timer.Key {
	return timer.Key{Scope: s.scope, Entity: id, Channel: string(ch), Name: name}
}

// disarm forgets and cancels a timer.
// Must be called with st.mu held.
func (s *Service) disarm(st *entityState, ch Channel, name string) {
	key := s.timerKey(st.id, ch, name)
	if _, ok := st.timers[key]; !ok {
		return
	}
	delete(st.timers, key)
	s.timers.Cancel(key)
}

// fire runs an expiry against the entity life it was scheduled for.
func (s *Service) fire(scheduled *entityState, key timer.Key, gen uint64, expire func(st *entityState)) {
	st := s.store.acquire(key.Entity, false)
	if st == nil {
		slog.Debug("stale timer ignored, entity cleaned", "timer", key.String())
		return
	}
	defer st.mu.Unlock()

	if st != scheduled || st.timers[key] != gen {
		slog.Debug("stale timer ignored", "timer", key.String())
		return
	}
	delete(st.timers, key)

	slog.Debug("status expired", "entity", key.Entity, "channel", key.Channel, "name", key.Name)
	expire(st)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
