// Package world is an in-memory host for the status resolver.
// It owns the entities and implements every collaborator the resolver
// calls out to: baseline queries, local and remote sinks, the pose lock and
// the block meter.
package world

import (
	"log/slog"
	"sync"
	"time"
)

// Presentation is a resolved value pushed to a remote client.
type Presentation struct {
	Entity uint32
	Kind   string // "speed", "jump" or "auto_rotate"
	Value  float64
}

// World is the entity registry.
// Thread-safe: entities live in a sync.Map, each guards its own fields.
type World struct {
	objects sync.Map // map[uint32]*Entity

	sendFunc func(Presentation)
}

// New creates an empty World.
// sendFunc receives values routed to remotely controlled entities; nil drops them.
func New(sendFunc func(Presentation)) *World {
	return &World{sendFunc: sendFunc}
}

// AddEntity registers an entity, replacing one with the same id.
func (w *World) AddEntity(e *Entity) {
	w.objects.Store(e.ID(), e)
}

// RemoveEntity unregisters an entity.
func (w *World) RemoveEntity(id uint32) {
	w.objects.Delete(id)
}

// GetEntity returns entity by id.
func (w *World) GetEntity(id uint32) (*Entity, bool) {
	value, ok := w.objects.Load(id)
	if !ok {
		return nil, false
	}
	return value.(*Entity), true
}

// EntityCount returns total number of entities (O(N)).
func (w *World) EntityCount() int {
	count := 0
	w.objects.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// IsRemote reports whether the entity is remotely controlled.
// Unknown entities are treated as local.
func (w *World) IsRemote(id uint32) bool {
	e, ok := w.GetEntity(id)
	return ok && e.Remote()
}

// BaselineSpeed returns the live raw walk speed (0 for unknown entities).
func (w *World) BaselineSpeed(id uint32) float64 {
	if e, ok := w.GetEntity(id); ok {
		return e.BaselineSpeed()
	}
	return 0
}

// BaselineJump returns the live raw jump power (0 for unknown entities).
func (w *World) BaselineJump(id uint32) float64 {
	if e, ok := w.GetEntity(id); ok {
		return e.BaselineJump()
	}
	return 0
}

// BaselineAutoRotate returns the live raw auto-rotate flag.
func (w *World) BaselineAutoRotate(id uint32) bool {
	if e, ok := w.GetEntity(id); ok {
		return e.BaselineAutoRotate()
	}
	return true
}

// ApplySpeed writes a resolved walk speed directly onto the entity.
func (w *World) ApplySpeed(id uint32, value float64) {
	if e, ok := w.GetEntity(id); ok {
		e.applySpeed(value)
	}
}

// ApplyJump writes a resolved jump power directly onto the entity.
func (w *World) ApplyJump(id uint32, value float64) {
	if e, ok := w.GetEntity(id); ok {
		e.applyJump(value)
	}
}

// ApplyAutoRotate writes a resolved auto-rotate flag directly onto the entity.
func (w *World) ApplyAutoRotate(id uint32, enabled bool) {
	if e, ok := w.GetEntity(id); ok {
		e.applyAutoRotate(enabled)
	}
}

// EngagePoseLock puts the entity into ragdoll.
func (w *World) EngagePoseLock(id uint32, hint time.Duration) {
	e, ok := w.GetEntity(id)
	if !ok {
		return
	}
	e.engage(hint)
	slog.Debug("ragdoll engaged", "entity", id, "hint", hint)
}

// DisengagePoseLock releases the entity from ragdoll.
func (w *World) DisengagePoseLock(id uint32) {
	e, ok := w.GetEntity(id)
	if !ok {
		return
	}
	e.disengage()
	slog.Debug("ragdoll disengaged", "entity", id)
}

// CreateBlockMeter sets the block-meter attribute.
func (w *World) CreateBlockMeter(id uint32, value float64) {
	if e, ok := w.GetEntity(id); ok {
		e.setBlockMeter(value)
	}
}

// DestroyBlockMeter clears the block-meter attribute. No-op if absent.
func (w *World) DestroyBlockMeter(id uint32) {
	if e, ok := w.GetEntity(id); ok {
		e.clearBlockMeter()
	}
}

// Remote returns the sink for remotely controlled entities.
// Values are forwarded to sendFunc instead of being applied locally.
func (w *World) Remote() *RemoteSink {
	return &RemoteSink{world: w}
}

// RemoteSink forwards resolved values to the remote client of an entity.
type RemoteSink struct {
	world *World
}

// ApplySpeed implements status.Sink.
func (r *RemoteSink) ApplySpeed(id uint32, value float64) {
	r.send(Presentation{Entity: id, Kind: "speed", Value: value})
}

// ApplyJump implements status.Sink.
func (r *RemoteSink) ApplyJump(id uint32, value float64) {
	r.send(Presentation{Entity: id, Kind: "jump", Value: value})
}

// ApplyAutoRotate implements status.Sink.
func (r *RemoteSink) ApplyAutoRotate(id uint32, enabled bool) {
	v := 0.0
	if enabled {
		v = 1
	}
	r.send(Presentation{Entity: id, Kind: "auto_rotate", Value: v})
}

func (r *RemoteSink) send(p Presentation) {
	if r.world.sendFunc == nil {
		return
	}
	r.world.sendFunc(p)
}
