package world

import (
	"sync"
	"time"
)

// Entity is a live character as seen by the status resolver.
// Holds the raw baseline values, the values currently applied, and the
// physical side of the pose lock and block meter.
type Entity struct {
	mu sync.RWMutex

	id     uint32
	name   string
	remote bool

	baseSpeed      float64
	baseJump       float64
	baseAutoRotate bool

	speed      float64
	jump       float64
	autoRotate bool

	ragdolled   bool
	ragdollHint time.Duration
	engages     int
	disengages  int

	blockMeter    float64
	hasBlockMeter bool
}

// NewEntity creates an entity whose applied values equal its baseline.
func NewEntity(id uint32, name string, speed, jump float64, remote bool) *Entity {
	return &Entity{
		id:             id,
		name:           name,
		remote:         remote,
		baseSpeed:      speed,
		baseJump:       jump,
		baseAutoRotate: true,
		speed:          speed,
		jump:           jump,
		autoRotate:     true,
	}
}

// ID returns the entity id.
func (e *Entity) ID() uint32 { return e.id }

// Name returns the display name.
func (e *Entity) Name() string { return e.name }

// Remote reports whether the entity is controlled by a remote client.
func (e *Entity) Remote() bool { return e.remote }

// EntityID resolves the entity as a damage source.
// A nil entity (despawned attacker) does not resolve.
func (e *Entity) EntityID() (uint32, bool) {
	if e == nil {
		return 0, false
	}
	return e.id, true
}

// BaselineSpeed returns the raw walk speed.
func (e *Entity) BaselineSpeed() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.baseSpeed
}

// SetBaselineSpeed changes the raw walk speed (equipment, level up...).
func (e *Entity) SetBaselineSpeed(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.baseSpeed = v
}

// BaselineJump returns the raw jump power.
func (e *Entity) BaselineJump() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.baseJump
}

// SetBaselineJump changes the raw jump power.
func (e *Entity) SetBaselineJump(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.baseJump = v
}

// BaselineAutoRotate returns the raw auto-rotate flag.
func (e *Entity) BaselineAutoRotate() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.baseAutoRotate
}

// Speed returns the applied walk speed.
func (e *Entity) Speed() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.speed
}

// Jump returns the applied jump power.
func (e *Entity) Jump() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.jump
}

// AutoRotate returns the applied auto-rotate flag.
func (e *Entity) AutoRotate() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.autoRotate
}

// Ragdolled reports whether the physical pose lock is engaged.
func (e *Entity) Ragdolled() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ragdolled
}

// RagdollHint returns the duration hint of the last engage.
func (e *Entity) RagdollHint() time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ragdollHint
}

// PoseCalls returns how many times the lock was engaged and disengaged.
func (e *Entity) PoseCalls() (engages, disengages int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.engages, e.disengages
}

// BlockMeter returns the block-meter attribute, if present.
func (e *Entity) BlockMeter() (float64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.blockMeter, e.hasBlockMeter
}

func (e *Entity) applySpeed(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.speed = v
}

func (e *Entity) applyJump(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jump = v
}

func (e *Entity) applyAutoRotate(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.autoRotate = v
}

func (e *Entity) engage(hint time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ragdolled = true
	e.ragdollHint = hint
	e.engages++
}

func (e *Entity) disengage() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ragdolled = false
	e.disengages++
}

func (e *Entity) setBlockMeter(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.blockMeter = v
	e.hasBlockMeter = true
}

func (e *Entity) clearBlockMeter() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.blockMeter = 0
	e.hasBlockMeter = false
}
