package status

import (
	"context"
	"time"
)

// Host answers questions about the live entity.
type Host interface {
	// IsRemote reports whether the entity is controlled remotely, in which
	// case resolved values go to the remote sink instead of the local one.
	IsRemote(id EntityID) bool
	// BaselineSpeed returns the entity's current raw walk speed.
	BaselineSpeed(id EntityID) float64
	// BaselineJump returns the entity's current raw jump power.
	BaselineJump(id EntityID) float64
	// BaselineAutoRotate returns the entity's current raw auto-rotate flag.
	BaselineAutoRotate(id EntityID) bool
}

// Sink receives resolved channel values.
type Sink interface {
	ApplySpeed(id EntityID, value float64)
	ApplyJump(id EntityID, value float64)
	ApplyAutoRotate(id EntityID, enabled bool)
}

// PoseController engages and releases the physical pose lock (ragdoll).
type PoseController interface {
	// EngagePoseLock starts an indefinite physical lock; hint is the
	// bookkeeping duration (zero if indefinite).
	EngagePoseLock(id EntityID, hint time.Duration)
	DisengagePoseLock(id EntityID)
}

// BlockMeter manages the numeric block-meter attribute on an entity.
type BlockMeter interface {
	CreateBlockMeter(id EntityID, value float64)
	// DestroyBlockMeter removes the attribute; no-op if absent.
	DestroyBlockMeter(id EntityID)
}

// KillRecorder stores resolved kill attributions.
type KillRecorder interface {
	RecordKill(ctx context.Context, rec KillRecord) error
}
