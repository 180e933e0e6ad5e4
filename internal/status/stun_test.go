package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/statusfx/internal/effect"
)

func TestStun_CascadeAndExpiry(t *testing.T) {
	h := newHarness(t)
	s := h.svc

	s.AddSpeed(1, "slow", 12, 1, effect.Indefinite)
	prior := h.speed(t, 1)

	s.AddStun(1, "n1", StunEffects{WalkSpeed: Ptr(4.0)}, 5*time.Second)

	assert.Equal(t, 4.0, h.speed(t, 1))
	e, ok := findEntry(s.Entries(1, ChannelSpeed), "n1_Stun")
	require.True(t, ok)
	assert.Equal(t, DefaultStunPriority, e.Priority)
	assert.True(t, s.IsStunned(1))

	h.clock.Advance(5 * time.Second)

	_, ok = findEntry(s.Entries(1, ChannelSpeed), "n1_Stun")
	assert.False(t, ok)
	assert.False(t, s.IsStunned(1))
	assert.Equal(t, prior, h.speed(t, 1))
}

func TestStun_CascadesEveryChannel(t *testing.T) {
	h := newHarness(t)
	s := h.svc

	s.AddStun(1, "bash", StunEffects{
		WalkSpeed:  Ptr(0.0),
		JumpPower:  Ptr(0.0),
		Ragdoll:    true,
		AutoRotate: Ptr(false),
	}, effect.Indefinite)

	speed, _ := s.Speed(1)
	jump, _ := s.Jump(1)
	rotate, _ := s.AutoRotate(1)
	assert.Equal(t, 0.0, speed)
	assert.Equal(t, 0.0, jump)
	assert.False(t, rotate)
	assert.True(t, s.IsRagdolled(1))

	s.RemoveStun(1, "bash")

	assert.False(t, s.IsStunned(1))
	assert.False(t, s.IsRagdolled(1))
	assert.Empty(t, s.Entries(1, ChannelSpeed))
	assert.Empty(t, s.Entries(1, ChannelJump))
	assert.Empty(t, s.Entries(1, ChannelAutoRotate))
	assert.Equal(t, 16.0, h.speed(t, 1))

	_, disengages := h.host.poseCalls(1)
	assert.Equal(t, 1, disengages)
}

func TestStun_SparseEffectsTouchOnlyPopulatedChannels(t *testing.T) {
	h := newHarness(t)
	s := h.svc

	s.AddStun(1, "slowfield", StunEffects{JumpPower: Ptr(10.0)}, effect.Indefinite)

	assert.Empty(t, s.Entries(1, ChannelSpeed))
	assert.Len(t, s.Entries(1, ChannelJump), 1)
	assert.False(t, s.IsRagdolled(1))
}

func TestStun_EqualPriorityOverrideCompetes(t *testing.T) {
	h := newHarness(t)
	s := h.svc

	s.AddStun(1, "n1", StunEffects{WalkSpeed: Ptr(4.0)}, effect.Indefinite)
	s.AddSpeed(1, "frozen", 0, DefaultStunPriority, effect.Indefinite)
	assert.Equal(t, 0.0, h.speed(t, 1), "equal priority, lower value wins")

	s.AddSpeed(1, "haste", 30, DefaultStunPriority+1, effect.Indefinite)
	assert.Equal(t, 30.0, h.speed(t, 1), "higher priority overrides stun")
}

func TestStun_RemoveWithoutStunIsNoop(t *testing.T) {
	h := newHarness(t)
	s := h.svc

	s.RemoveStun(1, "n1")
	assert.False(t, s.Store().Exists(1))

	// A voluntary entry sharing the synthesized name is left alone while
	// the entity has no stun recorded.
	s.AddSpeed(1, "n1_Stun", 3, 0, effect.Indefinite)
	s.RemoveStun(1, "n1")
	assert.Len(t, s.Entries(1, ChannelSpeed), 1)
}

func TestStun_RemoveOneOfTwo(t *testing.T) {
	h := newHarness(t)
	s := h.svc

	s.AddStun(1, "a", StunEffects{WalkSpeed: Ptr(2.0)}, effect.Indefinite)
	s.AddStun(1, "b", StunEffects{WalkSpeed: Ptr(5.0)}, effect.Indefinite)
	assert.Equal(t, 2.0, h.speed(t, 1))

	s.RemoveStun(1, "a")
	assert.True(t, s.IsStunned(1))
	assert.Equal(t, 5.0, h.speed(t, 1))
}

func TestStun_CustomSuffix(t *testing.T) {
	h := newHarness(t)
	opts := DefaultOptions()
	opts.StunSuffix = "Stun"
	s := NewService(Deps{Host: h.host, Local: h.local, Pose: h.host, Timers: h.clock}, opts)

	s.AddStun(1, "n1", StunEffects{WalkSpeed: Ptr(4.0)}, effect.Indefinite)
	_, ok := findEntry(s.Entries(1, ChannelSpeed), "n1Stun")
	assert.True(t, ok)

	s.RemoveStun(1, "n1")
	assert.Empty(t, s.Entries(1, ChannelSpeed))
}

func findEntry(entries []effect.Entry, name string) (effect.Entry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return effect.Entry{}, false
}
