package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/statusfx/internal/effect"
)

func TestRagdoll_AddIsIdempotent(t *testing.T) {
	h := newHarness(t)
	s := h.svc

	s.AddRagdoll(1, "knock", effect.Indefinite)
	s.AddRagdoll(1, "knock", effect.Indefinite)

	engages, _ := h.host.poseCalls(1)
	assert.Equal(t, 1, engages, "re-add must not re-engage")

	// Only presence matters: one removal clears it.
	s.RemoveRagdoll(1, "knock")
	_, disengages := h.host.poseCalls(1)
	assert.Equal(t, 1, disengages)
	assert.False(t, s.IsRagdolled(1))

	s.RemoveRagdoll(1, "knock")
	_, disengages = h.host.poseCalls(1)
	assert.Equal(t, 1, disengages, "removing absent lock is a no-op")
}

func TestRagdoll_LastLockOff(t *testing.T) {
	h := newHarness(t)
	s := h.svc

	s.AddRagdoll(1, "knock", effect.Indefinite)
	s.AddRagdoll(1, "trip", effect.Indefinite)

	engages, _ := h.host.poseCalls(1)
	assert.Equal(t, 2, engages)

	s.RemoveRagdoll(1, "knock")
	_, disengages := h.host.poseCalls(1)
	assert.Equal(t, 0, disengages, "other lock still active")
	assert.True(t, s.IsRagdolled(1))

	s.RemoveRagdoll(1, "trip")
	_, disengages = h.host.poseCalls(1)
	assert.Equal(t, 1, disengages)
}

func TestRagdoll_ExpiryAndHint(t *testing.T) {
	h := newHarness(t)
	s := h.svc

	s.AddRagdoll(1, "knock", 2*time.Second)
	assert.Equal(t, 2*time.Second, h.host.hints[1])

	h.clock.Advance(2 * time.Second)
	assert.False(t, s.IsRagdolled(1))
	_, disengages := h.host.poseCalls(1)
	assert.Equal(t, 1, disengages)
}

func TestUsingMove(t *testing.T) {
	h := newHarness(t)
	s := h.svc

	assert.False(t, s.IsUsingMove(1))

	s.AddUsingMove(1, "Slash", time.Second)
	s.AddUsingMove(1, "Dash", effect.Indefinite)
	assert.True(t, s.IsUsingMove(1))

	h.clock.Advance(time.Second)
	assert.True(t, s.IsUsingMove(1), "Dash still active")

	s.RemoveUsingMove(1, "Dash")
	assert.False(t, s.IsUsingMove(1))
}

func TestAttack(t *testing.T) {
	h := newHarness(t)
	s := h.svc

	s.AddAttack(1, "M1", 500*time.Millisecond)
	assert.True(t, s.IsAttacking(1))
	assert.True(t, s.CheckState(1, ChannelAttack))

	h.clock.Advance(time.Second)
	assert.False(t, s.IsAttacking(1))

	s.AddAttack(1, "M2", effect.Indefinite)
	s.RemoveAttack(1, "M2")
	assert.False(t, s.IsAttacking(1))
}
