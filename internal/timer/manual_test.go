package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual_AdvanceFiresInOrder(t *testing.T) {
	m := NewManual()

	var order []string
	m.Schedule(Key{Entity: 1, Name: "late"}, 5*time.Second, func() { order = append(order, "late") })
	m.Schedule(Key{Entity: 1, Name: "early"}, 2*time.Second, func() { order = append(order, "early") })
	m.Schedule(Key{Entity: 2, Name: "never"}, 10*time.Second, func() { order = append(order, "never") })

	assert.Equal(t, 0, m.Advance(time.Second))
	assert.Empty(t, order)

	assert.Equal(t, 2, m.Advance(4*time.Second))
	assert.Equal(t, []string{"early", "late"}, order)
	assert.Equal(t, 5*time.Second, m.Now())
	assert.Equal(t, 1, m.Pending())
}

func TestManual_CallbackCanReschedule(t *testing.T) {
	m := NewManual()

	var ticks int
	key := Key{Entity: 1, Channel: "tick", Name: "dot"}
	var tick func()
	tick = func() {
		ticks++
		if ticks < 3 {
			m.Schedule(key, time.Second, tick)
		}
	}
	m.Schedule(key, time.Second, tick)

	m.Advance(10 * time.Second)
	assert.Equal(t, 3, ticks)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_ReplaceAndCancel(t *testing.T) {
	m := NewManual()

	var fired []string
	key := Key{Entity: 9, Channel: "speed", Name: "slow"}
	m.Schedule(key, time.Second, func() { fired = append(fired, "first") })
	m.Schedule(key, 3*time.Second, func() { fired = append(fired, "second") })

	m.Advance(2 * time.Second)
	assert.Empty(t, fired)

	assert.True(t, m.Cancel(key))
	m.Advance(5 * time.Second)
	assert.Empty(t, fired)
}

func TestManual_ScopesAreDistinctKeys(t *testing.T) {
	m := NewManual()
	var fired []uint64

	for _, scope := range []uint64{1, 2} {
		m.Schedule(Key{Scope: scope, Entity: 1, Channel: "speed", Name: "slow"}, time.Second, func() {
			fired = append(fired, scope)
		})
	}
	assert.Equal(t, 2, m.Pending())

	assert.True(t, m.Cancel(Key{Scope: 1, Entity: 1, Channel: "speed", Name: "slow"}))
	m.Advance(time.Second)

	assert.Equal(t, []uint64{2}, fired)
}
