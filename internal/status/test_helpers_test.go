package status

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/udisondev/statusfx/internal/timer"
)

// applied is one value pushed to a sink.
type applied struct {
	entity EntityID
	kind   string
	value  float64
}

// fakeSink records everything pushed to it.
type fakeSink struct {
	mu    sync.Mutex
	calls []applied
}

func (s *fakeSink) ApplySpeed(id EntityID, v float64) { s.record(id, "speed", v) }
func (s *fakeSink) ApplyJump(id EntityID, v float64)  { s.record(id, "jump", v) }
func (s *fakeSink) ApplyAutoRotate(id EntityID, enabled bool) {
	s.record(id, "auto_rotate", boolValue(enabled))
}

func (s *fakeSink) record(id EntityID, kind string, v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, applied{entity: id, kind: kind, value: v})
}

// last returns the last value of a kind pushed for an entity.
func (s *fakeSink) last(id EntityID, kind string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.calls) - 1; i >= 0; i-- {
		if c := s.calls[i]; c.entity == id && c.kind == kind {
			return c.value, true
		}
	}
	return 0, false
}

func (s *fakeSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// fakeHost implements Host, PoseController and BlockMeter.
type fakeHost struct {
	mu         sync.Mutex
	remote     map[EntityID]bool
	speed      map[EntityID]float64
	jump       map[EntityID]float64
	engages    map[EntityID]int
	disengages map[EntityID]int
	hints      map[EntityID]time.Duration
	meters     map[EntityID]float64
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		remote:     make(map[EntityID]bool),
		speed:      make(map[EntityID]float64),
		jump:       make(map[EntityID]float64),
		engages:    make(map[EntityID]int),
		disengages: make(map[EntityID]int),
		hints:      make(map[EntityID]time.Duration),
		meters:     make(map[EntityID]float64),
	}
}

func (h *fakeHost) IsRemote(id EntityID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.remote[id]
}

func (h *fakeHost) BaselineSpeed(id EntityID) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if v, ok := h.speed[id]; ok {
		return v
	}
	return 16
}

func (h *fakeHost) BaselineJump(id EntityID) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if v, ok := h.jump[id]; ok {
		return v
	}
	return 50
}

func (h *fakeHost) BaselineAutoRotate(EntityID) bool { return true }

func (h *fakeHost) setBaselineSpeed(id EntityID, v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.speed[id] = v
}

func (h *fakeHost) EngagePoseLock(id EntityID, hint time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.engages[id]++
	h.hints[id] = hint
}

func (h *fakeHost) DisengagePoseLock(id EntityID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.disengages[id]++
}

func (h *fakeHost) poseCalls(id EntityID) (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.engages[id], h.disengages[id]
}

func (h *fakeHost) CreateBlockMeter(id EntityID, v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.meters[id] = v
}

func (h *fakeHost) DestroyBlockMeter(id EntityID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.meters, id)
}

func (h *fakeHost) meter(id EntityID) (float64, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.meters[id]
	return v, ok
}

// fakeKills records kill attributions, optionally failing.
type fakeKills struct {
	mu      sync.Mutex
	records []KillRecord
	fail    bool
}

func (k *fakeKills) RecordKill(_ context.Context, rec KillRecord) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.fail {
		return errors.New("kill log unavailable")
	}
	k.records = append(k.records, rec)
	return nil
}

// harness bundles a Service with its fakes on a simulated clock.
type harness struct {
	svc    *Service
	host   *fakeHost
	local  *fakeSink
	remote *fakeSink
	kills  *fakeKills
	clock  *timer.Manual
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		host:   newFakeHost(),
		local:  &fakeSink{},
		remote: &fakeSink{},
		kills:  &fakeKills{},
		clock:  timer.NewManual(),
	}
	h.svc = NewService(Deps{
		Host:   h.host,
		Local:  h.local,
		Remote: h.remote,
		Pose:   h.host,
		Blocks: h.host,
		Kills:  h.kills,
		Timers: h.clock,
		Now:    func() time.Time { return time.Unix(1700000000, 0) },
	}, DefaultOptions())
	return h
}

// speed returns the last speed pushed to the local sink.
func (h *harness) speed(t *testing.T, id EntityID) float64 {
	t.Helper()
	v, ok := h.local.last(id, "speed")
	if !ok {
		t.Fatalf("no speed applied to entity %d", id)
	}
	return v
}
