package testutil

import (
	"sync"
	"testing"

	"github.com/udisondev/statusfx/internal/world"
)

// Outbox records presentations sent to remote clients.
type Outbox struct {
	mu   sync.Mutex
	sent []world.Presentation
}

// Send appends p. Pass it as the world's sendFunc.
func (o *Outbox) Send(p world.Presentation) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, p)
}

// Sent returns a copy of everything sent so far.
func (o *Outbox) Sent() []world.Presentation {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]world.Presentation, len(o.sent))
	copy(out, o.sent)
	return out
}

// NewTestWorld creates a world whose remote traffic lands in the returned Outbox.
// Entities are registered with default baselines (speed 16, jump 50).
func NewTestWorld(tb testing.TB, local []uint32, remote []uint32) (*world.World, *Outbox) {
	tb.Helper()

	out := &Outbox{}
	w := world.New(out.Send)
	for _, id := range local {
		w.AddEntity(world.NewEntity(id, "", 16, 50, false))
	}
	for _, id := range remote {
		w.AddEntity(world.NewEntity(id, "", 16, 50, true))
	}
	return w, out
}
