package replay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/statusfx/internal/status"
	"github.com/udisondev/statusfx/internal/timer"
	"github.com/udisondev/statusfx/internal/world"
)

// Epoch is the wall time a scenario's simulated clock starts at.
// Kill records are stamped Epoch plus simulated elapsed time.
var Epoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// Result summarises one scenario run.
type Result struct {
	Name          string
	Steps         int
	Elapsed       time.Duration // simulated
	Kills         []status.KillRecord
	Presentations []world.Presentation
}

// Runner executes scenarios. Each run gets its own world, store and clock.
// Safe for concurrent use.
type Runner struct {
	opts  status.Options
	kills status.KillRecorder
}

// NewRunner creates a Runner. kills may be nil.
func NewRunner(opts status.Options, kills status.KillRecorder) *Runner {
	return &Runner{opts: opts, kills: kills}
}

// RunAll runs scenarios concurrently, at most workers at a time.
// Stops at the first failing scenario.
func (r *Runner) RunAll(ctx context.Context, scenarios []*Scenario, workers int) ([]Result, error) {
	results := make([]Result, len(scenarios))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for i, sc := range scenarios {
		g.Go(func() error {
			res, err := r.Run(ctx, sc)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// run is the state of one scenario execution.
type run struct {
	sc     *Scenario
	world  *world.World
	svc    *status.Service
	clock  *timer.Manual
	result Result
}

// Run executes a single scenario.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (Result, error) {
	x := &run{
		sc:     sc,
		clock:  timer.NewManual(),
		result: Result{Name: sc.Name},
	}
	x.world = world.New(func(p world.Presentation) {
		x.result.Presentations = append(x.result.Presentations, p)
	})
	for _, e := range sc.Entities {
		x.world.AddEntity(world.NewEntity(e.ID, e.Name, e.Speed, e.Jump, e.Remote))
	}

	x.svc = status.NewService(status.Deps{
		Host:   x.world,
		Local:  x.world,
		Remote: x.world.Remote(),
		Pose:   x.world,
		Blocks: x.world,
		Kills:  r.kills,
		Timers: x.clock,
		Now: func() time.Time {
			return Epoch.Add(x.clock.Now())
		},
	}, r.opts)

	for i, st := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return x.result, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		if err := x.step(ctx, st); err != nil {
			return x.result, fmt.Errorf("scenario %s step %d (%s): %w", sc.Name, i+1, st.Action, err)
		}
		x.result.Steps++
	}

	x.result.Elapsed = x.clock.Now()
	slog.Info("scenario passed",
		"scenario", sc.Name,
		"steps", x.result.Steps,
		"elapsed", x.result.Elapsed,
		"kills", len(x.result.Kills))
	return x.result, nil
}

func (x *run) step(ctx context.Context, st Step) error {
	s := x.svc
	id := st.Entity

	slog.Debug("replay step", "scenario", x.sc.Name, "action", st.Action, "entity", id, "name", st.Name)

	switch st.Action {
	case ActionSetup:
		s.Setup(id)
	case ActionClean:
		s.Clean(id)
	case ActionAddSpeed:
		s.AddSpeed(id, st.Name, *st.Value, st.Priority, st.Duration)
	case ActionRemoveSpeed:
		s.RemoveSpeed(id, st.Name)
	case ActionAddJump:
		s.AddJump(id, st.Name, *st.Value, st.Priority, st.Duration)
	case ActionRemoveJump:
		s.RemoveJump(id, st.Name)
	case ActionAddAutoRotate:
		s.AddAutoRotate(id, st.Name, *st.Enabled, st.Priority, st.Duration)
	case ActionRemoveAutoRotate:
		s.RemoveAutoRotate(id, st.Name)
	case ActionAddStun:
		s.AddStun(id, st.Name, status.StunEffects{
			WalkSpeed:  st.Stun.WalkSpeed,
			JumpPower:  st.Stun.JumpPower,
			Ragdoll:    st.Stun.Ragdoll,
			AutoRotate: st.Stun.AutoRotate,
		}, st.Duration)
	case ActionRemoveStun:
		s.RemoveStun(id, st.Name)
	case ActionAddRagdoll:
		s.AddRagdoll(id, st.Name, st.Duration)
	case ActionRemoveRagdoll:
		s.RemoveRagdoll(id, st.Name)
	case ActionAddUsingMove:
		s.AddUsingMove(id, st.Name, st.Duration)
	case ActionRemoveUsingMove:
		s.RemoveUsingMove(id, st.Name)
	case ActionAddAttack:
		s.AddAttack(id, st.Name, st.Duration)
	case ActionRemoveAttack:
		s.RemoveAttack(id, st.Name)
	case ActionStartBlocking:
		s.StartBlocking(id)
	case ActionStopBlocking:
		s.StopBlocking(id)
	case ActionSetBaseline:
		x.setBaseline(id, st)
	case ActionDamage:
		s.RecordDamage(id, x.attacker(st.Attacker), st.Amount)
	case ActionKill:
		x.result.Kills = append(x.result.Kills, s.ResolveKill(ctx, id))
	case ActionAdvance:
		x.clock.Advance(st.Duration)
	case ActionExpect:
		return x.expect(id, st.Expect)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, st.Action)
	}
	return nil
}

// attacker resolves a step's attacker. Undeclared or missing attackers
// resolve to nil, which the ledger ignores (environmental damage).
func (x *run) attacker(id *uint32) status.Actor {
	if id == nil {
		return nil
	}
	e, ok := x.world.GetEntity(*id)
	if !ok {
		return nil
	}
	return e
}

func (x *run) setBaseline(id uint32, st Step) {
	e, ok := x.world.GetEntity(id)
	if !ok {
		return
	}
	if st.Speed != nil {
		e.SetBaselineSpeed(*st.Speed)
	}
	if st.Jump != nil {
		e.SetBaselineJump(*st.Jump)
	}
}
