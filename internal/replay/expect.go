package replay

import (
	"errors"
	"fmt"
)

// expect checks every populated assertion and reports all mismatches together.
func (x *run) expect(id uint32, ex *Expect) error {
	var errs []error
	s := x.svc

	if ex.Speed != nil {
		if got := x.effectiveSpeed(id); got != *ex.Speed {
			errs = append(errs, fmt.Errorf("speed = %v, want %v", got, *ex.Speed))
		}
	}
	if ex.Jump != nil {
		if got := x.effectiveJump(id); got != *ex.Jump {
			errs = append(errs, fmt.Errorf("jump = %v, want %v", got, *ex.Jump))
		}
	}
	if ex.AutoRotate != nil {
		got, ok := s.AutoRotate(id)
		if !ok {
			got = x.world.BaselineAutoRotate(id)
		}
		if got != *ex.AutoRotate {
			errs = append(errs, fmt.Errorf("auto_rotate = %v, want %v", got, *ex.AutoRotate))
		}
	}

	flags := []struct {
		name string
		want *bool
		got  func(uint32) bool
	}{
		{"stunned", ex.Stunned, s.IsStunned},
		{"ragdolled", ex.Ragdolled, s.IsRagdolled},
		{"using_move", ex.UsingMove, s.IsUsingMove},
		{"attacking", ex.Attacking, s.IsAttacking},
		{"blocking", ex.Blocking, s.IsBlocking},
	}
	for _, f := range flags {
		if f.want == nil {
			continue
		}
		if got := f.got(id); got != *f.want {
			errs = append(errs, fmt.Errorf("%s = %v, want %v", f.name, got, *f.want))
		}
	}

	if ex.Killer != nil {
		if got := s.GetKillerID(id); got != *ex.Killer {
			errs = append(errs, fmt.Errorf("killer = %d, want %d", got, *ex.Killer))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: entity %d: %w", ErrExpectation, id, errors.Join(errs...))
	}
	return nil
}

// effectiveSpeed is the resolved speed, or the live baseline when no entry exists.
func (x *run) effectiveSpeed(id uint32) float64 {
	if v, ok := x.svc.Speed(id); ok {
		return v
	}
	return x.world.BaselineSpeed(id)
}

func (x *run) effectiveJump(id uint32) float64 {
	if v, ok := x.svc.Jump(id); ok {
		return v
	}
	return x.world.BaselineJump(id)
}
