// Package replay runs YAML status-effect scenarios against a Service on a
// simulated clock.
package replay

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Actions understood by the runner.
const (
	ActionSetup            = "setup"
	ActionClean            = "clean"
	ActionAddSpeed         = "add_speed"
	ActionRemoveSpeed      = "remove_speed"
	ActionAddJump          = "add_jump"
	ActionRemoveJump       = "remove_jump"
	ActionAddAutoRotate    = "add_auto_rotate"
	ActionRemoveAutoRotate = "remove_auto_rotate"
	ActionAddStun          = "add_stun"
	ActionRemoveStun       = "remove_stun"
	ActionAddRagdoll       = "add_ragdoll"
	ActionRemoveRagdoll    = "remove_ragdoll"
	ActionAddUsingMove     = "add_using_move"
	ActionRemoveUsingMove  = "remove_using_move"
	ActionAddAttack        = "add_attack"
	ActionRemoveAttack     = "remove_attack"
	ActionStartBlocking    = "start_blocking"
	ActionStopBlocking     = "stop_blocking"
	ActionSetBaseline      = "set_baseline"
	ActionDamage           = "damage"
	ActionKill             = "kill"
	ActionAdvance          = "advance"
	ActionExpect           = "expect"
)

var (
	// ErrUnknownAction is returned for a step with an unsupported action.
	ErrUnknownAction = errors.New("unknown action")
	// ErrInvalidScenario is returned when a scenario fails validation.
	ErrInvalidScenario = errors.New("invalid scenario")
	// ErrExpectation is returned when an expect step does not hold.
	ErrExpectation = errors.New("expectation failed")
)

// Scenario is one replayable script.
type Scenario struct {
	Name     string       `yaml:"name"`
	Entities []EntitySpec `yaml:"entities"`
	Steps    []Step       `yaml:"steps"`
}

// EntitySpec declares an entity and its baseline.
type EntitySpec struct {
	ID     uint32  `yaml:"id"`
	Name   string  `yaml:"name"`
	Speed  float64 `yaml:"speed"`
	Jump   float64 `yaml:"jump"`
	Remote bool    `yaml:"remote"`
}

// Step is one action of a scenario.
// Only the fields relevant to the action are read.
type Step struct {
	Action   string        `yaml:"action"`
	Entity   uint32        `yaml:"entity"`
	Name     string        `yaml:"name"`
	Value    *float64      `yaml:"value"`
	Enabled  *bool         `yaml:"enabled"`
	Priority int           `yaml:"priority"`
	Duration time.Duration `yaml:"duration"`
	Stun     *StunSpec     `yaml:"stun"`
	Attacker *uint32       `yaml:"attacker"`
	Amount   float64       `yaml:"amount"`
	Speed    *float64      `yaml:"speed"`
	Jump     *float64      `yaml:"jump"`
	Expect   *Expect       `yaml:"expect"`
}

// StunSpec is the sparse set of channels a stun overrides.
type StunSpec struct {
	WalkSpeed  *float64 `yaml:"walk_speed"`
	JumpPower  *float64 `yaml:"jump_power"`
	Ragdoll    bool     `yaml:"ragdoll"`
	AutoRotate *bool    `yaml:"auto_rotate"`
}

// Expect lists assertions about one entity. Nil fields are not checked.
type Expect struct {
	Speed      *float64 `yaml:"speed"`
	Jump       *float64 `yaml:"jump"`
	AutoRotate *bool    `yaml:"auto_rotate"`
	Stunned    *bool    `yaml:"stunned"`
	Ragdolled  *bool    `yaml:"ragdolled"`
	UsingMove  *bool    `yaml:"using_move"`
	Attacking  *bool    `yaml:"attacking"`
	Blocking   *bool    `yaml:"blocking"`
	Killer     *uint32  `yaml:"killer"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = path
	}
	return sc, nil
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks actions, entity references and required fields.
func (sc *Scenario) Validate() error {
	declared := make(map[uint32]bool, len(sc.Entities))
	for _, e := range sc.Entities {
		if declared[e.ID] {
			return fmt.Errorf("%w: entity %d declared twice", ErrInvalidScenario, e.ID)
		}
		declared[e.ID] = true
	}

	for i, st := range sc.Steps {
		if err := st.validate(declared); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st.Action, err)
		}
	}
	return nil
}

func (st Step) validate(declared map[uint32]bool) error {
	switch st.Action {
	case ActionAdvance:
		if st.Duration <= 0 {
			return fmt.Errorf("%w: advance needs a positive duration", ErrInvalidScenario)
		}
		return nil
	case ActionSetup, ActionClean, ActionStartBlocking, ActionStopBlocking, ActionDamage, ActionKill, ActionSetBaseline:
	case ActionAddSpeed, ActionAddJump:
		if st.Value == nil {
			return fmt.Errorf("%w: %s needs a value", ErrInvalidScenario, st.Action)
		}
	case ActionAddAutoRotate:
		if st.Enabled == nil {
			return fmt.Errorf("%w: %s needs enabled", ErrInvalidScenario, st.Action)
		}
	case ActionAddStun:
		if st.Stun == nil {
			return fmt.Errorf("%w: add_stun needs stun effects", ErrInvalidScenario)
		}
	case ActionRemoveSpeed, ActionRemoveJump, ActionRemoveAutoRotate, ActionRemoveStun,
		ActionAddRagdoll, ActionRemoveRagdoll, ActionAddUsingMove, ActionRemoveUsingMove,
		ActionAddAttack, ActionRemoveAttack:
	case ActionExpect:
		if st.Expect == nil {
			return fmt.Errorf("%w: expect step has no assertions", ErrInvalidScenario)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, st.Action)
	}

	if !declared[st.Entity] {
		return fmt.Errorf("%w: entity %d is not declared", ErrInvalidScenario, st.Entity)
	}
	if namedActions[st.Action] && st.Name == "" {
		return fmt.Errorf("%w: %s needs a name", ErrInvalidScenario, st.Action)
	}
	return nil
}

// namedActions address an entry by name.
var namedActions = map[string]bool{
	ActionAddSpeed:         true,
	ActionRemoveSpeed:      true,
	ActionAddJump:          true,
	ActionRemoveJump:       true,
	ActionAddAutoRotate:    true,
	ActionRemoveAutoRotate: true,
	ActionAddStun:          true,
	ActionRemoveStun:       true,
	ActionAddRagdoll:       true,
	ActionRemoveRagdoll:    true,
	ActionAddUsingMove:     true,
	ActionRemoveUsingMove:  true,
	ActionAddAttack:        true,
	ActionRemoveAttack:     true,
}
