package replay

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Testdata(t *testing.T) {
	files, err := filepath.Glob("testdata/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			sc, err := Load(f)
			require.NoError(t, err)
			assert.NotEmpty(t, sc.Name)
			assert.NotEmpty(t, sc.Steps)
		})
	}
}

func TestParse_Durations(t *testing.T) {
	sc, err := Parse([]byte(`
entities: [{id: 1, speed: 16}]
steps:
  - {action: add_speed, entity: 1, name: Slow, value: 4, priority: 2, duration: 1500ms}
  - {action: advance, duration: 2s}
`))
	require.NoError(t, err)
	require.Len(t, sc.Steps, 2)

	assert.Equal(t, 1500*time.Millisecond, sc.Steps[0].Duration)
	assert.Equal(t, 2, sc.Steps[0].Priority)
	require.NotNil(t, sc.Steps[0].Value)
	assert.Equal(t, 4.0, *sc.Steps[0].Value)
	assert.Equal(t, 2*time.Second, sc.Steps[1].Duration)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{
			name:    "unknown action",
			yaml:    "entities: [{id: 1}]\nsteps: [{action: teleport, entity: 1}]",
			wantErr: ErrUnknownAction,
		},
		{
			name:    "undeclared entity",
			yaml:    "entities: [{id: 1}]\nsteps: [{action: setup, entity: 2}]",
			wantErr: ErrInvalidScenario,
		},
		{
			name:    "duplicate entity",
			yaml:    "entities: [{id: 1}, {id: 1}]\nsteps: []",
			wantErr: ErrInvalidScenario,
		},
		{
			name:    "add speed without value",
			yaml:    "entities: [{id: 1}]\nsteps: [{action: add_speed, entity: 1, name: Slow}]",
			wantErr: ErrInvalidScenario,
		},
		{
			name:    "add speed without name",
			yaml:    "entities: [{id: 1}]\nsteps: [{action: add_speed, entity: 1, value: 3}]",
			wantErr: ErrInvalidScenario,
		},
		{
			name:    "auto rotate without enabled",
			yaml:    "entities: [{id: 1}]\nsteps: [{action: add_auto_rotate, entity: 1, name: Lock}]",
			wantErr: ErrInvalidScenario,
		},
		{
			name:    "stun without effects",
			yaml:    "entities: [{id: 1}]\nsteps: [{action: add_stun, entity: 1, name: Hit}]",
			wantErr: ErrInvalidScenario,
		},
		{
			name:    "advance without duration",
			yaml:    "steps: [{action: advance}]",
			wantErr: ErrInvalidScenario,
		},
		{
			name:    "empty expect",
			yaml:    "entities: [{id: 1}]\nsteps: [{action: expect, entity: 1}]",
			wantErr: ErrInvalidScenario,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
