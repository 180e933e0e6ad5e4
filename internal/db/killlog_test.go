package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/statusfx/internal/status"
)

// exerciseKillLog runs the same contract against every backend.
func exerciseKillLog(t *testing.T, log KillLog) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	records := []status.KillRecord{
		{
			Victim: 1, Killer: 3, At: base,
			Contributions: []status.Contribution{{Attacker: 2, Damage: 30}, {Attacker: 3, Damage: 45}},
		},
		{
			Victim: 1, Killer: 1, At: base.Add(time.Minute),
		},
		{
			Victim: 4, Killer: 3, At: base.Add(2 * time.Minute),
			Contributions: []status.Contribution{{Attacker: 3, Damage: 100}},
		},
		{
			Victim: 5, Killer: 2, At: base.Add(3 * time.Minute),
			Contributions: []status.Contribution{{Attacker: 2, Damage: 12.5}},
		},
	}
	for _, rec := range records {
		require.NoError(t, log.RecordKill(ctx, rec))
	}

	got, err := log.ListByVictim(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, uint32(1), got[0].Killer, "newest first: self-inflicted")
	assert.True(t, got[0].SelfInflicted())
	assert.Empty(t, got[0].Contributions)
	assert.True(t, got[0].At.Equal(base.Add(time.Minute)))

	assert.Equal(t, uint32(3), got[1].Killer)
	assert.Equal(t, records[0].Contributions, got[1].Contributions)

	limited, err := log.ListByVictim(ctx, 1, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := log.ListByVictim(ctx, 99, 10)
	require.NoError(t, err)
	assert.Empty(t, none)

	top, err := log.TopKillers(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []KillerStat{
		{Killer: 3, Kills: 2, Damage: 175},
		{Killer: 2, Kills: 1, Damage: 12.5},
	}, top)
}

func TestSQLiteKillLog(t *testing.T) {
	ctx := context.Background()
	log, err := OpenSQLiteKillLog(ctx, filepath.Join(t.TempDir(), "kills.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = log.Close() })

	exerciseKillLog(t, log)
}

func TestSQLiteKillLog_ReopenKeepsSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kills.db")

	first, err := OpenSQLiteKillLog(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.RecordKill(ctx, status.KillRecord{Victim: 1, Killer: 2, At: time.Now()}))
	require.NoError(t, first.Close())

	// Migrations are already applied; reopening must not fail.
	second, err := OpenSQLiteKillLog(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	got, err := second.ListByVictim(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestOpen_SQLiteViaDriverName(t *testing.T) {
	log, err := Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "kills.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = log.Close() })

	// Usable as the resolver's kill recorder.
	var _ status.KillRecorder = log
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "whatever")
	assert.True(t, errors.Is(err, ErrUnknownDriver))
}

func TestOpenSQLiteKillLog_EmptyPath(t *testing.T) {
	_, err := OpenSQLiteKillLog(context.Background(), "  ")
	assert.Error(t, err)
}
