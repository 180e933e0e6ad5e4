package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/udisondev/statusfx/internal/status"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown kill log driver")

// KillerStat aggregates kills credited to one killer.
// Damage sums the total damage taken by the victims of those kills.
type KillerStat struct {
	Killer uint32
	Kills  int
	Damage float64
}

// KillLog stores resolved kill attributions.
// Implements status.KillRecorder.
type KillLog interface {
	RecordKill(ctx context.Context, rec status.KillRecord) error
	// ListByVictim returns the latest kills of a victim, newest first.
	ListByVictim(ctx context.Context, victim uint32, limit int) ([]status.KillRecord, error)
	// TopKillers ranks killers by kill count, self-inflicted deaths excluded.
	TopKillers(ctx context.Context, limit int) ([]KillerStat, error)
	Close() error
}

// Open connects to the kill log backend and applies migrations.
// driver is "postgres" (dsn is a connection URL) or "sqlite" (dsn is a file path).
func Open(ctx context.Context, driver, dsn string) (KillLog, error) {
	switch driver {
	case "postgres":
		return NewPostgresKillLog(ctx, dsn)
	case "sqlite":
		return OpenSQLiteKillLog(ctx, dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

func totalDamage(rec status.KillRecord) float64 {
	total := 0.0
	for _, c := range rec.Contributions {
		total += c.Damage
	}
	return total
}
