package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/statusfx/internal/status"
)

// PostgresKillLog is the PostgreSQL kill log.
type PostgresKillLog struct {
	pool *pgxpool.Pool
}

// NewPostgresKillLog connects to PostgreSQL, applies migrations and returns the kill log.
func NewPostgresKillLog(ctx context.Context, dsn string) (*PostgresKillLog, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if err := RunMigrations(ctx, dsn); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresKillLog{pool: pool}, nil
}

// NewPostgresKillLogFromPool wraps an existing, already migrated pool.
func NewPostgresKillLogFromPool(pool *pgxpool.Pool) *PostgresKillLog {
	return &PostgresKillLog{pool: pool}
}

// Close closes the database connection pool.
func (r *PostgresKillLog) Close() error {
	r.pool.Close()
	return nil
}

// RecordKill inserts a kill and its contributions in one transaction.
func (r *PostgresKillLog) RecordKill(ctx context.Context, rec status.KillRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin kill tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var killID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO kill_log (victim_id, killer_id, total_damage, killed_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		int64(rec.Victim), int64(rec.Killer), totalDamage(rec), rec.At.UTC().UnixMilli(),
	).Scan(&killID)
	if err != nil {
		return fmt.Errorf("insert kill_log victim %d: %w", rec.Victim, err)
	}

	if len(rec.Contributions) > 0 {
		batch := &pgx.Batch{}
		for _, c := range rec.Contributions {
			batch.Queue(
				`INSERT INTO kill_contributions (kill_id, attacker_id, damage) VALUES ($1, $2, $3)`,
				killID, int64(c.Attacker), c.Damage)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert kill_contributions kill %d: %w", killID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit kill tx: %w", err)
	}
	return nil
}

// ListByVictim returns the latest kills of a victim, newest first.
func (r *PostgresKillLog) ListByVictim(ctx context.Context, victim uint32, limit int) ([]status.KillRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, victim_id, killer_id, killed_at
		 FROM kill_log WHERE victim_id = $1
		 ORDER BY killed_at DESC, id DESC
		 LIMIT $2`,
		int64(victim), limit)
	if err != nil {
		return nil, fmt.Errorf("query kill_log victim %d: %w", victim, err)
	}
	defer rows.Close()

	var (
		ids    []int64
		result []status.KillRecord
	)
	for rows.Next() {
		var (
			id, victimID, killerID, at int64
		)
		if err := rows.Scan(&id, &victimID, &killerID, &at); err != nil {
			return nil, fmt.Errorf("scan kill_log: %w", err)
		}
		ids = append(ids, id)
		result = append(result, status.KillRecord{
			Victim: uint32(victimID),
			Killer: uint32(killerID),
			At:     time.UnixMilli(at).UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate kill_log: %w", err)
	}

	for i, id := range ids {
		contribs, err := r.contributions(ctx, id)
		if err != nil {
			return nil, err
		}
		result[i].Contributions = contribs
	}
	return result, nil
}

func (r *PostgresKillLog) contributions(ctx context.Context, killID int64) ([]status.Contribution, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT attacker_id, damage FROM kill_contributions
		 WHERE kill_id = $1 ORDER BY attacker_id`, killID)
	if err != nil {
		return nil, fmt.Errorf("query kill_contributions kill %d: %w", killID, err)
	}
	defer rows.Close()

	var result []status.Contribution
	for rows.Next() {
		var (
			attacker int64
			damage   float64
		)
		if err := rows.Scan(&attacker, &damage); err != nil {
			return nil, fmt.Errorf("scan kill_contributions: %w", err)
		}
		result = append(result, status.Contribution{Attacker: uint32(attacker), Damage: damage})
	}
	return result, rows.Err()
}

// TopKillers ranks killers by kill count, self-inflicted deaths excluded.
func (r *PostgresKillLog) TopKillers(ctx context.Context, limit int) ([]KillerStat, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT killer_id, COUNT(*), COALESCE(SUM(total_damage), 0)
		 FROM kill_log WHERE killer_id <> victim_id
		 GROUP BY killer_id
		 ORDER BY COUNT(*) DESC, killer_id
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top killers: %w", err)
	}
	defer rows.Close()

	var result []KillerStat
	for rows.Next() {
		var (
			killer int64
			kills  int64
			damage float64
		)
		if err := rows.Scan(&killer, &kills, &damage); err != nil {
			return nil, fmt.Errorf("scan top killers: %w", err)
		}
		result = append(result, KillerStat{Killer: uint32(killer), Kills: int(kills), Damage: damage})
	}
	return result, rows.Err()
}
