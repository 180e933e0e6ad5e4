package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/udisondev/statusfx/internal/status"
)

// SQLiteKillLog is the embedded kill log.
type SQLiteKillLog struct {
	sqlDB *sql.DB
}

// OpenSQLiteKillLog opens a SQLite kill log and applies embedded migrations.
func OpenSQLiteKillLog(ctx context.Context, path string) (*SQLiteKillLog, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrate(ctx, sqlDB, "sqlite3", "sqlite"); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &SQLiteKillLog{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *SQLiteKillLog) Close() error {
	return s.sqlDB.Close()
}

// RecordKill inserts a kill and its contributions in one transaction.
func (s *SQLiteKillLog) RecordKill(ctx context.Context, rec status.KillRecord) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin kill tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO kill_log (victim_id, killer_id, total_damage, killed_at) VALUES (?, ?, ?, ?)`,
		int64(rec.Victim), int64(rec.Killer), totalDamage(rec), rec.At.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("insert kill_log victim %d: %w", rec.Victim, err)
	}
	killID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("kill_log insert id: %w", err)
	}

	for _, c := range rec.Contributions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO kill_contributions (kill_id, attacker_id, damage) VALUES (?, ?, ?)`,
			killID, int64(c.Attacker), c.Damage); err != nil {
			return fmt.Errorf("insert kill_contributions kill %d: %w", killID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit kill tx: %w", err)
	}
	return nil
}

// ListByVictim returns the latest kills of a victim, newest first.
func (s *SQLiteKillLog) ListByVictim(ctx context.Context, victim uint32, limit int) ([]status.KillRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, victim_id, killer_id, killed_at
		 FROM kill_log WHERE victim_id = ?
		 ORDER BY killed_at DESC, id DESC
		 LIMIT ?`,
		int64(victim), limit)
	if err != nil {
		return nil, fmt.Errorf("query kill_log victim %d: %w", victim, err)
	}

	var (
		ids    []int64
		result []status.KillRecord
	)
	for rows.Next() {
		var id, victimID, killerID, at int64
		if err := rows.Scan(&id, &victimID, &killerID, &at); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan kill_log: %w", err)
		}
		ids = append(ids, id)
		result = append(result, status.KillRecord{
			Victim: uint32(victimID),
			Killer: uint32(killerID),
			At:     time.UnixMilli(at).UTC(),
		})
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("iterate kill_log: %w", err)
	}

	for i, id := range ids {
		contribs, err := s.contributions(ctx, id)
		if err != nil {
			return nil, err
		}
		result[i].Contributions = contribs
	}
	return result, nil
}

func (s *SQLiteKillLog) contributions(ctx context.Context, killID int64) ([]status.Contribution, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT attacker_id, damage FROM kill_contributions
		 WHERE kill_id = ? ORDER BY attacker_id`, killID)
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
func (s *SQLiteKillLog) TopKillers(ctx context.Context, limit int) ([]KillerStat, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT killer_id, COUNT(*), COALESCE(SUM(total_damage), 0)
		 FROM kill_log WHERE killer_id <> victim_id
		 GROUP BY killer_id
		 ORDER BY COUNT(*) DESC, killer_id
		 LIMIT ?`, limit)
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
