package db

import (
	"fmt"
	"time"
)

type RoundRecord struct {
	ID         string
	StartedAt  time.Time
	EndedAt    *time.Time
	DurationMs int
	Hits       int
	Clicks     int
	Accuracy   int
	NewRecord  bool
}

// CreateRound inserts the round, or leaves an existing row untouched.
func (d *DB) CreateRound(id string, startedAt time.Time, durationMs int) error {
	_, err := d.conn.Exec(`
		INSERT INTO rounds (id, started_at, duration_ms)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`, id, startedAt, durationMs)
	if err != nil {
		return fmt.Errorf("creating round: %w", err)
	}
	return nil
}

// EndRound stores the final result. It also works if CreateRound never ran.
func (d *DB) EndRound(r RoundRecord) error {
	_, err := d.conn.Exec(`
		INSERT INTO rounds (id, started_at, ended_at, duration_ms, hits, clicks, accuracy, new_record)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			ended_at = $3, hits = $5, clicks = $6, accuracy = $7, new_record = $8
	`, r.ID, r.StartedAt, r.EndedAt, r.DurationMs, r.Hits, r.Clicks, r.Accuracy, r.NewRecord)
	if err != nil {
		return fmt.Errorf("ending round: %w", err)
	}
	return nil
}

func (d *DB) GetRound(id string) (*RoundRecord, error) {
	var r RoundRecord
	err := d.conn.QueryRow(`
		SELECT id, started_at, ended_at, duration_ms, hits, clicks, accuracy, new_record
		FROM rounds WHERE id = $1
	`, id).Scan(&r.ID, &r.StartedAt, &r.EndedAt, &r.DurationMs, &r.Hits, &r.Clicks, &r.Accuracy, &r.NewRecord)
	if err != nil {
		return nil, fmt.Errorf("getting round: %w", err)
	}
	return &r, nil
}
