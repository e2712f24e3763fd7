package db

import (
	"fmt"
	"time"
)

type ClickEvent struct {
	RoundID    string
	X          int
	Y          int
	TargetX    int
	TargetY    int
	Radius     int
	Hit        bool
	SpawnedAt  time.Time
	ClickedAt  time.Time
	ReactionMs int
}

const insertClick = `
	INSERT INTO click_events (round_id, x, y, target_x, target_y, radius, hit, spawned_at, clicked_at, reaction_ms)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

func (d *DB) BatchRecordClicks(events []ClickEvent) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertClick)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.Exec(ev.RoundID, ev.X, ev.Y, ev.TargetX, ev.TargetY, ev.Radius, ev.Hit, ev.SpawnedAt, ev.ClickedAt, ev.ReactionMs); err != nil {
			return fmt.Errorf("recording click in batch: %w", err)
		}
	}

	return tx.Commit()
}
