package analytics

import (
	"aimtrainer/internal/db"
	"fmt"
	"math"
)

type Queries struct {
	DB *db.DB
}

func NewQueries(database *db.DB) *Queries {
	return &Queries{DB: database}
}

func (q *Queries) GetRoundStats(roundID string) (*RoundStats, error) {
	stats := &RoundStats{RoundID: roundID}

	var durationMs int
	err := q.DB.QueryRow(`
		SELECT duration_ms FROM rounds WHERE id = $1
	`, roundID).Scan(&durationMs)
	if err != nil {
		return nil, fmt.Errorf("getting round: %w", err)
	}
	stats.Duration = durationMs / 1000

	err = q.DB.QueryRow(`
		SELECT
			COUNT(*) as clicks,
			COUNT(*) FILTER (WHERE hit) as hits,
			COALESCE(AVG(reaction_ms) FILTER (WHERE hit), 0) as avg_reaction,
			COALESCE(MIN(reaction_ms) FILTER (WHERE hit), 0) as best_reaction
		FROM click_events
		WHERE round_id = $1
	`, roundID).Scan(&stats.Clicks, &stats.Hits, &stats.AvgReaction, &stats.BestReaction)
	if err != nil {
		return nil, fmt.Errorf("getting click stats: %w", err)
	}

	if stats.Clicks > 0 {
		stats.Accuracy = int(math.Round(float64(stats.Hits) / float64(stats.Clicks) * 100))
	}
	if stats.Duration > 0 {
		stats.CPS = float64(stats.Clicks) / float64(stats.Duration)
	}
	return stats, nil
}

func (q *Queries) GetSummary() (*Summary, error) {
	s := &Summary{}
	err := q.DB.QueryRow(`
		SELECT
			COUNT(*) as rounds_played,
			COALESCE(MAX(hits), 0) as best_hits,
			COALESCE(SUM(hits), 0) as total_hits,
			COALESCE(AVG(accuracy), 0) as avg_accuracy
		FROM rounds
		WHERE ended_at IS NOT NULL
	`).Scan(&s.RoundsPlayed, &s.BestHits, &s.TotalHits, &s.AvgAccuracy)
	if err != nil {
		return nil, fmt.Errorf("getting summary: %w", err)
	}
	return s, nil
}

// TopRounds lists finished rounds by hits, most recent first on ties.
func (q *Queries) TopRounds(limit int) ([]RoundEntry, error) {
	rows, err := q.DB.Query(`
		SELECT id, hits, clicks, accuracy, ended_at
		FROM rounds
		WHERE ended_at IS NOT NULL
		ORDER BY hits DESC, ended_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("getting top rounds: %w", err)
	}
	defer rows.Close()

	var entries []RoundEntry
	rank := 1
	for rows.Next() {
		var e RoundEntry
		if err := rows.Scan(&e.RoundID, &e.Hits, &e.Clicks, &e.Accuracy, &e.EndedAt); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
