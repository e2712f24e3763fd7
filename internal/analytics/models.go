package analytics

import "time"

type RoundStats struct {
	RoundID      string  `json:"round_id"`
	Duration     int     `json:"duration"` // seconds
	Clicks       int     `json:"clicks"`
	Hits         int     `json:"hits"`
	Accuracy     int     `json:"accuracy"`
	AvgReaction  float64 `json:"avg_reaction_ms"` // hits only
	BestReaction int     `json:"best_reaction_ms"`
	CPS          float64 `json:"cps"` // clicks per second
}

type Summary struct {
	RoundsPlayed int     `json:"rounds_played"`
	BestHits     int     `json:"best_hits"`
	TotalHits    int     `json:"total_hits"`
	AvgAccuracy  float64 `json:"avg_accuracy"`
}

type RoundEntry struct {
	Rank     int        `json:"rank"`
	RoundID  string     `json:"round_id"`
	Hits     int        `json:"hits"`
	Clicks   int        `json:"clicks"`
	Accuracy int        `json:"accuracy"`
	EndedAt  *time.Time `json:"ended_at"`
}
