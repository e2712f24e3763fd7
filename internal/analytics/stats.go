package analytics

import (
	"aimtrainer/internal/events"
	"math"
)

// Summarize computes round statistics from the clicks of a single round.
func Summarize(roundID string, duration int, clicks []events.ClickEvent) RoundStats {
	stats := RoundStats{RoundID: roundID, Duration: duration, Clicks: len(clicks)}

	var reactionSum int
	for _, c := range clicks {
		if !c.Hit {
			continue
		}
		stats.Hits++
		ms := ReactionMs(c)
		reactionSum += ms
		if stats.BestReaction == 0 || ms < stats.BestReaction {
			stats.BestReaction = ms
		}
	}
	if stats.Hits > 0 {
		stats.AvgReaction = float64(reactionSum) / float64(stats.Hits)
	}
	if stats.Clicks > 0 {
		stats.Accuracy = int(math.Round(float64(stats.Hits) / float64(stats.Clicks) * 100))
	}
	if duration > 0 {
		stats.CPS = float64(stats.Clicks) / float64(duration)
	}
	return stats
}

// ReactionMs is the time between the target appearing and the click.
func ReactionMs(c events.ClickEvent) int {
	ms := int(c.ClickedAt.Sub(c.SpawnedAt).Milliseconds())
	if ms < 0 {
		return 0
	}
	return ms
}
