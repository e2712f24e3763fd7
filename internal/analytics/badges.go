package analytics

type BadgeID string

const (
	BadgeSharpshooter BadgeID = "sharpshooter"
	BadgeSpeedDemon   BadgeID = "speed_demon"
	BadgeCenturion    BadgeID = "centurion"
	BadgeTriggerHappy BadgeID = "trigger_happy"
)

type Badge struct {
	ID          BadgeID
	Name        string
	Description string
}

var AllBadges = map[BadgeID]Badge{
	BadgeSharpshooter: {ID: BadgeSharpshooter, Name: "Sharpshooter", Description: "90%+ accuracy over at least 10 clicks"},
	BadgeSpeedDemon:   {ID: BadgeSpeedDemon, Name: "Speed Demon", Description: "Average hit reaction under 400ms"},
	BadgeCenturion:    {ID: BadgeCenturion, Name: "Centurion", Description: "100+ hits in a single round"},
	BadgeTriggerHappy: {ID: BadgeTriggerHappy, Name: "Trigger Happy", Description: "3+ clicks per second average"},
}

// EvaluateRoundBadges checks which badges a finished round earned.
func EvaluateRoundBadges(stats RoundStats) []Badge {
	var earned []Badge

	if stats.Clicks >= 10 && stats.Accuracy >= 90 {
		earned = append(earned, AllBadges[BadgeSharpshooter])
	}

	if stats.Hits > 0 && stats.AvgReaction > 0 && stats.AvgReaction < 400 {
		earned = append(earned, AllBadges[BadgeSpeedDemon])
	}

	if stats.Hits >= 100 {
		earned = append(earned, AllBadges[BadgeCenturion])
	}

	if stats.CPS >= 3.0 {
		earned = append(earned, AllBadges[BadgeTriggerHappy])
	}

	return earned
}
