package db

import "fmt"

func (d *DB) AwardBadge(roundID, badgeID string) error {
	_, err := d.conn.Exec(`
		INSERT INTO round_badges (round_id, badge_id)
		VALUES ($1, $2)
		ON CONFLICT (round_id, badge_id) DO NOTHING
	`, roundID, badgeID)
	if err != nil {
		return fmt.Errorf("awarding badge: %w", err)
	}
	return nil
}

func (d *DB) GetRoundBadges(roundID string) ([]string, error) {
	rows, err := d.conn.Query(`
		SELECT badge_id FROM round_badges WHERE round_id = $1 ORDER BY awarded_at, badge_id
	`, roundID)
	if err != nil {
		return nil, fmt.Errorf("getting badges: %w", err)
	}
	defer rows.Close()

	var badges []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		badges = append(badges, id)
	}
	return badges, rows.Err()
}
