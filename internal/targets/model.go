package targets

import "time"

// Margin keeps a target's edge this many pixels away from the board edge.
const Margin = 5

type Target struct {
	X         int
	Y         int
	Radius    int
	SpawnedAt time.Time
}

// Contains reports whether (px, py) lies inside the target or on its edge.
func (t Target) Contains(px, py int) bool {
	dx := px - t.X
	dy := py - t.Y
	return dx*dx+dy*dy <= t.Radius*t.Radius
}

// Bounds is the inclusive range a target center may take on a board.
type Bounds struct {
	MinX, MaxX int
	MinY, MaxY int
	Radius     int
}

func BoundsFor(width, height, radius int) Bounds {
	return Bounds{
		MinX:   radius + Margin,
		MaxX:   width - radius - Margin,
		MinY:   radius + Margin,
		MaxY:   height - radius - Margin,
		Radius: radius,
	}
}
