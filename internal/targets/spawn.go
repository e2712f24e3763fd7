package targets

import (
	"math/rand"
	"sync"
	"time"
)

type Spawner interface {
	Spawn(b Bounds) Target
}

// RandomSpawner draws each coordinate uniformly and independently.
// The same position may come up twice in a row.
type RandomSpawner struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

func NewRandomSpawner(seed int64) *RandomSpawner {
	return &RandomSpawner{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

func (s *RandomSpawner) Spawn(b Bounds) Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Target{
		X:         b.MinX + s.rng.Intn(b.MaxX-b.MinX+1),
		Y:         b.MinY + s.rng.Intn(b.MaxY-b.MinY+1),
		Radius:    b.Radius,
		SpawnedAt: s.now(),
	}
}

// FixedSpawner hands out a fixed sequence of centers, repeating the last one.
type FixedSpawner struct {
	Points [][2]int
	next   int
}

func (s *FixedSpawner) Spawn(b Bounds) Target {
	p := s.Points[s.next]
	if s.next < len(s.Points)-1 {
		s.next++
	}
	return Target{X: p[0], Y: p[1], Radius: b.Radius, SpawnedAt: time.Now()}
}
