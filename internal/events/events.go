package events

import "time"

type RoundStartedEvent struct {
	RoundID   string
	StartedAt time.Time
	Duration  int // seconds
}

type ClickEvent struct {
	RoundID   string
	X         int
	Y         int
	TargetX   int
	TargetY   int
	Radius    int
	Hit       bool
	SpawnedAt time.Time
	ClickedAt time.Time
}

type RoundEndedEvent struct {
	RoundID   string
	StartedAt time.Time
	EndedAt   time.Time
	Duration  int // seconds
	Hits      int
	Clicks    int
	Accuracy  int
	Best      int
	NewRecord bool
}

// RoundAbandonedEvent is published instead of RoundEndedEvent when the
// player leaves before time runs out.
type RoundAbandonedEvent struct {
	RoundID     string
	StartedAt   time.Time
	AbandonedAt time.Time
	Hits        int
	Clicks      int
}

type Bus struct {
	RoundStarts   chan RoundStartedEvent
	Clicks        chan ClickEvent
	RoundEnds     chan RoundEndedEvent
	RoundAbandons chan RoundAbandonedEvent
}

func NewBus() *Bus {
	return &Bus{
		RoundStarts:   make(chan RoundStartedEvent, 10),
		Clicks:        make(chan ClickEvent, 1000),
		RoundEnds:     make(chan RoundEndedEvent, 10),
		RoundAbandons: make(chan RoundAbandonedEvent, 10),
	}
}

// The Publish methods never block. They report false when the event was
// dropped because the bus is nil or the channel is full.

func (b *Bus) PublishRoundStarted(ev RoundStartedEvent) bool {
	if b == nil {
		return false
	}
	select {
	case b.RoundStarts <- ev:
		return true
	default:
		return false
	}
}

func (b *Bus) PublishClick(ev ClickEvent) bool {
	if b == nil {
		return false
	}
	select {
	case b.Clicks <- ev:
		return true
	default:
		return false
	}
}

func (b *Bus) PublishRoundEnded(ev RoundEndedEvent) bool {
	if b == nil {
		return false
	}
	select {
	case b.RoundEnds <- ev:
		return true
	default:
		return false
	}
}

func (b *Bus) PublishRoundAbandoned(ev RoundAbandonedEvent) bool {
	if b == nil {
		return false
	}
	select {
	case b.RoundAbandons <- ev:
		return true
	default:
		return false
	}
}
