// Package recorder drains the round event bus into metrics and, when a
// database is configured, into round history.
package recorder

import (
	"aimtrainer/internal/analytics"
	"aimtrainer/internal/db"
	"aimtrainer/internal/events"
	"aimtrainer/internal/metrics"
	"context"
	"log"
	"sync"
	"time"
)

const (
	batchSize     = 50
	flushInterval = 500 * time.Millisecond
	recentLimit   = 20

	// staleAfter is how long past its scheduled end a round's clicks stay
	// buffered when neither its end nor its abandonment arrives.
	staleAfter = time.Minute
)

// roundBuffer holds a running round's clicks until the round finishes.
type roundBuffer struct {
	expires time.Time
	clicks  []events.ClickEvent
}

type Recorder struct {
	DB      *db.DB           // nil if no database configured
	Metrics *metrics.Metrics // nil disables metrics

	rounds map[string]*roundBuffer
	batch  []db.ClickEvent
	now    func() time.Time

	mu     sync.Mutex
	recent []analytics.RoundStats
}

func New(database *db.DB, m *metrics.Metrics) *Recorder {
	return &Recorder{
		DB:      database,
		Metrics: m,
		rounds:  make(map[string]*roundBuffer),
		batch:   make([]db.ClickEvent, 0, batchSize),
		now:     time.Now,
	}
}

// Run consumes events until ctx is cancelled.
func (r *Recorder) Run(ctx context.Context, bus *events.Bus) {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.drain(bus)
			r.flush()
			return
		case ev := <-bus.RoundStarts:
			r.roundStarted(ev)
		case ev := <-bus.Clicks:
			r.click(ev)
		case ev := <-bus.RoundEnds:
			// A round's starts and clicks are published before its end.
			r.drain(bus)
			r.roundEnded(ev)
		case ev := <-bus.RoundAbandons:
			r.drain(bus)
			r.roundAbandoned(ev)
		case <-ticker.C:
			r.flush()
			r.dropStale()
		}
	}
}

// Recent returns stats for the latest finished rounds, newest first.
func (r *Recorder) Recent() []analytics.RoundStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]analytics.RoundStats, len(r.recent))
	copy(out, r.recent)
	return out
}

func (r *Recorder) drain(bus *events.Bus) {
	for {
		select {
		case ev := <-bus.RoundStarts:
			r.roundStarted(ev)
		case ev := <-bus.Clicks:
			r.click(ev)
		default:
			return
		}
	}
}

func (r *Recorder) roundStarted(ev events.RoundStartedEvent) {
	if r.Metrics != nil {
		r.Metrics.RoundsStarted.Inc()
	}
	buf := r.buffer(ev.RoundID)
	if !ev.StartedAt.IsZero() {
		buf.expires = ev.StartedAt.Add(time.Duration(ev.Duration)*time.Second + staleAfter)
	}
	if r.DB != nil {
		if err := r.DB.CreateRound(ev.RoundID, ev.StartedAt, ev.Duration*1000); err != nil {
			log.Printf("[DB] CreateRound error: %v\n", err)
		}
	}
}

func (r *Recorder) click(ev events.ClickEvent) {
	if r.Metrics != nil {
		r.Metrics.ObserveClick(ev.Hit)
	}
	buf := r.buffer(ev.RoundID)
	buf.clicks = append(buf.clicks, ev)
	if r.DB == nil {
		return
	}
	r.batch = append(r.batch, db.ClickEvent{
		RoundID:    ev.RoundID,
		X:          ev.X,
		Y:          ev.Y,
		TargetX:    ev.TargetX,
		TargetY:    ev.TargetY,
		Radius:     ev.Radius,
		Hit:        ev.Hit,
		SpawnedAt:  ev.SpawnedAt,
		ClickedAt:  ev.ClickedAt,
		ReactionMs: analytics.ReactionMs(ev),
	})
	if len(r.batch) >= batchSize {
		r.flush()
	}
}

func (r *Recorder) roundEnded(ev events.RoundEndedEvent) {
	if r.Metrics != nil {
		r.Metrics.ObserveRoundEnd(ev.Hits, ev.Best)
	}

	var clicks []events.ClickEvent
	if buf, ok := r.rounds[ev.RoundID]; ok {
		clicks = buf.clicks
		delete(r.rounds, ev.RoundID)
	}
	stats := analytics.Summarize(ev.RoundID, ev.Duration, clicks)
	badges := analytics.EvaluateRoundBadges(stats)
	for _, b := range badges {
		log.Printf("[Round] %s earned %s\n", ev.RoundID, b.Name)
	}

	r.mu.Lock()
	r.recent = append([]analytics.RoundStats{stats}, r.recent...)
	if len(r.recent) > recentLimit {
		r.recent = r.recent[:recentLimit]
	}
	r.mu.Unlock()

	if r.DB == nil {
		return
	}
	r.flush()
	ended := ev.EndedAt
	err := r.DB.EndRound(db.RoundRecord{
		ID:         ev.RoundID,
		StartedAt:  ev.StartedAt,
		EndedAt:    &ended,
		DurationMs: ev.Duration * 1000,
		Hits:       ev.Hits,
		Clicks:     ev.Clicks,
		Accuracy:   ev.Accuracy,
		NewRecord:  ev.NewRecord,
	})
	if err != nil {
		log.Printf("[DB] EndRound error: %v\n", err)
		return
	}
	for _, b := range badges {
		if err := r.DB.AwardBadge(ev.RoundID, string(b.ID)); err != nil {
			log.Printf("[DB] AwardBadge error: %v\n", err)
		}
	}
}

// roundAbandoned discards the round's buffered clicks. Clicks already batched
// for the database are still written; the round row keeps no end time.
func (r *Recorder) roundAbandoned(ev events.RoundAbandonedEvent) {
	if r.Metrics != nil {
		r.Metrics.RoundsAbandoned.Inc()
	}
	delete(r.rounds, ev.RoundID)
	log.Printf("[Round] %s abandoned after %d clicks\n", ev.RoundID, ev.Clicks)
}

// buffer returns the round's click buffer, creating one that expires
// staleAfter from now if the round is unknown.
func (r *Recorder) buffer(roundID string) *roundBuffer {
	buf, ok := r.rounds[roundID]
	if !ok {
		buf = &roundBuffer{expires: r.now().Add(staleAfter)}
		r.rounds[roundID] = buf
	}
	return buf
}

// dropStale forgets rounds whose end or abandonment was lost to a full bus.
func (r *Recorder) dropStale() {
	now := r.now()
	for id, buf := range r.rounds {
		if now.After(buf.expires) {
			log.Printf("[Round] %s dropped: no end received\n", id)
			delete(r.rounds, id)
		}
	}
}

func (r *Recorder) flush() {
	if r.DB == nil || len(r.batch) == 0 {
		return
	}
	if err := r.DB.BatchRecordClicks(r.batch); err != nil {
		log.Printf("[DB] BatchRecordClicks error: %v\n", err)
	}
	r.batch = r.batch[:0]
}
