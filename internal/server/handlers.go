package server

import (
	"aimtrainer/internal/analytics"
	"aimtrainer/internal/db"
	"aimtrainer/internal/events"
	"aimtrainer/internal/gamedata"
	"aimtrainer/internal/metrics"
	"aimtrainer/internal/recorder"
	"aimtrainer/internal/wshub"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type Server struct {
	Game     gamedata.Config
	Best     gamedata.BestStore
	Bus      *events.Bus
	Hub      *wshub.Hub
	Metrics  *metrics.Metrics   // nil disables /metrics
	Recorder *recorder.Recorder // nil if events are not being recorded
	DB       *db.DB             // nil if no database configured
}

// NewServer seeds the best score gauge from the store, so it is right before
// the first round ends.
func NewServer(cfg gamedata.Config, best gamedata.BestStore, bus *events.Bus, m *metrics.Metrics) *Server {
	if m != nil && best != nil {
		if n, err := best.Load(); err == nil {
			m.BestScore.Set(float64(n))
		}
	}
	return &Server{
		Game:    cfg,
		Best:    best,
		Bus:     bus,
		Hub:     wshub.NewHub(),
		Metrics: m,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println(err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok", "sessions": s.Hub.Len()}
	if s.DB != nil {
		if err := s.DB.Ping(); err != nil {
			resp["status"] = "db_error"
			resp["error"] = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type statsResponse struct {
	Best    int                    `json:"best"`
	Summary *analytics.Summary     `json:"summary,omitempty"`
	Recent  []analytics.RoundStats `json:"recent"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{Recent: []analytics.RoundStats{}}

	if s.Best != nil {
		if best, err := s.Best.Load(); err == nil {
			resp.Best = best
		}
	}
	if s.Recorder != nil {
		resp.Recent = s.Recorder.Recent()
	}
	if s.DB != nil {
		summary, err := analytics.NewQueries(s.DB).GetSummary()
		if err != nil {
			log.Printf("[Analytics] summary error: %v\n", err)
		} else {
			resp.Summary = summary
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTopRounds(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "Round history requires a database connection", http.StatusServiceUnavailable)
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := analytics.NewQueries(s.DB).TopRounds(limit)
	if err != nil {
		log.Printf("[Analytics] top rounds error: %v\n", err)
		http.Error(w, "Error loading rounds", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []analytics.RoundEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

type roundResponse struct {
	Stats     *analytics.RoundStats `json:"stats"`
	StartedAt time.Time             `json:"started_at"`
	EndedAt   *time.Time            `json:"ended_at"`
	NewRecord bool                  `json:"new_record"`
	Badges    []string              `json:"badges"`
}

func (s *Server) handleRound(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "Round history requires a database connection", http.StatusServiceUnavailable)
		return
	}

	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		http.Error(w, "Invalid round id", http.StatusBadRequest)
		return
	}

	round, err := s.DB.GetRound(id)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Round not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[Analytics] round %s error: %v\n", id, err)
		http.Error(w, "Error loading round", http.StatusInternalServerError)
		return
	}

	stats, err := analytics.NewQueries(s.DB).GetRoundStats(id)
	if err != nil {
		log.Printf("[Analytics] round %s stats error: %v\n", id, err)
		http.Error(w, "Error loading round", http.StatusInternalServerError)
		return
	}
	badges, err := s.DB.GetRoundBadges(id)
	if err != nil {
		log.Printf("[Analytics] round %s badges error: %v\n", id, err)
		http.Error(w, "Error loading round", http.StatusInternalServerError)
		return
	}
	if badges == nil {
		badges = []string{}
	}

	writeJSON(w, http.StatusOK, roundResponse{
		Stats:     stats,
		StartedAt: round.StartedAt,
		EndedAt:   round.EndedAt,
		NewRecord: round.NewRecord,
		Badges:    badges,
	})
}
