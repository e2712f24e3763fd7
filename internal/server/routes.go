package server

import (
	"aimtrainer/internal/bestscore"
	"aimtrainer/internal/config"
	"aimtrainer/internal/db"
	"aimtrainer/internal/events"
	"aimtrainer/internal/gamedata"
	"aimtrainer/internal/metrics"
	"aimtrainer/internal/recorder"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

//go:embed static
var staticFS embed.FS

func Run() error {
	appCfg := config.Load()
	gameCfg := gamedata.FromAppConfig(appCfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := events.NewBus()
	m := metrics.New()
	srv := NewServer(gameCfg, bestscore.NewFileStore(appCfg.BestFile), bus, m)

	if database := db.Setup(appCfg.DatabaseURL); database != nil {
		defer database.Close()
		srv.DB = database
	}

	srv.Recorder = recorder.New(srv.DB, m)
	recorderDone := make(chan struct{})
	go func() {
		defer close(recorderDone)
		srv.Recorder.Run(ctx, bus)
	}()
	// Runs before the deferred database.Close.
	defer func() {
		stop()
		<-recorderDone
	}()

	httpSrv := &http.Server{
		Addr:    "0.0.0.0:" + appCfg.Port,
		Handler: srv.Routes(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("Server listening on http://localhost:%s\n", appCfg.Port)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Routes() http.Handler {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /", http.FileServer(http.FS(static)))
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /stats/rounds", s.handleTopRounds)
	mux.HandleFunc("GET /stats/rounds/{id}", s.handleRound)
	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics.Handler())
	}
	return mux
}
