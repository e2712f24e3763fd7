package main

import (
	"aimtrainer/internal/bestscore"
	"aimtrainer/internal/config"
	"aimtrainer/internal/db"
	"aimtrainer/internal/desktop"
	"aimtrainer/internal/events"
	"aimtrainer/internal/gamedata"
	"aimtrainer/internal/recorder"
	"context"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	appCfg := config.Load()
	gameCfg := gamedata.FromAppConfig(appCfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewBus()
	database := db.Setup(appCfg.DatabaseURL)
	if database != nil {
		defer database.Close()
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		recorder.New(database, nil).Run(ctx, bus)
	}()
	defer func() {
		cancel()
		<-done
	}()

	game := desktop.New(gameCfg, bestscore.NewFileStore(appCfg.BestFile), bus)

	w, h := game.Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Aim Trainer")

	if err := ebiten.RunGame(game); err != nil {
		log.Println("[Desktop]", err)
	}
	game.Close()
}
