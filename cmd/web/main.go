package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ayushshah21/EchoVote/internal/config"
	"github.com/ayushshah21/EchoVote/internal/db"
	"github.com/ayushshah21/EchoVote/internal/events"
	"github.com/ayushshah21/EchoVote/internal/player"
	"github.com/ayushshah21/EchoVote/internal/server"
	"github.com/ayushshah21/EchoVote/internal/spotify"
	"github.com/ayushshah21/EchoVote/internal/wshub"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[Config] no .env file, using environment")
	}
	cfg := config.Load()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[DB] %v", err)
	}
	defer database.Close()

	if err := database.CreateSchema(); err != nil {
		log.Fatalf("[DB] %v", err)
	}
	log.Println("[DB] Schema ready")

	bus := events.NewBus()
	hub := wshub.NewHub(bus)
	provider := spotify.NewClient()
	tracker := player.NewTracker(database, provider, hub, cfg.PollInterval())
	gateway := player.NewGateway(database, provider, hub, tracker)

	srv := &server.Server{
		Store:   database,
		Hub:     hub,
		Tracker: tracker,
		Gateway: gateway,
		Search:  provider,
		Cfg:     cfg,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.WatchMembership(ctx, bus)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.NewRouter(srv),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		cancel()
		httpServer.Close()
	}()

	log.Printf("[Server] Listening on :%s", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[Server] %v", err)
	}
}
