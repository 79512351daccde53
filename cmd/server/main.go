package main

import (
	log "github.com/sirupsen/logrus"

	"github.com/prasheelsuvarna/Crash-game/internal/config"
	"github.com/prasheelsuvarna/Crash-game/internal/database"
	"github.com/prasheelsuvarna/Crash-game/internal/engine"
	"github.com/prasheelsuvarna/Crash-game/internal/pricing"
	"github.com/prasheelsuvarna/Crash-game/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	oracle := pricing.NewCoinGeckoOracle(cfg.PriceAPIURL, cfg.PriceCacheTTL, cfg.PriceTimeout)
	hub := server.NewHub()

	eng := engine.New(engine.Options{
		RoundDuration:     cfg.RoundDuration,
		TickInterval:      cfg.TickInterval,
		CountdownInterval: cfg.CountdownInterval,
		MinCrashSeconds:   cfg.MinCrashSeconds,
		MaxCrashSeconds:   cfg.MaxCrashSeconds,
	}, db, db, oracle, hub)

	gameServer := server.NewGameServer(cfg, db, eng, hub, oracle)
	if err := gameServer.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
