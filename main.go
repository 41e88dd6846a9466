package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"smartbin/internal/config"
	"smartbin/internal/db"
	"smartbin/internal/logger"
	"smartbin/internal/router"
	"smartbin/internal/store"
)

func main() {
	cfg := config.LoadConfig()

	log := logger.InitLogger()
	log.Info().Msg("Starting smartbin server")

	var st store.Store
	switch cfg.StoreBackend {
	case "redis":
		redisStore, err := store.NewRedisStore(cfg.RedisAddr, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to redis")
		}
		st = redisStore
	default:
		database := db.InitDB(cfg.DBUrl)
		db.RunMigrations(database)
		st = store.NewMySQLStore(database, log)
	}
	defer st.Close()

	r := router.SetupRouter(st, cfg, log)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info().Msgf("Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Server stopped")
}
