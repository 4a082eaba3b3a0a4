package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Agurato/moviestore/internal/business"
	"github.com/Agurato/moviestore/internal/config"
	"github.com/Agurato/moviestore/internal/infrastructure"
	"github.com/Agurato/moviestore/internal/service/server"
)

func main() {
	godotenv.Load()

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)
	if cfg.LogLevel > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	store, err := infrastructure.NewDocumentStore(connectCtx, infrastructure.StoreConfig{
		Backend:    cfg.DBBackend,
		MongoURI:   cfg.MongoURI(),
		MongoDB:    cfg.DBName,
		SQLitePath: cfg.SQLitePath,
	})
	cancel()
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.DBBackend).Msg("Could not open document store")
	}
	defer store.Close()

	mm := business.NewMovieManager(store, business.MovieManagerConfig{
		CollectionName: cfg.MoviesCollection,
	})
	movieHandler := server.NewMovieHandler(mm)

	srv := &http.Server{
		Addr: cfg.ListenAddr,
		Handler: server.NewServer(server.ServerConfig{
			RateLimit: cfg.RateLimit,
			RateBurst: cfg.RateBurst,
		}, movieHandler),
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Str("backend", cfg.DBBackend).Str("collection", cfg.MoviesCollection).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Could not shut down server gracefully")
	}
}
