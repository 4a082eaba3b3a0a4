package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Agurato/moviestore/internal/model"
)

// Environment variables names
const (
	EnvDBBackend        = "DB_BACKEND"
	EnvDBURL            = "DB_URL"
	EnvDBPort           = "DB_PORT"
	EnvDBName           = "DB_NAME"
	EnvDBUser           = "DB_USER"
	EnvDBPassword       = "DB_PASSWORD"
	EnvSQLitePath       = "SQLITE_PATH"
	EnvMoviesCollection = "MOVIES_COLLECTION"
	EnvListenAddr       = "LISTEN_ADDR"
	EnvLogLevel         = "LOG_LEVEL"
	EnvRateLimit        = "RATE_LIMIT"
	EnvRateBurst        = "RATE_BURST"
)

type Config struct {
	DBBackend        string
	DBURL            string
	DBPort           string
	DBName           string
	DBUser           string
	DBPassword       string
	SQLitePath       string
	MoviesCollection string
	ListenAddr       string
	LogLevel         zerolog.Level
	RateLimit        float64
	RateBurst        int
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{
		DBBackend:        env(EnvDBBackend, "mongo"),
		DBURL:            env(EnvDBURL, "localhost"),
		DBPort:           env(EnvDBPort, "27017"),
		DBName:           env(EnvDBName, "moviestore"),
		DBUser:           os.Getenv(EnvDBUser),
		DBPassword:       os.Getenv(EnvDBPassword),
		SQLitePath:       env(EnvSQLitePath, "./data/movies.db"),
		MoviesCollection: env(EnvMoviesCollection, model.MoviesCollection),
		ListenAddr:       env(EnvListenAddr, ":8080"),
	}

	var err error
	if cfg.LogLevel, err = zerolog.ParseLevel(env(EnvLogLevel, "info")); err != nil {
		return nil, fmt.Errorf("error getting %s: %w", EnvLogLevel, err)
	}
	if cfg.RateLimit, err = strconv.ParseFloat(env(EnvRateLimit, "0"), 64); err != nil {
		return nil, fmt.Errorf("error getting %s: %w", EnvRateLimit, err)
	}
	if cfg.RateBurst, err = strconv.Atoi(env(EnvRateBurst, "10")); err != nil {
		return nil, fmt.Errorf("error getting %s: %w", EnvRateBurst, err)
	}
	return cfg, nil
}

// MongoURI builds the connection URI of the MongoDB deployment
func (c Config) MongoURI() string {
	if c.DBUser == "" {
		return fmt.Sprintf("mongodb://%s:%s", c.DBURL, c.DBPort)
	}
	return fmt.Sprintf("mongodb://%s@%s:%s", url.UserPassword(c.DBUser, c.DBPassword).String(), c.DBURL, c.DBPort)
}
