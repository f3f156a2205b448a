package main

import (
	"net/http"
	"os"
	"time"

	"truth-be-told/internal/config"
	"truth-be-told/internal/db"
	"truth-be-told/internal/server"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Warn().Err(err).Msg("failed to load .env")
	}
	cfg := config.Load()

	var storage server.Storage
	if os.Getenv("DATABASE_URL") != "" {
		conn, err := db.Open(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		if err := db.Migrate(conn); err != nil {
			log.Fatal().Err(err).Msg("database migration failed")
		}
		storage = db.NewStore(conn)
	} else {
		log.Warn().Msg("DATABASE_URL is not set; using in-memory storage")
		storage = server.NewMemStore()
	}

	addr := ":8080"
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}

	srv := server.New(storage, cfg)
	log.Info().Str("addr", addr).Msg("truth-be-told server listening")
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
