package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/coursedesk/course-survey-mcp/internal/api"
	"github.com/coursedesk/course-survey-mcp/internal/setup"
	"github.com/emicklei/go-restful/v3"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	logger := log.Logger

	// Load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx := context.Background()

	cfg := setup.LoadConfig()

	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to load dependencies")
	}

	container := restful.NewContainer()
	handler := api.NewHandler(deps.Registry, &logger)
	api.RegisterRoutes(container, handler)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(container)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info().Str("addr", addr).Msg("Starting HTTP server")
	if err := http.ListenAndServe(addr, corsHandler); err != nil {
		log.Fatal().Err(err).Msg("HTTP server stopped")
	}
}
