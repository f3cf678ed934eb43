// @title           Planner API
// @version         1.0
// @description     Collaborative event planning: events, task boards, polls, chat, invites and exports.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/vladaframchuk/event-planning-app-sub001/internal/app"
	"github.com/vladaframchuk/event-planning-app-sub001/internal/config"

	_ "github.com/vladaframchuk/event-planning-app-sub001/docs"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if cfg.App.Env == "dev" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	log.Info().Msg("config loaded, connecting to DB and Redis")

	application, err := app.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("app init")
	}
	application.Start()
	log.Info().Msg("app ready, starting HTTP server")

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      application.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := application.Close(ctx); err != nil {
		log.Error().Err(err).Msg("app close")
	}
}
