// The web attendance counter: upload participant panel screenshots from a
// browser, tally attendees, download the CSV.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"zoom-attendance-llm/config"
	"zoom-attendance-llm/logutil"
	"zoom-attendance-llm/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logutil.Setup(cfg.LogLevel, cfg.EnableFileLogging)

	sessions := web.NewSessionStore(cfg.CountPolicy, cfg.ExtractTimeout, logutil.WithComponent("capture"))
	server := web.NewServer(sessions, logutil.WithComponent("web"), cfg.Model, cfg.GeminiModel)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Str("policy", string(cfg.CountPolicy)).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
