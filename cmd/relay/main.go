package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/LucasNeuro/fta-form-sub000/internal/relay"
	"github.com/LucasNeuro/fta-form-sub000/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log := logger.New(logger.Config{Level: os.Getenv("LOG_LEVEL")})

	cfg, err := relay.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load relay config")
	}

	// Refuse to start without a usable client certificate; running blind
	// would turn every provider call into an opaque TLS failure later.
	cert, err := cfg.LoadKeyPair()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load client certificate")
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: relay.NewServer(cfg, relay.NewForwarder(cfg, cert), log).Engine(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Int("port", cfg.Port).Msg("relay starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("relay failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
