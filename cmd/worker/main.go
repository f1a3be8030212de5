package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/claimsight/claims-agent/internal/setup"
	"github.com/claimsight/claims-agent/internal/setup/logger"
	"github.com/claimsight/claims-agent/internal/stream"
	"github.com/claimsight/claims-agent/internal/stream/redis"
)

func main() {
	// Workers log structured JSON; LOG_LEVEL tunes verbosity per deployment.
	workerLogger := logger.New(os.Getenv("LOG_LEVEL"))
	log.Logger = workerLogger

	// Load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := setup.LoadConfig()
	deps, err := setup.Wire(ctx, cfg, &workerLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	if deps.Store != nil {
		defer deps.Store.Close()
	}

	streamCfg := &stream.StreamConfig{
		Provider: os.Getenv("STREAM_PROVIDER"),
		RedisConfig: redis.NewRedisStreamConfig(
			cfg.RedisAddr,
			cfg.RedisPassword,
			cfg.ClaimStream,
			cfg.ResultStream,
			cfg.ConsumerGroup,
			cfg.ConsumerName,
		),
	}

	consumer, err := stream.NewStreamConsumer(ctx, streamCfg, deps.Pipeline, &workerLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create stream consumer")
	}

	if err := consumer.Setup(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to setup consumer")
	}

	go func() {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			workerLogger.Error().Err(err).Msg("Consumer stopped with error")
		}
	}()

	<-ctx.Done()
	workerLogger.Info().Msg("Shutting down...")

	log.Info().Msg("Claims worker stopped")
}
