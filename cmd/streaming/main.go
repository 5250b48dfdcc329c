package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/synereval/internal/setup"
	"github.com/povarna/generative-ai-agents/synereval/internal/setup/logger"
	"github.com/povarna/generative-ai-agents/synereval/internal/stream"
	"github.com/povarna/generative-ai-agents/synereval/internal/stream/redis"
)

func main() {
	// Load env
	envErr := godotenv.Load()

	cfg := setup.LoadConfig()
	log := logger.New(cfg.LogLevel, cfg.LogPretty)
	if envErr != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	deps, err := setup.Wire(ctx, cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	streamCfg := &stream.StreamConfig{
		Provider: os.Getenv("STREAM_PROVIDER"),
		RedisConfig: redis.NewRedisStreamConfig(
			cfg.RedisAddr,
			cfg.RedisPassword,
			os.Getenv("REQUEST_STREAM"),
			os.Getenv("RESULT_STREAM"),
			os.Getenv("CONSUMER_GROUP"),
			os.Getenv("HOSTNAME"),
		),
	}

	consumer, err := stream.NewStreamConsumer(ctx, streamCfg, deps.DocumentExecutor, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create stream consumer")
	}

	if err := consumer.Setup(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to setup consumer")
	}

	go func() {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("Consumer stopped with error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down...")

	if err := consumer.Stop(); err != nil {
		log.Error().Err(err).Msg("Failed to stop consumer")
	}
	log.Info().Msg("Stream grader stopped")
}
