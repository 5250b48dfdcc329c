package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/synereval/internal/models"
	red "github.com/povarna/generative-ai-agents/synereval/internal/redis"
	"github.com/povarna/generative-ai-agents/synereval/internal/setup"
	"github.com/povarna/generative-ai-agents/synereval/internal/setup/logger"
	streamredis "github.com/povarna/generative-ai-agents/synereval/internal/stream/redis"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	data := flag.String("d", "", "Inline JSON EvaluationRequest")
	stream := flag.String("stream", streamredis.DefaultRequestStream, "Stream name")
	flag.Parse()

	if *data == "" {
		fmt.Fprintln(os.Stderr, "Usage: producer -d '<json>'")
		flag.PrintDefaults()
		os.Exit(1)
	}

	_ = godotenv.Load()
	cfg := setup.LoadConfig()
	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	if err := run(cfg, &log, *data, *stream); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(cfg *setup.Config, log *zerolog.Logger, data, stream string) error {
	var req models.EvaluationRequest
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return fmt.Errorf("invalid evaluation request: %w", err)
	}
	if len(req.ModelResponses) != len(req.ReferenceResponses) {
		return &models.ShapeMismatchError{
			Expected: len(req.ReferenceResponses),
			Actual:   len(req.ModelResponses),
			Detail:   "model_responses and reference_responses differ in length",
		}
	}

	ctx := context.Background()
	client, err := red.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, 3, log)
	if err != nil {
		return err
	}
	defer client.Close()

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"payload": data},
	}).Result()
	if err != nil {
		return err
	}

	log.Info().Str("stream", stream).Str("id", id).Str("request_id", req.RequestID).Msg("Published successfully!")
	return nil
}
