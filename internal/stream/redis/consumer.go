package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/synereval/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Evaluator grades the model responses of one request.
type Evaluator interface {
	Execute(ctx context.Context, instruction string, candidates []string, references []string, rubric models.RubricSpec) ([]models.DocumentResult, error)
}

// Consumer reads EvaluationRequest payloads from a stream and publishes
// EvaluationResponse payloads to the result stream.
type Consumer struct {
	client       redis.Cmdable
	stream       string
	resultStream string
	groupID      string
	consumerName string
	evaluator    Evaluator
	logger       *zerolog.Logger
}

func NewConsumer(client redis.Cmdable, cfg *RedisStreamConfig, evaluator Evaluator, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:       client,
		stream:       cfg.Stream,
		resultStream: cfg.ResultStream,
		groupID:      cfg.Group,
		consumerName: cfg.ConsumerName,
		evaluator:    evaluator,
		logger:       logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("result_stream", c.resultStream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err()
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, stream := range msgs {
			for _, msg := range stream.Messages {
				c.process(ctx, msg)
			}
		}
	}
}

func (c *Consumer) Stop() error {
	// No-op
	return nil
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	payload, ok := msg.Values["payload"].(string)
	if !ok {
		c.logger.Error().Str("id", msg.ID).Msg("Missing payload field")
		c.ack(ctx, msg.ID)
		return
	}

	response, err := c.evaluate(ctx, msg.ID, payload)
	if err != nil {
		// Bad requests are acknowledged so they are not redelivered.
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to evaluate message")
		c.ack(ctx, msg.ID)
		return
	}

	if err := c.publish(ctx, response); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to publish result, leaving message pending")
		return
	}

	c.logger.Info().
		Str("id", msg.ID).
		Str("request_id", response.RequestID).
		Int("results", len(response.Results)).
		Msg("Evaluation complete")

	c.ack(ctx, msg.ID)
}

// evaluate decodes one payload and runs it. The stream message id is used when the request has none.
func (c *Consumer) evaluate(ctx context.Context, msgID string, payload string) (models.EvaluationResponse, error) {
	var evalRequest models.EvaluationRequest
	if err := json.Unmarshal([]byte(payload), &evalRequest); err != nil {
		return models.EvaluationResponse{}, fmt.Errorf("%w: %v", models.ErrMalformedRequest, err)
	}
	if evalRequest.RequestID == "" {
		evalRequest.RequestID = msgID
	}

	results, err := c.evaluator.Execute(ctx,
		evalRequest.Instruction,
		evalRequest.ModelResponses,
		evalRequest.ReferenceResponses,
		evalRequest.Rubric,
	)
	if err != nil {
		return models.EvaluationResponse{}, err
	}

	return models.EvaluationResponse{RequestID: evalRequest.RequestID, Results: results}, nil
}

func (c *Consumer) publish(ctx context.Context, response models.EvaluationResponse) error {
	data, err := json.Marshal(response)
	if err != nil {
		return err
	}
	return c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.resultStream,
		Values: map[string]any{
			"request_id": response.RequestID,
			"payload":    string(data),
		},
	}).Err()
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}
