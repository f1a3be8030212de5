package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/claimsight/claims-agent/internal/models"
	"github.com/claimsight/claims-agent/internal/orchestrator"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Consumer reads claim submissions from a Redis stream, runs them through the
// processing pipeline, and publishes the result to the result stream.
type Consumer struct {
	client       *redis.Client
	stream       string
	resultStream string
	groupID      string
	consumerName string
	pipeline     *orchestrator.Pipeline
	logger       *zerolog.Logger
}

func NewConsumer(client *redis.Client, cfg *RedisStreamConfig, pipeline *orchestrator.Pipeline, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:       client,
		stream:       cfg.Stream,
		resultStream: cfg.ResultStream,
		groupID:      cfg.Group,
		consumerName: cfg.ConsumerName,
		pipeline:     pipeline,
		logger:       logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
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
				// timeout, no message -> loop again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err() // context cancelled during block
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, msg := range msgs[0].Messages {
			c.process(ctx, msg)
		}
	}
}

func (c *Consumer) Stop() error {
	// No-op
	return nil
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Claim submission received")

	payload, ok := msg.Values["payload"].(string)
	if !ok {
		c.logger.Error().Str("id", msg.ID).Msg("Missing payload field")
		c.ack(ctx, msg.ID)
		return
	}

	var claimRequest models.ClaimProcessRequest
	if err := json.Unmarshal([]byte(payload), &claimRequest); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		c.ack(ctx, msg.ID) // bad message — ACK to skip it
		return
	}

	result, err := c.pipeline.Process(ctx, claimRequest.RawClaim(), models.ProcessingType(claimRequest.ProcessingType))
	if err != nil {
		c.logger.Error().Err(err).
			Str("id", msg.ID).
			Str("claim_number", claimRequest.ClaimNumber).
			Msg("Claim processing failed")
		c.publishFailure(ctx, claimRequest.ClaimNumber, err)
		c.ack(ctx, msg.ID)
		return
	}

	c.logger.Info().
		Str("id", msg.ID).
		Str("claim_number", claimRequest.ClaimNumber).
		Int64("processing_time_ms", result.ProcessingTimeMS).
		Msg("Claim processing complete")

	c.publishResult(ctx, claimRequest.ClaimNumber, result)
	c.ack(ctx, msg.ID)
}

func (c *Consumer) publishResult(ctx context.Context, claimNumber string, result *models.PipelineResult) {
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error().Err(err).Str("claim_number", claimNumber).Msg("Failed to encode result")
		return
	}

	err = c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.resultStream,
		Values: map[string]any{
			"claim_number": claimNumber,
			"status":       "processed",
			"payload":      string(data),
		},
	}).Err()
	if err != nil {
		c.logger.Error().Err(err).Str("claim_number", claimNumber).Msg("Failed to publish result")
	}
}

func (c *Consumer) publishFailure(ctx context.Context, claimNumber string, procErr error) {
	err := c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.resultStream,
		Values: map[string]any{
			"claim_number": claimNumber,
			"status":       "failed",
			"error":        procErr.Error(),
		},
	}).Err()
	if err != nil {
		c.logger.Error().Err(err).Str("claim_number", claimNumber).Msg("Failed to publish failure")
	}
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}
