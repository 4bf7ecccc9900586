package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/synaptica-ai/web2lead/pkg/common/logger"
	"github.com/synaptica-ai/web2lead/pkg/common/models"
)

const (
	minFetchBackoff = 100 * time.Millisecond
	maxFetchBackoff = 10 * time.Second
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	reader     messageReader
	minBackoff time.Duration
	maxBackoff time.Duration
}

type SubmissionHandler func(ctx context.Context, event models.SubmissionEvent) error

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})

	return &Consumer{reader: reader, minBackoff: minFetchBackoff, maxBackoff: maxFetchBackoff}
}

// Consume delivers submission events to handler until ctx is cancelled.
// Every message is committed once seen; nothing is redelivered. Repeated
// fetch errors back off exponentially up to maxBackoff.
func (c *Consumer) Consume(ctx context.Context, handler SubmissionHandler) error {
	backoff := c.minBackoff
	for {
		message, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			logger.Log.WithError(err).WithField("backoff", backoff.String()).Error("Failed to fetch message")
			if err := sleep(ctx, backoff); err != nil {
				return err
			}
			backoff *= 2
			if backoff > c.maxBackoff {
				backoff = c.maxBackoff
			}
			continue
		}
		backoff = c.minBackoff

		var event models.SubmissionEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			logger.Log.WithError(err).WithField("offset", message.Offset).Error("Failed to unmarshal submission event")
			c.commit(ctx, message)
			continue
		}
		if event.ID == "" {
			event.ID = string(message.Key)
		}

		if err := handler(ctx, event); err != nil {
			logger.Log.WithError(err).WithFields(map[string]interface{}{
				"event_id": event.ID,
				"form_id":  event.FormID,
			}).Error("Failed to process submission event")
		}

		c.commit(ctx, message)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Consumer) commit(ctx context.Context, message kafka.Message) {
	if err := c.reader.CommitMessages(ctx, message); err != nil {
		logger.Log.WithError(err).Error("Failed to commit message")
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
