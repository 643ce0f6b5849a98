package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"caregiver-matcher/internal/common/config"
	"caregiver-matcher/internal/common/logger"
	"caregiver-matcher/internal/common/observability"
	"caregiver-matcher/internal/models"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink writes feedback to a topic keyed by caregiver, so one caregiver's
// feedback stays ordered within a partition.
type KafkaSink struct {
	writer  messageWriter
	timeout time.Duration
	logger  logger.Logger
}

func NewKafkaSink(cfg config.KafkaConfig, log logger.Logger) *KafkaSink {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Compression:            kafka.Snappy,
		AllowAutoTopicCreation: true,
	}
	return newKafkaSink(writer, config.GetDuration(cfg.WriteTimeout), log)
}

func newKafkaSink(w messageWriter, timeout time.Duration, log logger.Logger) *KafkaSink {
	return &KafkaSink{writer: w, timeout: timeout, logger: log}
}

func (k *KafkaSink) Publish(ctx context.Context, fb models.MatchFeedback) error {
	ctx, span := observability.StartSpan(ctx, "feedback.KafkaSink.Publish")
	defer span.End()

	data, err := json.Marshal(fb)
	if err != nil {
		return fmt.Errorf("encode feedback: %w", err)
	}

	if k.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, k.timeout)
		defer cancel()
	}

	msg := kafka.Message{
		Key:   []byte(fb.CaregiverID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(models.EventMatchFeedback)},
			{Key: "match_id", Value: []byte(fb.MatchID)},
			{Key: "rating", Value: []byte(strconv.Itoa(fb.Rating))},
		},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write feedback %s to kafka: %w", fb.FeedbackID, err)
	}
	return nil
}

func (k *KafkaSink) Close() error {
	return k.writer.Close()
}
