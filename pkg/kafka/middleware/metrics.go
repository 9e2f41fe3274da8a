package kafka_middleware

import (
	"context"
	"sync/atomic"
	"time"

	"gather/pkg/kafka"
	"gather/pkg/logger"
)

// Metrics counts Kafka operations for one producer or consumer.
type Metrics struct {
	published       atomic.Int64
	publishedFailed atomic.Int64
	publishDuration atomic.Int64

	consumed        atomic.Int64
	consumedFailed  atomic.Int64
	consumeDuration atomic.Int64
}

// Snapshot is a point-in-time copy of Metrics.
type Snapshot struct {
	MessagesPublished       int64
	MessagesPublishedFailed int64
	AvgPublishDuration      time.Duration
	MessagesConsumed        int64
	MessagesConsumedFailed  int64
	AvgConsumeDuration      time.Duration
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		MessagesPublished:       m.published.Load(),
		MessagesPublishedFailed: m.publishedFailed.Load(),
		MessagesConsumed:        m.consumed.Load(),
		MessagesConsumedFailed:  m.consumedFailed.Load(),
	}
	if total := s.MessagesPublished + s.MessagesPublishedFailed; total > 0 {
		s.AvgPublishDuration = time.Duration(m.publishDuration.Load() / total)
	}
	if total := s.MessagesConsumed + s.MessagesConsumedFailed; total > 0 {
		s.AvgConsumeDuration = time.Duration(m.consumeDuration.Load() / total)
	}
	return s
}

// Log writes the current counters, typically once at shutdown.
func (m *Metrics) Log(log *logger.Logger) {
	s := m.Snapshot()
	log.Info("Kafka metrics",
		"published", s.MessagesPublished,
		"published_failed", s.MessagesPublishedFailed,
		"avg_publish_duration", s.AvgPublishDuration,
		"consumed", s.MessagesConsumed,
		"consumed_failed", s.MessagesConsumedFailed,
		"avg_consume_duration", s.AvgConsumeDuration,
	)
}

// ProducerMiddleware tracks producer metrics
func (m *Metrics) ProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		m.publishDuration.Add(int64(time.Since(start)))

		if err != nil {
			m.publishedFailed.Add(1)
		} else {
			m.published.Add(1)
		}
		return err
	}
}

// ConsumerMiddleware tracks consumer metrics
func (m *Metrics) ConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		m.consumeDuration.Add(int64(time.Since(start)))

		if err != nil {
			m.consumedFailed.Add(1)
		} else {
			m.consumed.Add(1)
		}
		return err
	}
}
