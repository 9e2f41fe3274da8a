package kafka_middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"gather/pkg/kafka"
)

func TestMetrics_CountsOutcomes(t *testing.T) {
	m := NewMetrics()
	pub := m.ProducerMiddleware()
	con := m.ConsumerMiddleware()

	ok := func(context.Context, kafka.Message) error { return nil }
	fail := func(context.Context, kafka.Message) error { return errors.New("x") }

	_ = pub(context.Background(), kafka.Message{}, ok)
	_ = pub(context.Background(), kafka.Message{}, fail)
	_ = con(context.Background(), kafka.Message{}, ok)
	_ = con(context.Background(), kafka.Message{}, ok)

	s := m.Snapshot()
	assert.Equal(t, int64(1), s.MessagesPublished)
	assert.Equal(t, int64(1), s.MessagesPublishedFailed)
	assert.Equal(t, int64(2), s.MessagesConsumed)
	assert.Zero(t, s.MessagesConsumedFailed)
}
