package kafka

import "context"

// PublishEvent builds an event message keyed by key and publishes it.
func PublishEvent(ctx context.Context, p Publisher, eventType, key, source, correlationID string, payload any) error {
	msg := NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventID("").
		WithEventType(eventType).
		WithSchemaVersion("1").
		WithSource(source).
		WithCorrelationID(correlationID).
		Build()

	return p.Publish(ctx, msg)
}
