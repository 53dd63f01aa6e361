package kafka

import (
	"context"
	"log/slog"
)

// LogPublisher stands in for Publisher when no broker is configured. Events
// are logged and dropped.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, eventType, key string, payload []byte) error {
	slog.Debug("event not published, kafka disabled", "event_type", eventType, "key", key, "bytes", len(payload))
	return nil
}

func (LogPublisher) Close() error { return nil }
