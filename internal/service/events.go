package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/catalog/internal/events"
	"github.com/Skotchmaster/catalog/internal/logging"
)

const publishTimeout = 5 * time.Second

// publish never fails the calling operation; delivery errors are only logged.
func publish(ctx context.Context, p events.Publisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.PublishEvent(pubCtx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "topic", topic, "type", event["type"], "error", err)
	}
}
