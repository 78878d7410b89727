package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"adboard/internal/app/policies"
)

// NotificationsTopic carries one JSON-encoded policies.Event per message,
// keyed by recipient so per-user ordering is preserved. The topic prefix is
// configurable per deployment.
func NotificationsTopic(prefix string) string {
	if prefix == "" {
		prefix = "adboard"
	}
	return prefix + ".notifications"
}

// Notifier publishes user-facing events to Kafka for asynchronous delivery.
type Notifier struct {
	producer *Producer
	topic    string
	logger   *slog.Logger
}

func NewNotifier(producer *Producer, topicPrefix string, logger *slog.Logger) *Notifier {
	return &Notifier{producer: producer, topic: NotificationsTopic(topicPrefix), logger: logger}
}

func (n *Notifier) Notify(ctx context.Context, event policies.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: encode notification: %w", err)
	}
	headers := map[string]string{"kind": event.Kind}
	if err := n.producer.Publish(ctx, n.topic, event.RecipientID, payload, headers); err != nil {
		return fmt.Errorf("kafka: publish notification: %w", err)
	}
	if n.logger != nil {
		n.logger.Debug("notification published", "kind", event.Kind, "recipient", event.RecipientID)
	}
	return nil
}

var _ policies.Notifier = (*Notifier)(nil)
