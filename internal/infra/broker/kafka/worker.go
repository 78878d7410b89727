package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"

	"adboard/internal/app/policies"
)

// DeliveryFunc hands a decoded notification to a delivery channel.
type DeliveryFunc func(ctx context.Context, event policies.Event) error

// DeliveryWorker consumes the notifications topic and pushes each event to a
// delivery channel. A failed delivery is not committed and will be retried on
// the next claim.
type DeliveryWorker struct {
	group   sarama.ConsumerGroup
	topic   string
	deliver DeliveryFunc
	logger  *slog.Logger
}

func NewDeliveryWorker(brokers []string, groupID, topicPrefix string, cfg *sarama.Config, deliver DeliveryFunc, logger *slog.Logger) (*DeliveryWorker, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Version = sarama.V2_5_0_0
	group, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}
	return &DeliveryWorker{
		group:   group,
		topic:   NotificationsTopic(topicPrefix),
		deliver: deliver,
		logger:  logger,
	}, nil
}

func (w *DeliveryWorker) Run(ctx context.Context) error {
	topics := []string{w.topic}
	for {
		if err := w.group.Consume(ctx, topics, deliveryHandler{deliver: w.deliver, logger: w.logger}); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (w *DeliveryWorker) Close() error {
	return w.group.Close()
}

// LogDelivery is the default channel: it records the notification in the log.
// Real email or SMS senders plug in as alternative DeliveryFuncs.
func LogDelivery(logger *slog.Logger) DeliveryFunc {
	return func(ctx context.Context, event policies.Event) error {
		logger.Info("notification delivered",
			"kind", event.Kind,
			"recipient", event.RecipientID,
			"subject", event.Subject,
		)
		return nil
	}
}

type deliveryHandler struct {
	deliver DeliveryFunc
	logger  *slog.Logger
}

func (deliveryHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (deliveryHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h deliveryHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var event policies.Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			if h.logger != nil {
				h.logger.Warn("dropping malformed notification", "offset", message.Offset, "error", err)
			}
			sess.MarkMessage(message, "")
			continue
		}
		if err := h.deliver(sess.Context(), event); err != nil {
			if h.logger != nil {
				h.logger.Error("notification delivery failed", "kind", event.Kind, "error", err)
			}
			continue
		}
		sess.MarkMessage(message, "")
	}
	return nil
}
