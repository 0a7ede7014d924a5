package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/vsinha/inventory/pkg/infrastructure/events"
)

// KafkaAlertPublisher forwards alert transitions to the Notification
// Service topic. It subscribes to the in-process event bus; delivery
// mechanics past the topic (email/SMS) belong to the consumer.
type KafkaAlertPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewKafkaAlertPublisher creates a publisher for the given broker and topic
func NewKafkaAlertPublisher(broker, topic string, logger *zap.Logger) *KafkaAlertPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaAlertPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(broker),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
		logger: logger,
	}
}

// Verify interface compliance
var _ events.EventHandler = (*KafkaAlertPublisher)(nil)

// Register subscribes the publisher to alert transitions on the bus
func (p *KafkaAlertPublisher) Register(bus events.EventBus) {
	bus.Subscribe([]string{events.AlertRaisedEvent, events.AlertClearedEvent}, p)
}

// CanHandle reports whether the event type is an alert transition
func (p *KafkaAlertPublisher) CanHandle(eventType string) bool {
	return eventType == events.AlertRaisedEvent || eventType == events.AlertClearedEvent
}

type alertMessage struct {
	EventType string      `json:"event_type"`
	ItemID    string      `json:"item_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Handle publishes one alert transition, keyed by item so the topic
// preserves per-item ordering
func (p *KafkaAlertPublisher) Handle(event events.Event) error {
	value, err := json.Marshal(alertMessage{
		EventType: event.Type(),
		ItemID:    event.StreamID(),
		Timestamp: event.Timestamp(),
		Payload:   event.Data(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal alert message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.StreamID()),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to publish alert for %s: %w", event.StreamID(), err)
	}

	p.logger.Debug("alert published",
		zap.String("event_type", event.Type()),
		zap.String("item_id", event.StreamID()))
	return nil
}

// Close flushes and closes the underlying writer
func (p *KafkaAlertPublisher) Close() error {
	return p.writer.Close()
}
