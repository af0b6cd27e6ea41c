package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/pkg/events"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/pkg/kafka"
)

// KafkaBroadcaster implements port.BroadcastPort on the shared Kafka
// producer. Dashboards and downstream consumers subscribe to the topics the
// use cases publish to.
type KafkaBroadcaster struct {
	producer *kafka.Producer
}

// NewKafkaBroadcaster creates the broadcaster.
func NewKafkaBroadcaster(producer *kafka.Producer) *KafkaBroadcaster {
	return &KafkaBroadcaster{producer: producer}
}

// Signal publishes the payload as JSON. Domain events are keyed by their
// aggregate ID so per-aggregate ordering survives partitioning.
func (b *KafkaBroadcaster) Signal(ctx context.Context, topic string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal broadcast payload: %w", err)
	}

	msg := kafka.Message{Value: value}
	if evt, ok := payload.(events.DomainEvent); ok {
		msg.Key = []byte(evt.AggregateID())
		msg.Headers = map[string]string{"event_type": evt.EventType()}
	}

	return b.producer.Publish(ctx, topic, msg)
}
