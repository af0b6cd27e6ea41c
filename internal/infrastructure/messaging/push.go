package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IngenieroJosser/credito-sur-backend-sub000/internal/domain/port"
	"github.com/IngenieroJosser/credito-sur-backend-sub000/pkg/kafka"
)

// pushTopic is consumed by the mobile gateway, which fans messages out to
// device tokens.
const pushTopic = "credito.push"

// KafkaPushSender implements port.PushPort by handing push requests to the
// delivery pipeline over Kafka.
type KafkaPushSender struct {
	producer *kafka.Producer
}

// NewKafkaPushSender creates the sender.
func NewKafkaPushSender(producer *kafka.Producer) *KafkaPushSender {
	return &KafkaPushSender{producer: producer}
}

type pushEnvelope struct {
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	UserID string            `json:"user_id,omitempty"`
	Roles  []string          `json:"roles,omitempty"`
	Data   map[string]string `json:"data,omitempty"`
}

// SendPush publishes one push request.
func (s *KafkaPushSender) SendPush(ctx context.Context, title, body string, target port.PushTarget, data map[string]string) error {
	env := pushEnvelope{Title: title, Body: body, Roles: target.Roles, Data: data}
	if target.UserID != nil {
		env.UserID = target.UserID.String()
	}

	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal push envelope: %w", err)
	}
	return s.producer.Publish(ctx, pushTopic, kafka.Message{Key: []byte(env.UserID), Value: value})
}
