package storage

import (
	"context"
	"encoding/json"
	"time"

	"partyorder/menu-svc/internal/domain"

	"github.com/segmentio/kafka-go"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher announces stale menus on the menu topic, keyed by event id.
type KafkaPublisher struct {
	Writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

func (p *KafkaPublisher) MenuStale(ctx context.Context, eventID, reason string) error {
	payload, err := json.Marshal(domain.MenuMessage{
		Type:      domain.MenuStaleMessage,
		EventID:   eventID,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(eventID),
		Value: payload,
	})
}
