package repository

import (
	"context"
	"time"

	"SignalRelay/internal/domain/models"
	"SignalRelay/internal/domain/repository"
	pkgkafka "SignalRelay/pkg/kafka"
)

// KafkaPublisher fans accepted signals out to an audit topic, keyed by symbol
// so per-symbol ordering survives partitioning.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishAccepted(ctx context.Context, relayID string, s *models.SignalPayload) error {
	return p.producer.Publish(ctx, p.topic, []byte(s.Market.Symbol), map[string]interface{}{
		"relay_id":    relayID,
		"accepted_at": time.Now().Unix(),
		"payload":     s,
	})
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
