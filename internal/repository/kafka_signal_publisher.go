package repository

import (
	"context"

	"SignalBench/internal/domain/models"
	domrepo "SignalBench/internal/domain/repository"
	pkgkafka "SignalBench/pkg/kafka"
)

// KafkaSignalPublisher implements SignalPublisher for Kafka. Keys by
// channel so per-channel ordering survives partitioning.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) domrepo.SignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

func (p *KafkaSignalPublisher) PublishBatch(ctx context.Context, signals []models.Signal) error {
	if len(signals) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(signals))
	for i := range signals {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(signals[i].Channel()),
			Value: signals[i],
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaSignalPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
