package events

import (
	"context"

	"github.com/Joaovenera/wms-sub000/internal/domain"
	"github.com/Joaovenera/wms-sub000/pkg/kafka"
	"github.com/Joaovenera/wms-sub000/pkg/resilience"
)

const eventSource = "wms-composition-service"

// KafkaPublisher publishes domain events to the service topics. The
// broker sits behind a circuit breaker so a Kafka outage degrades event
// delivery without stalling request handling.
type KafkaPublisher struct {
	producer *kafka.InstrumentedProducer
	breaker  *resilience.CircuitBreaker
}

func NewKafkaPublisher(producer *kafka.InstrumentedProducer, breaker *resilience.CircuitBreaker) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, breaker: breaker}
}

func (p *KafkaPublisher) PublishUCPEvent(ctx context.Context, event domain.DomainEvent, subject string) error {
	return p.publish(ctx, kafka.Topics.UCPEvents, event, subject)
}

func (p *KafkaPublisher) PublishCompositionEvent(ctx context.Context, event domain.DomainEvent, subject string) error {
	return p.publish(ctx, kafka.Topics.CompositionEvents, event, subject)
}

func (p *KafkaPublisher) publish(ctx context.Context, topic string, event domain.DomainEvent, subject string) error {
	envelope := kafka.NewEvent(event.EventType(), eventSource, subject, event)

	if p.breaker == nil {
		return p.producer.PublishEvent(ctx, topic, envelope)
	}

	_, err := p.breaker.Execute(ctx, func() (interface{}, error) {
		return nil, p.producer.PublishEvent(ctx, topic, envelope)
	})
	return err
}
