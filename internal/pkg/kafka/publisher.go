package kafka

import (
	"context"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Publisher writes domain events to Kafka. A single writer serves all
// topics; the topic is set per message.
type Publisher struct {
	writer *kafkago.Writer
}

func NewPublisher(brokers []string) *Publisher {
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Balancer:     &kafkago.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireOne,
	}
	return &Publisher{writer: writer}
}

// Publish sends one event. The key carries the aggregate identifier so all
// events for a given leave request land on the same partition, preserving
// their relative order.
func (p *Publisher) Publish(ctx context.Context, topic, key string, payload []byte, eventType string) error {
	msg := kafkago.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
