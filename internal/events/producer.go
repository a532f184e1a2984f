package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// record is the wire format on the Kafka topic. Origin identifies the
// publishing instance so a consumer can skip events it already delivered
// to its own clients.
type record struct {
	Origin string     `json:"origin"`
	Event  NewMessage `json:"event"`
}

// Producer publishes newMessage events so replicas of this service can fan
// them out to their own WebSocket clients.
type Producer struct {
	writer *kafka.Writer
	origin string
}

func NewProducer(brokers []string, topic, origin string) *Producer {
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
	return &Producer{writer: w, origin: origin}
}

func (p *Producer) PublishNewMessage(ctx context.Context, ev NewMessage) error {
	b, err := json.Marshal(record{Origin: p.origin, Event: ev})
	if err != nil {
		return err
	}
	msg := kafka.Message{Key: []byte(ev.ConversationID), Value: b, Time: time.Now()}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Producer) Close() error { return p.writer.Close() }
