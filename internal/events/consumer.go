package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Broadcaster delivers an event to the locally connected clients.
type Broadcaster interface {
	BroadcastNewMessage(ev NewMessage)
}

// Consumer feeds events published by other instances into the local hub.
type Consumer struct {
	reader *kafka.Reader
	origin string
	log    *zap.SugaredLogger
}

func NewConsumer(brokers []string, topic, groupID, origin string, log *zap.SugaredLogger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	return &Consumer{reader: r, origin: origin, log: log}
}

// Run blocks until ctx is cancelled, handing each remote event to b.
func (c *Consumer) Run(ctx context.Context, b Broadcaster) {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Errorw("kafka read", "err", err)
			time.Sleep(time.Second)
			continue
		}
		c.handle(m.Value, b)
	}
}

func (c *Consumer) handle(value []byte, b Broadcaster) {
	var rec record
	if err := json.Unmarshal(value, &rec); err != nil {
		c.log.Warnw("malformed event record", "err", err)
		return
	}
	if rec.Origin == c.origin {
		// published by this instance; local clients already have it
		return
	}
	b.BroadcastNewMessage(rec.Event)
}

func (c *Consumer) Close() error { return c.reader.Close() }
