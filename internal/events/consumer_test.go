package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureBroadcaster struct {
	events []NewMessage
}

func (b *captureBroadcaster) BroadcastNewMessage(ev NewMessage) {
	b.events = append(b.events, ev)
}

func TestConsumerSkipsOwnRecords(t *testing.T) {
	req := require.New(t)
	c := &Consumer{origin: "inst-a", log: zap.NewNop().Sugar()}
	b := &captureBroadcaster{}

	own, err := json.Marshal(record{Origin: "inst-a", Event: NewMessage{ConversationID: "c1"}})
	req.NoError(err)
	c.handle(own, b)
	req.Empty(b.events)

	remote, err := json.Marshal(record{Origin: "inst-b", Event: NewMessage{ConversationID: "c2", ParticipantIDs: []string{"u1", "u2"}}})
	req.NoError(err)
	c.handle(remote, b)
	req.Len(b.events, 1)
	req.Equal("c2", b.events[0].ConversationID)
	req.Equal([]string{"u1", "u2"}, b.events[0].ParticipantIDs)
}

func TestConsumerIgnoresMalformedRecords(t *testing.T) {
	c := &Consumer{origin: "inst-a", log: zap.NewNop().Sugar()}
	b := &captureBroadcaster{}
	c.handle([]byte("{not json"), b)
	require.Empty(t, b.events)
}
