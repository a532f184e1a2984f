package ws

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/Akki1725/socially/internal/events"
	"github.com/Akki1725/socially/internal/metrics"
)

// Presence records whether a user currently holds at least one connection.
type Presence interface {
	SetPresence(ctx context.Context, userID string, online bool) error
}

// Hub owns all WebSocket clients of this instance. Delivery is addressed:
// an event reaches only the connections of the users it names, so clients
// of uninvolved users never see other people's messages.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]map[string]*Client // user id -> client id -> client
	presence Presence
	log      *zap.SugaredLogger
}

func NewHub(presence Presence, log *zap.SugaredLogger) *Hub {
	return &Hub{
		clients:  make(map[string]map[string]*Client),
		presence: presence,
		log:      log,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.UserID]; !ok {
		h.clients[c.UserID] = make(map[string]*Client)
	}
	h.clients[c.UserID][c.ID] = c
	h.mu.Unlock()

	metrics.WSConnections.Inc()
	if h.presence != nil {
		_ = h.presence.SetPresence(context.Background(), c.UserID, true)
	}
	h.log.Infow("ws connected", "user", c.UserID, "conn", c.ID)
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	conns, ok := h.clients[c.UserID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := conns[c.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(conns, c.ID)
	if len(conns) == 0 {
		delete(h.clients, c.UserID)
	}
	lastConn := len(conns) == 0
	// closed under the lock so no sender can race the close
	c.closeSend()
	h.mu.Unlock()
	metrics.WSConnections.Dec()
	if lastConn && h.presence != nil {
		_ = h.presence.SetPresence(context.Background(), c.UserID, false)
	}
	h.log.Infow("ws disconnected", "user", c.UserID, "conn", c.ID)
}

// SendToUsers delivers payload to every connection of the named users.
// Best effort: a client whose buffer is full misses the event and catches
// up on its next fetch.
func (h *Hub) SendToUsers(userIDs []string, payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		h.log.Errorw("marshal ws payload", "err", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, uid := range userIDs {
		for _, c := range h.clients[uid] {
			select {
			case c.send <- b:
				metrics.EventsDelivered.Inc()
			default:
				metrics.EventsDropped.Inc()
			}
		}
	}
}

// BroadcastNewMessage pushes a newMessage event to both participants'
// connections, the sender's included (other tabs of the sender stay in
// sync; clients de-duplicate against the HTTP response).
func (h *Hub) BroadcastNewMessage(ev events.NewMessage) {
	h.SendToUsers(ev.ParticipantIDs, events.Envelope{Event: events.EventNewMessage, Data: ev})
}
