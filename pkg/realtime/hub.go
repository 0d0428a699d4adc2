package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/connecta-b2b/connecta-server/pkg/models"
)

// ChatDelegate authorizes room membership and persists inbound chat
// messages. Implemented by the chat service; keeps the socket layer free
// of database concerns.
type ChatDelegate interface {
	// Authorize reports whether the company may join the quote's room.
	Authorize(ctx context.Context, companyID, quoteID uuid.UUID) error

	// SaveMessage validates and persists an inbound chat message,
	// returning the stored row (with id, timestamp and sender name).
	SaveMessage(ctx context.Context, senderID uuid.UUID, quoteID uuid.UUID, body string, attachmentFilename, attachmentType *string) (*models.ChatMessage, error)
}

// Hub tracks connected clients and their room memberships and fans
// events out to them. Delivery is fire-and-forget: a client whose send
// buffer is full is dropped rather than backpressuring the sender.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}

	delegate ChatDelegate
	logger   *zap.Logger
}

// NewHub creates a hub. The delegate may be set later via SetDelegate to
// break the construction cycle with the chat service.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[*Client]struct{}),
		logger: logger.Named("realtime-hub"),
	}
}

// SetDelegate wires the chat delegate. Must be called before serving
// connections.
func (h *Hub) SetDelegate(d ChatDelegate) {
	h.delegate = d
}

func (h *Hub) join(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Broadcast sends an event to every client in the room.
func (h *Hub) Broadcast(room string, event Event) {
	h.broadcast(room, event, nil)
}

// BroadcastExcept sends an event to every client in the room except the
// sender's own connection, used for typing indicators.
func (h *Hub) BroadcastExcept(room string, except *Client, event Event) {
	h.broadcast(room, event, except)
}

func (h *Hub) broadcast(room string, event Event, except *Client) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to marshal event", zap.String("event", event.Name), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		if c == except {
			continue
		}
		select {
		case c.send <- data:
		default:
			// Slow consumer; drop the frame rather than block the hub.
			h.logger.Debug("Dropping frame for slow client",
				zap.String("room", room), zap.String("company_id", c.companyID.String()))
		}
	}
}

// PushToUser sends an event to every connection of the given company.
func (h *Hub) PushToUser(companyID uuid.UUID, event Event) {
	h.Broadcast(UserRoom(companyID), event)
}

// RoomSize returns the number of clients in a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
