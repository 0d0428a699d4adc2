package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(h *Hub, companyID uuid.UUID) *Client {
	c := &Client{
		hub:       h,
		send:      make(chan []byte, sendBufferSize),
		companyID: companyID,
		joined:    make(map[uuid.UUID]struct{}),
	}
	h.join(UserRoom(companyID), c)
	return c
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case data := <-c.send:
		var ev Event
		require.NoError(t, json.Unmarshal(data, &ev))
		return ev
	default:
		t.Fatal("no frame queued")
		return Event{}
	}
}

func TestHub_PushToUser(t *testing.T) {
	h := NewHub(zap.NewNop())
	companyID := uuid.New()
	c := newTestClient(h, companyID)
	other := newTestClient(h, uuid.New())

	h.PushToUser(companyID, Event{Name: EventNewNotification, Data: NotificationPayload{UnreadCount: 3}})

	ev := receive(t, c)
	assert.Equal(t, EventNewNotification, ev.Name)
	assert.Empty(t, other.send)
}

func TestHub_BroadcastExceptSkipsSender(t *testing.T) {
	h := NewHub(zap.NewNop())
	quoteID := uuid.New()
	sender := newTestClient(h, uuid.New())
	peer := newTestClient(h, uuid.New())
	h.join(QuoteRoom(quoteID), sender)
	h.join(QuoteRoom(quoteID), peer)

	h.BroadcastExcept(QuoteRoom(quoteID), sender, Event{Name: EventUserTyping})

	assert.Empty(t, sender.send)
	ev := receive(t, peer)
	assert.Equal(t, EventUserTyping, ev.Name)
}

func TestHub_RemoveLeavesAllRooms(t *testing.T) {
	h := NewHub(zap.NewNop())
	quoteID := uuid.New()
	c := newTestClient(h, uuid.New())
	h.join(QuoteRoom(quoteID), c)

	require.Equal(t, 1, h.RoomSize(QuoteRoom(quoteID)))
	h.remove(c)
	assert.Equal(t, 0, h.RoomSize(QuoteRoom(quoteID)))
	assert.Equal(t, 0, h.RoomSize(UserRoom(c.companyID)))
}

func TestHub_SlowClientDoesNotBlock(t *testing.T) {
	h := NewHub(zap.NewNop())
	companyID := uuid.New()
	c := &Client{hub: h, send: make(chan []byte), companyID: companyID} // unbuffered, never drained
	h.join(UserRoom(companyID), c)

	done := make(chan struct{})
	go func() {
		h.PushToUser(companyID, Event{Name: EventNewNotification})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on slow client")
	}
}
