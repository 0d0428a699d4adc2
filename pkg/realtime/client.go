package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBufferSize = 32
)

// Client is one websocket connection belonging to an authenticated
// company. Every client is a member of its own user room; quote rooms
// are joined on demand via the join action.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	companyID   uuid.UUID
	companyName string

	// joined tracks quote rooms this connection has been authorized
	// into. Only touched from the read pump, so no lock is needed.
	joined map[uuid.UUID]struct{}
}

// NewClient registers a connection with the hub and joins the company's
// user room. Call Run to start the pumps.
func NewClient(hub *Hub, conn *websocket.Conn, companyID uuid.UUID, companyName string) *Client {
	c := &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		companyID:   companyID,
		companyName: companyName,
		joined:      make(map[uuid.UUID]struct{}),
	}
	hub.join(UserRoom(companyID), c)
	return c
}

// Run starts the read and write pumps and blocks until the connection
// closes. The context bounds delegate calls for inbound actions.
func (c *Client) Run(ctx context.Context) {
	go c.writePump()
	c.readPump(ctx)
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("Unexpected socket close",
					zap.String("company_id", c.companyID.String()), zap.Error(err))
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.sendError("malformed frame")
			continue
		}
		c.dispatch(ctx, frame)
	}
}

func (c *Client) dispatch(ctx context.Context, frame inboundFrame) {
	if frame.QuoteID == uuid.Nil {
		c.sendError("quote_id is required")
		return
	}
	room := QuoteRoom(frame.QuoteID)

	switch frame.Event {
	case ActionJoin:
		if c.hub.delegate == nil {
			c.sendError("not permitted")
			return
		}
		if err := c.hub.delegate.Authorize(ctx, c.companyID, frame.QuoteID); err != nil {
			c.sendError("not permitted")
			return
		}
		c.joined[frame.QuoteID] = struct{}{}
		c.hub.join(room, c)

	case ActionTyping, ActionStopTyping:
		// Typing events skip the delegate, so membership from a prior
		// authorized join is required.
		if _, ok := c.joined[frame.QuoteID]; !ok {
			c.sendError("not permitted")
			return
		}
		name := EventUserTyping
		if frame.Event == ActionStopTyping {
			name = EventUserStoppedTyping
		}
		c.hub.BroadcastExcept(room, c, Event{
			Name: name,
			Data: TypingPayload{QuoteID: frame.QuoteID, CompanyName: c.companyName},
		})

	case ActionSendMessage:
		if c.hub.delegate == nil {
			c.sendError("not permitted")
			return
		}
		var attName, attType *string
		if frame.AttachmentFilename != "" {
			attName = &frame.AttachmentFilename
		}
		if frame.AttachmentType != "" {
			attType = &frame.AttachmentType
		}
		msg, err := c.hub.delegate.SaveMessage(ctx, c.companyID, frame.QuoteID, frame.Message, attName, attType)
		if err != nil {
			c.sendError("message rejected")
			return
		}
		c.hub.Broadcast(room, Event{Name: EventNewMessage, Data: msg})

	default:
		c.sendError("unknown event")
	}
}

func (c *Client) sendError(message string) {
	data, err := json.Marshal(Event{Name: EventError, Data: ErrorPayload{Message: message}})
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
