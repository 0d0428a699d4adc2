package realtime

import "github.com/google/uuid"

// Server -> client event names.
const (
	EventNewNotification   = "new_notification"
	EventNewMessage        = "new_message"
	EventUserTyping        = "user_typing"
	EventUserStoppedTyping = "user_stopped_typing"
	EventError             = "error"
)

// Client -> server event names.
const (
	ActionJoin        = "join"
	ActionTyping      = "typing"
	ActionStopTyping  = "stop_typing"
	ActionSendMessage = "send_message"
)

// Event is the wire envelope for server -> client pushes.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data,omitempty"`
}

// NotificationPayload carries the recipient's fresh unread count.
type NotificationPayload struct {
	UnreadCount int `json:"unread_count"`
}

// TypingPayload identifies who is typing in which quote room.
type TypingPayload struct {
	QuoteID     uuid.UUID `json:"quote_id"`
	CompanyName string    `json:"company_name"`
}

// ErrorPayload is sent to a single client when an inbound action fails.
type ErrorPayload struct {
	Message string `json:"message"`
}

// inboundFrame is the wire shape of client -> server actions.
type inboundFrame struct {
	Event              string    `json:"event"`
	QuoteID            uuid.UUID `json:"quote_id"`
	Message            string    `json:"message"`
	AttachmentFilename string    `json:"attachment_filename"`
	AttachmentType     string    `json:"attachment_type"`
}

// UserRoom is the per-company channel carrying notification pushes.
func UserRoom(companyID uuid.UUID) string {
	return "user:" + companyID.String()
}

// QuoteRoom is the per-quote chat channel.
func QuoteRoom(quoteID uuid.UUID) string {
	return "quote:" + quoteID.String()
}
