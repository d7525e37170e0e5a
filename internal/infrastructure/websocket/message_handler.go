package websocket

import (
	"context"
	"encoding/json"
	"time"

	"helperhub/internal/domain/entity"
	"helperhub/pkg/logger"
)

// Inbound events.
const (
	EventRegisterUser       = "registerUser"
	EventJoinBookingRoom    = "joinBookingRoom"
	EventSendBookingMessage = "sendBookingMessage"
	EventJoinSupportRoom    = "joinSupportRoom"
	EventSendSupportMessage = "sendSupportMessage"
	EventBookingUpdate      = "bookingUpdate"
	EventJoinRoom           = "joinRoom"
	EventSendRoomMessage    = "sendRoomMessage"
	EventPing               = "ping"
)

// Produced events.
const (
	EventBookingUpdated        = "bookingUpdated"
	EventBookingOverdue        = "bookingOverdue"
	EventReceiveBookingMessage = "receiveBookingMessage"
	EventReceiveSupportMessage = "receiveSupportMessage"
	EventReceiveRoomMessage    = "receiveRoomMessage"
	EventPong                  = "pong"
	EventError                 = "error"
)

const handlerTimeout = 10 * time.Second

// Frame is the envelope of every frame written to a client.
type Frame struct {
	Type      string `json:"type"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

type inboundFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type BookingMessageData struct {
	BookingID string `json:"bookingId"`
	SenderID  string `json:"senderId"`
	Message   string `json:"message"`
}

type SupportMessageData struct {
	UserID   string `json:"userId"`
	SenderID string `json:"senderId"`
	Message  string `json:"message"`
}

type BookingRelayData struct {
	ReceiverID string          `json:"receiverId"`
	Booking    json.RawMessage `json:"booking"`
}

type RoomMessageData struct {
	Room    string `json:"room"`
	Message string `json:"message"`
	Sender  string `json:"sender"`
}

type RoomMessage struct {
	Message   string `json:"message"`
	Sender    string `json:"sender"`
	CreatedAt string `json:"createdAt"`
}

// HandleClientMessage dispatches one inbound frame. Failures are logged and never close the connection.
func (m *Manager) HandleClientMessage(c *Client, raw []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		logger.Warn("WebSocket: failed to unmarshal message from %s: %v", c.Account.ID, err)
		m.sendErrorToClient(c, "Invalid message format")
		return
	}

	logger.Debug("WebSocket: received '%s' from %s", frame.Type, c.Account.ID)

	switch frame.Type {
	case EventPing:
		m.sendToClient(c, EventPong, map[string]string{"status": "alive"})

	case EventRegisterUser:
		m.handleRegisterUser(c, frame.Data)

	case EventJoinBookingRoom:
		var bookingID string
		if !m.decode(c, frame.Data, &bookingID) || bookingID == "" {
			return
		}
		m.rooms.Join(entity.BookingRoomKey(bookingID), c)

	case EventJoinSupportRoom:
		m.handleJoinSupportRoom(c, frame.Data)

	case EventSendBookingMessage:
		m.handleSendBookingMessage(c, frame.Data)

	case EventSendSupportMessage:
		m.handleSendSupportMessage(c, frame.Data)

	case EventBookingUpdate:
		var data BookingRelayData
		if !m.decode(c, frame.Data, &data) || data.ReceiverID == "" {
			return
		}
		m.Notify(data.ReceiverID, EventBookingUpdated, data.Booking)

	case EventJoinRoom:
		var room string
		if !m.decode(c, frame.Data, &room) || room == "" {
			return
		}
		m.rooms.Join(room, c)

	case EventSendRoomMessage:
		var data RoomMessageData
		if !m.decode(c, frame.Data, &data) || data.Room == "" {
			return
		}
		m.Broadcast(data.Room, EventReceiveRoomMessage, RoomMessage{
			Message:   data.Message,
			Sender:    data.Sender,
			CreatedAt: m.now().Format(time.RFC3339),
		})

	default:
		logger.Warn("WebSocket: unknown message type '%s' from %s", frame.Type, c.Account.ID)
		m.sendErrorToClient(c, "Unknown message type")
	}
}

func (m *Manager) decode(c *Client, data json.RawMessage, v any) bool {
	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn("WebSocket: invalid payload from %s: %v", c.Account.ID, err)
		m.sendErrorToClient(c, "Invalid message data")
		return false
	}
	return true
}

// handleRegisterUser re-points presence at this connection. The id must be the authenticated one.
func (m *Manager) handleRegisterUser(c *Client, data json.RawMessage) {
	var accountID string
	if !m.decode(c, data, &accountID) {
		return
	}
	if accountID != c.Account.ID {
		logger.Warn("WebSocket: %s tried to register as %s", c.Account.ID, accountID)
		m.sendErrorToClient(c, "Cannot register as another account")
		return
	}
	m.presence.Register(accountID, c)
}

func (m *Manager) handleJoinSupportRoom(c *Client, data json.RawMessage) {
	var userID string
	if !m.decode(c, data, &userID) || userID == "" {
		return
	}
	if userID != c.Account.ID && !c.Account.IsAdmin() {
		m.sendErrorToClient(c, "Not allowed to join this support session")
		return
	}
	m.rooms.Join(entity.SupportRoomKey(userID), c)
}

// senderMatches rejects frames that claim a sender other than the authenticated account.
func senderMatches(c *Client, senderID string) bool {
	return senderID == "" || senderID == c.Account.ID
}

func (m *Manager) handleSendBookingMessage(c *Client, data json.RawMessage) {
	var msg BookingMessageData
	if !m.decode(c, data, &msg) {
		return
	}
	if !senderMatches(c, msg.SenderID) {
		logger.Warn("WebSocket: %s sent a booking message as %s", c.Account.ID, msg.SenderID)
		return
	}
	if m.chat == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if _, err := m.chat.PostBookingMessage(ctx, c.Account, msg.BookingID, msg.Message); err != nil {
		logger.Warn("WebSocket: booking message from %s dropped: %v", c.Account.ID, err)
	}
}

func (m *Manager) handleSendSupportMessage(c *Client, data json.RawMessage) {
	var msg SupportMessageData
	if !m.decode(c, data, &msg) {
		return
	}
	if !senderMatches(c, msg.SenderID) {
		logger.Warn("WebSocket: %s sent a support message as %s", c.Account.ID, msg.SenderID)
		return
	}
	if m.chat == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if _, err := m.chat.PostSupportMessage(ctx, c.Account, msg.UserID, msg.Message); err != nil {
		logger.Warn("WebSocket: support message from %s dropped: %v", c.Account.ID, err)
	}
}
