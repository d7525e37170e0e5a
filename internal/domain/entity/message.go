package entity

import "time"

type MessageType string

const (
	MessageTypeBooking MessageType = "booking"
	MessageTypeSupport MessageType = "support"
)

// Message belongs to exactly one channel: a booking (BookingID) or a support session (SupportUserID).
type Message struct {
	ID            string      `json:"id" firestore:"id"`
	Type          MessageType `json:"type" firestore:"type"`
	BookingID     string      `json:"booking_id,omitempty" firestore:"bookingId,omitempty"`
	SupportUserID string      `json:"support_user_id,omitempty" firestore:"supportUserId,omitempty"`
	SenderID      string      `json:"sender_id" firestore:"senderId"`
	Content       string      `json:"message" firestore:"message"`
	CreatedAt     time.Time   `json:"created_at" firestore:"createdAt"`
}

// ChannelKey is the id of the channel the message was posted to.
func (m *Message) ChannelKey() string {
	if m.Type == MessageTypeSupport {
		return m.SupportUserID
	}
	return m.BookingID
}

// RoomKey is the broadcast room of the message's channel.
func (m *Message) RoomKey() string {
	if m.Type == MessageTypeSupport {
		return SupportRoomKey(m.SupportUserID)
	}
	return BookingRoomKey(m.BookingID)
}

// Valid checks the channel discriminator invariant.
func (m *Message) Valid() bool {
	switch m.Type {
	case MessageTypeBooking:
		return m.BookingID != "" && m.SupportUserID == ""
	case MessageTypeSupport:
		return m.SupportUserID != "" && m.BookingID == ""
	}
	return false
}

func SupportRoomKey(userID string) string {
	return "support-" + userID
}
