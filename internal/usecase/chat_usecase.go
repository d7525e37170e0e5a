package usecase

import (
	"context"
	"strings"

	"helperhub/internal/domain/entity"
	"helperhub/internal/domain/repository"
	"helperhub/internal/infrastructure/ratelimit"
	ws "helperhub/internal/infrastructure/websocket"
	"helperhub/pkg/errors"
	"helperhub/pkg/logger"
)

const sendMessageAction = "send_message"

type ChatUseCase struct {
	messageRepo repository.MessageRepository
	bookingRepo repository.BookingRepository
	notifier    Notifier
	rateLimiter *ratelimit.RateLimiter
}

func NewChatUseCase(
	messageRepo repository.MessageRepository,
	bookingRepo repository.BookingRepository,
	notifier Notifier,
	rateLimiter *ratelimit.RateLimiter,
) *ChatUseCase {
	return &ChatUseCase{
		messageRepo: messageRepo,
		bookingRepo: bookingRepo,
		notifier:    notifier,
		rateLimiter: rateLimiter,
	}
}

// SendMessageInput is the HTTP form of a chat post. Exactly one of BookingID and UserID applies,
// chosen by Type.
type SendMessageInput struct {
	Type      entity.MessageType `json:"type"`
	BookingID string             `json:"booking_id"`
	UserID    string             `json:"user_id"`
	Message   string             `json:"message"`
}

func (uc *ChatUseCase) allow(senderID string) error {
	if uc.rateLimiter == nil {
		return nil
	}
	allowed, wait := uc.rateLimiter.Allow(senderID, sendMessageAction)
	if !allowed {
		logger.Warn("Chat rate limited: %s must wait %v", senderID, wait)
		return errors.TooManyRequests("Rate limit exceeded. Please wait before sending another message", wait)
	}
	return nil
}

func (uc *ChatUseCase) deliver(ctx context.Context, message *entity.Message, event string) (*entity.Message, error) {
	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	uc.notifier.Broadcast(message.RoomKey(), event, message)
	return message, nil
}

func (uc *ChatUseCase) PostBookingMessage(ctx context.Context, sender entity.Account, bookingID, text string) (*entity.Message, error) {
	if bookingID == "" || sender.ID == "" || strings.TrimSpace(text) == "" {
		return nil, errors.Validation("Booking, sender and message are required")
	}

	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParty(sender.ID) {
		return nil, errors.Forbidden("Not a participant of this booking", nil)
	}
	if err := uc.allow(sender.ID); err != nil {
		return nil, err
	}

	return uc.deliver(ctx, &entity.Message{
		Type:      entity.MessageTypeBooking,
		BookingID: bookingID,
		SenderID:  sender.ID,
		Content:   text,
	}, ws.EventReceiveBookingMessage)
}

func (uc *ChatUseCase) PostSupportMessage(ctx context.Context, sender entity.Account, userID, text string) (*entity.Message, error) {
	if userID == "" || sender.ID == "" || strings.TrimSpace(text) == "" {
		return nil, errors.Validation("User, sender and message are required")
	}
	if sender.ID != userID && !sender.IsAdmin() {
		return nil, errors.Forbidden("Not allowed to post in this support session", nil)
	}
	if err := uc.allow(sender.ID); err != nil {
		return nil, err
	}

	return uc.deliver(ctx, &entity.Message{
		Type:          entity.MessageTypeSupport,
		SupportUserID: userID,
		SenderID:      sender.ID,
		Content:       text,
	}, ws.EventReceiveSupportMessage)
}

func (uc *ChatUseCase) PostMessage(ctx context.Context, sender entity.Account, input SendMessageInput) (*entity.Message, error) {
	switch input.Type {
	case entity.MessageTypeBooking, "":
		return uc.PostBookingMessage(ctx, sender, input.BookingID, input.Message)
	case entity.MessageTypeSupport:
		userID := input.UserID
		if userID == "" && !sender.IsAdmin() {
			userID = sender.ID
		}
		return uc.PostSupportMessage(ctx, sender, userID, input.Message)
	}
	return nil, errors.Validation("Unknown message type")
}

func (uc *ChatUseCase) ListBookingMessages(ctx context.Context, caller entity.Account, bookingID string) ([]*entity.Message, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParty(caller.ID) && !caller.IsAdmin() {
		return nil, errors.Forbidden("Not a participant of this booking", nil)
	}
	return uc.messageRepo.ListByBooking(ctx, bookingID)
}

func (uc *ChatUseCase) ListSupport(ctx context.Context, caller entity.Account, userID string) ([]*entity.Message, error) {
	if caller.ID != userID && !caller.IsAdmin() {
		return nil, errors.Forbidden("Not allowed to read this support session", nil)
	}
	return uc.messageRepo.ListSupport(ctx, userID)
}

func (uc *ChatUseCase) ListSupportUsers(ctx context.Context) ([]string, error) {
	return uc.messageRepo.ListSupportUsers(ctx)
}
