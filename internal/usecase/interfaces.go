package usecase

import "context"

// Notifier is the real-time fan-out. Both calls are at most once and never block.
type Notifier interface {
	Notify(accountID, event string, payload any) bool
	Broadcast(roomKey, event string, payload any) int
}

// EventPublisher emits lifecycle events to the message broker.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}
