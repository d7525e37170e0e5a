package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"helperhub/internal/domain/entity"
	"helperhub/internal/domain/repository"
	"helperhub/pkg/errors"
)

// firestoreMessageRepository nests messages under their channel:
// bookings/{bookingId}/messages and support/{userId}/messages.
type firestoreMessageRepository struct {
	client *firestore.Client
}

func NewFirestoreMessageRepository(client *firestore.Client) repository.MessageRepository {
	return &firestoreMessageRepository{
		client: client,
	}
}

func (r *firestoreMessageRepository) channel(m *entity.Message) *firestore.CollectionRef {
	if m.Type == entity.MessageTypeSupport {
		return r.client.Collection(supportCollection).Doc(m.SupportUserID).Collection(messagesCollection)
	}
	return r.client.Collection(bookingsCollection).Doc(m.BookingID).Collection(messagesCollection)
}

func (r *firestoreMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if !message.Valid() {
		return errors.Validation("Message must reference exactly one channel")
	}
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()

	_, err := r.channel(message).Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}
	return nil
}

func (r *firestoreMessageRepository) list(ctx context.Context, col *firestore.CollectionRef) ([]*entity.Message, error) {
	messages, err := collectDocs[entity.Message](col.OrderBy("createdAt", firestore.Asc).Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list messages", err)
	}
	return messages, nil
}

func (r *firestoreMessageRepository) ListByBooking(ctx context.Context, bookingID string) ([]*entity.Message, error) {
	return r.list(ctx, r.channel(&entity.Message{Type: entity.MessageTypeBooking, BookingID: bookingID}))
}

func (r *firestoreMessageRepository) ListSupport(ctx context.Context, userID string) ([]*entity.Message, error) {
	return r.list(ctx, r.channel(&entity.Message{Type: entity.MessageTypeSupport, SupportUserID: userID}))
}

// ListSupportUsers lists support session keys; DocumentRefs includes parents that only hold a messages subcollection.
func (r *firestoreMessageRepository) ListSupportUsers(ctx context.Context) ([]string, error) {
	refs, err := r.client.Collection(supportCollection).DocumentRefs(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to list support sessions", err)
	}

	users := make([]string, 0, len(refs))
	for _, ref := range refs {
		users = append(users, ref.ID)
	}
	return users, nil
}
