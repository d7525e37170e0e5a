package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"helperhub/internal/domain/entity"
	"helperhub/internal/domain/repository"
	"helperhub/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.client.Collection(usersCollection).Doc(user.ID).Set(ctx, user)
	if err != nil {
		return errors.Internal("Failed to create user", err)
	}
	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection(usersCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	return &user, nil
}

func (r *firestoreUserRepository) List(ctx context.Context) ([]*entity.User, error) {
	users, err := collectDocs[entity.User](r.client.Collection(usersCollection).OrderBy("createdAt", firestore.Asc).Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list users", err)
	}
	return users, nil
}

func (r *firestoreUserRepository) Count(ctx context.Context) (int64, error) {
	n, err := countDocs(ctx, r.client.Collection(usersCollection).Query)
	if err != nil {
		return 0, errors.Internal("Failed to count users", err)
	}
	return n, nil
}

func (r *firestoreUserRepository) UpdateAverageRating(ctx context.Context, id string, average float64) error {
	_, err := r.client.Collection(usersCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "averageRating", Value: average},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("User", err)
		}
		return errors.Internal("Failed to update user rating", err)
	}
	return nil
}

func (r *firestoreUserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(usersCollection).Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete user", err)
	}
	return nil
}
