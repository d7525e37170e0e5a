package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"helperhub/internal/domain/entity"
	"helperhub/internal/domain/repository"
	"helperhub/pkg/errors"
)

type firestoreRatingRepository struct {
	client *firestore.Client
}

func NewFirestoreRatingRepository(client *firestore.Client) repository.RatingRepository {
	return &firestoreRatingRepository{
		client: client,
	}
}

// Create keys the document by booking and rater so Firestore rejects a second rating.
func (r *firestoreRatingRepository) Create(ctx context.Context, rating *entity.Rating) error {
	rating.ID = rating.BookingID + "_" + rating.From.ID
	rating.CreatedAt = time.Now()

	_, err := r.client.Collection(ratingsCollection).Doc(rating.ID).Create(ctx, rating)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Validation("You already rated this booking")
		}
		return errors.Internal("Failed to create rating", err)
	}
	return nil
}

func (r *firestoreRatingRepository) ListByRatee(ctx context.Context, ratee entity.Party) ([]*entity.Rating, error) {
	query := r.client.Collection(ratingsCollection).
		Where("to.kind", "==", string(ratee.Kind)).
		Where("to.id", "==", ratee.ID)
	ratings, err := collectDocs[entity.Rating](query.Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list ratings", err)
	}
	sort.SliceStable(ratings, func(i, j int) bool { return ratings[i].CreatedAt.After(ratings[j].CreatedAt) })
	return ratings, nil
}
