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

type firestoreHelperRepository struct {
	client *firestore.Client
}

func NewFirestoreHelperRepository(client *firestore.Client) repository.HelperRepository {
	return &firestoreHelperRepository{
		client: client,
	}
}

func (r *firestoreHelperRepository) Create(ctx context.Context, helper *entity.Helper) error {
	if helper.ID == "" {
		helper.ID = uuid.New().String()
	}

	now := time.Now()
	helper.CreatedAt = now
	helper.UpdatedAt = now

	_, err := r.client.Collection(helpersCollection).Doc(helper.ID).Set(ctx, helper)
	if err != nil {
		return errors.Internal("Failed to create helper", err)
	}
	return nil
}

func (r *firestoreHelperRepository) GetByID(ctx context.Context, id string) (*entity.Helper, error) {
	doc, err := r.client.Collection(helpersCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Helper", err)
		}
		return nil, errors.Internal("Failed to get helper", err)
	}

	var helper entity.Helper
	if err := doc.DataTo(&helper); err != nil {
		return nil, errors.Internal("Failed to parse helper data", err)
	}
	return &helper, nil
}

func (r *firestoreHelperRepository) List(ctx context.Context) ([]*entity.Helper, error) {
	helpers, err := collectDocs[entity.Helper](r.client.Collection(helpersCollection).OrderBy("createdAt", firestore.Asc).Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list helpers", err)
	}
	return helpers, nil
}

func (r *firestoreHelperRepository) ListAvailable(ctx context.Context, category string) ([]*entity.Helper, error) {
	query := r.client.Collection(helpersCollection).Where("isAvailable", "==", true)
	if category != "" {
		query = query.Where("category", "==", category)
	}

	helpers, err := collectDocs[entity.Helper](query.Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list available helpers", err)
	}
	return helpers, nil
}

func (r *firestoreHelperRepository) Count(ctx context.Context) (int64, error) {
	n, err := countDocs(ctx, r.client.Collection(helpersCollection).Query)
	if err != nil {
		return 0, errors.Internal("Failed to count helpers", err)
	}
	return n, nil
}

func (r *firestoreHelperRepository) TotalEarnings(ctx context.Context) (int64, error) {
	helpers, err := collectDocs[entity.Helper](r.client.Collection(helpersCollection).Select("earnings").Documents(ctx))
	if err != nil {
		return 0, errors.Internal("Failed to sum helper earnings", err)
	}

	var total int64
	for _, h := range helpers {
		total += h.Earnings
	}
	return total, nil
}

func (r *firestoreHelperRepository) SetAvailability(ctx context.Context, id string, available bool) (*entity.Helper, error) {
	var helper entity.Helper
	docRef := r.client.Collection(helpersCollection).Doc(id)
	active := r.client.Collection(bookingsCollection).
		Where("helperId", "==", id).
		Where("status", "in", activeStatusNames()).
		Limit(1)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Helper", err)
			}
			return err
		}
		if err := doc.DataTo(&helper); err != nil {
			return err
		}

		hasActive := false
		if available {
			docs, err := tx.Documents(active).GetAll()
			if err != nil {
				return err
			}
			hasActive = len(docs) > 0
		}
		if err := applyAvailability(&helper, available, hasActive, time.Now()); err != nil {
			return err
		}
		return tx.Set(docRef, helper)
	})
	if err != nil {
		return nil, passAppError(err, "Failed to update availability")
	}
	return &helper, nil
}

func (r *firestoreHelperRepository) UpdateAverageRating(ctx context.Context, id string, average float64) error {
	_, err := r.client.Collection(helpersCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "averageRating", Value: average},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Helper", err)
		}
		return errors.Internal("Failed to update helper rating", err)
	}
	return nil
}

func (r *firestoreHelperRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(helpersCollection).Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete helper", err)
	}
	return nil
}
