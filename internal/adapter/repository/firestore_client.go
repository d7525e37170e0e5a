package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const (
	usersCollection    = "users"
	helpersCollection  = "helpers"
	bookingsCollection = "bookings"
	supportCollection  = "support"
	messagesCollection = "messages"
	ratingsCollection  = "ratings"
)

// NewFirestoreRepositories opens a Firestore client for project and wires every repository to it.
// credentialsPath may be empty to fall back to application default credentials.
func NewFirestoreRepositories(ctx context.Context, projectID, credentialsPath string) (*Repositories, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firestore: %w", err)
	}

	return &Repositories{
		Users:    NewFirestoreUserRepository(client),
		Helpers:  NewFirestoreHelperRepository(client),
		Bookings: NewFirestoreBookingRepository(client),
		Messages: NewFirestoreMessageRepository(client),
		Ratings:  NewFirestoreRatingRepository(client),
		closer:   client.Close,
	}, nil
}

// collectDocs decodes every document of iter into a T.
func collectDocs[T any](iter *firestore.DocumentIterator) ([]*T, error) {
	defer iter.Stop()

	items := make([]*T, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var item T
		if err := doc.DataTo(&item); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, nil
}

func countDocs(ctx context.Context, q firestore.Query) (int64, error) {
	iter := q.Select().Documents(ctx)
	defer iter.Stop()

	var count int64
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}
