package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helperhub/internal/domain/entity"
	"helperhub/internal/domain/repository"
	"helperhub/pkg/errors"
)

func seedBooking(t *testing.T, repos *Repositories, available bool) (*entity.Helper, *entity.Booking) {
	t.Helper()
	ctx := context.Background()

	h := &entity.Helper{Name: "Hana", Category: "cleaning", IsAvailable: true}
	require.NoError(t, repos.Helpers.Create(ctx, h))

	b := &entity.Booking{UserID: "u1", HelperID: h.ID, Category: "cleaning", Status: entity.BookingWaiting}
	require.NoError(t, repos.Bookings.CreateForAvailableHelper(ctx, b))

	if !available {
		_, err := repos.Helpers.SetAvailability(ctx, h.ID, false)
		require.NoError(t, err)
	}
	return h, b
}

func acceptTransition(id string) entity.Transition {
	return entity.Transition{
		BookingID: id,
		From:      entity.BookingWaiting,
		To:        entity.BookingAccepted,
		At:        time.Now(),
		Helper:    entity.HelperEffect{Claim: true},
	}
}

func TestMemoryCreateForAvailableHelper(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories()

	err := repos.Bookings.CreateForAvailableHelper(ctx, &entity.Booking{HelperID: "missing", Status: entity.BookingWaiting})
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	h, _ := seedBooking(t, repos, false)
	err = repos.Bookings.CreateForAvailableHelper(ctx, &entity.Booking{HelperID: h.ID, Status: entity.BookingWaiting})
	assert.True(t, errors.Is(err, errors.CodeInvalidState))
}

func TestMemoryApplyTransitionClaimsHelper(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories()
	h, b := seedBooking(t, repos, true)

	tr := acceptTransition(b.ID)
	arrival := tr.At.Add(15 * time.Minute)
	tr.Apply = func(b *entity.Booking) { b.ArrivalTime = &arrival }

	updated, err := repos.Bookings.ApplyTransition(ctx, tr)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingAccepted, updated.Status)
	require.NotNil(t, updated.ArrivalTime)
	assert.Equal(t, arrival, *updated.ArrivalTime)

	stored, err := repos.Helpers.GetByID(ctx, h.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAvailable)

	_, err = repos.Bookings.ApplyTransition(ctx, acceptTransition(b.ID))
	assert.True(t, errors.Is(err, errors.CodeInvalidState))
}

func TestMemoryApplyTransitionRejectsBusyHelper(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories()
	_, b := seedBooking(t, repos, false)

	_, err := repos.Bookings.ApplyTransition(ctx, acceptTransition(b.ID))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Helper not available")

	stored, err := repos.Bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingWaiting, stored.Status)
}

func TestMemoryConcurrentAcceptHasOneWinner(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories()
	_, b := seedBooking(t, repos, true)

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repos.Bookings.ApplyTransition(ctx, acceptTransition(b.ID)); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, success)
}

func TestMemorySetAvailabilityRefusesActiveHelper(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories()
	h, b := seedBooking(t, repos, true)

	_, err := repos.Bookings.ApplyTransition(ctx, acceptTransition(b.ID))
	require.NoError(t, err)

	_, err = repos.Helpers.SetAvailability(ctx, h.ID, true)
	assert.True(t, errors.Is(err, errors.CodeInvalidState))

	stored, err := repos.Helpers.SetAvailability(ctx, h.ID, false)
	require.NoError(t, err)
	assert.False(t, stored.IsAvailable)

	_, err = repos.Helpers.SetAvailability(ctx, "missing", false)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestMemorySetAvailabilityAgainstConcurrentAccept(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		repos := NewMemoryRepositories()
		h, b := seedBooking(t, repos, true)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = repos.Bookings.ApplyTransition(ctx, acceptTransition(b.ID))
		}()
		go func() {
			defer wg.Done()
			_, _ = repos.Helpers.SetAvailability(ctx, h.ID, true)
		}()
		wg.Wait()

		booking, err := repos.Bookings.GetByID(ctx, b.ID)
		require.NoError(t, err)
		stored, err := repos.Helpers.GetByID(ctx, h.ID)
		require.NoError(t, err)
		if booking.Status.IsActive() {
			assert.False(t, stored.IsAvailable)
		}
	}
}

func TestMemoryCompleteReleasesAndPays(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories()
	h, b := seedBooking(t, repos, true)

	_, err := repos.Bookings.ApplyTransition(ctx, acceptTransition(b.ID))
	require.NoError(t, err)
	_, err = repos.Bookings.ApplyTransition(ctx, entity.Transition{BookingID: b.ID, From: entity.BookingAccepted, To: entity.BookingReached, At: time.Now()})
	require.NoError(t, err)
	_, err = repos.Bookings.ApplyTransition(ctx, entity.Transition{
		BookingID: b.ID,
		From:      entity.BookingReached,
		To:        entity.BookingCompleted,
		At:        time.Now(),
		Helper:    entity.HelperEffect{Release: true, EarningsDelta: 500},
	})
	require.NoError(t, err)

	stored, err := repos.Helpers.GetByID(ctx, h.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsAvailable)
	assert.Equal(t, int64(500), stored.Earnings)

	n, err := repos.Bookings.Count(ctx, repository.BookingFilter{HelperID: h.ID, Status: entity.BookingCompleted})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryListOverdue(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories()
	_, b := seedBooking(t, repos, true)

	past := time.Now().Add(-time.Minute)
	tr := acceptTransition(b.ID)
	tr.Apply = func(b *entity.Booking) { b.ArrivalTime = &past }
	_, err := repos.Bookings.ApplyTransition(ctx, tr)
	require.NoError(t, err)

	overdue, err := repos.Bookings.ListOverdue(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, b.ID, overdue[0].ID)

	overdue, err = repos.Bookings.ListOverdue(ctx, past.Add(-time.Second))
	require.NoError(t, err)
	assert.Empty(t, overdue)
}

func TestMemoryMessagesOrderedOldestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := &memoryMessageRepository{store}

	base := time.Now()
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	for _, text := range []string{"one", "two", "three"} {
		require.NoError(t, repo.Create(ctx, &entity.Message{Type: entity.MessageTypeBooking, BookingID: "b1", SenderID: "u1", Content: text}))
	}
	require.NoError(t, repo.Create(ctx, &entity.Message{Type: entity.MessageTypeSupport, SupportUserID: "u1", SenderID: "u1", Content: "help"}))

	messages, err := repo.ListByBooking(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "one", messages[0].Content)
	assert.Equal(t, "three", messages[2].Content)

	support, err := repo.ListSupport(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, support, 1)

	err = repo.Create(ctx, &entity.Message{Type: entity.MessageTypeBooking, BookingID: "b1", SupportUserID: "u1"})
	assert.True(t, errors.Is(err, errors.CodeValidation))
}

func TestMemoryRatingDuplicate(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories()

	rating := &entity.Rating{From: entity.UserParty("u1"), To: entity.HelperParty("h1"), BookingID: "b1", Score: 5}
	require.NoError(t, repos.Ratings.Create(ctx, rating))

	err := repos.Ratings.Create(ctx, &entity.Rating{From: entity.UserParty("u1"), To: entity.HelperParty("h1"), BookingID: "b1", Score: 3})
	assert.True(t, errors.Is(err, errors.CodeValidation))

	ratings, err := repos.Ratings.ListByRatee(ctx, entity.HelperParty("h1"))
	require.NoError(t, err)
	assert.Len(t, ratings, 1)
}

func TestMemoryRatingsMatchRateeKind(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories()

	// A user and a helper can carry the same id.
	require.NoError(t, repos.Ratings.Create(ctx, &entity.Rating{From: entity.UserParty("u1"), To: entity.HelperParty("x1"), BookingID: "b1", Score: 5}))
	require.NoError(t, repos.Ratings.Create(ctx, &entity.Rating{From: entity.HelperParty("h1"), To: entity.UserParty("x1"), BookingID: "b2", Score: 1}))

	helperSide, err := repos.Ratings.ListByRatee(ctx, entity.HelperParty("x1"))
	require.NoError(t, err)
	require.Len(t, helperSide, 1)
	assert.Equal(t, 5, helperSide[0].Score)

	userSide, err := repos.Ratings.ListByRatee(ctx, entity.UserParty("x1"))
	require.NoError(t, err)
	require.Len(t, userSide, 1)
	assert.Equal(t, 1, userSide[0].Score)
}

func TestMemoryListPaginates(t *testing.T) {
	ctx := context.Background()
	repos := NewMemoryRepositories()
	h := &entity.Helper{IsAvailable: true}
	require.NoError(t, repos.Helpers.Create(ctx, h))
	for i := 0; i < 5; i++ {
		require.NoError(t, repos.Bookings.CreateForAvailableHelper(ctx, &entity.Booking{UserID: "u1", HelperID: h.ID, Status: entity.BookingWaiting}))
	}

	page, total, err := repos.Bookings.List(ctx, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page, 1)

	page, _, err = repos.Bookings.List(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}
