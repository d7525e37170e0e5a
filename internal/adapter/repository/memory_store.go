package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"helperhub/internal/domain/entity"
	"helperhub/internal/domain/repository"
	"helperhub/pkg/errors"
	"helperhub/pkg/utils"
)

// MemoryStore keeps every collection in process memory behind one lock, so a booking
// write and its helper write are a single critical section.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]*entity.User
	helpers  map[string]*entity.Helper
	bookings map[string]*entity.Booking
	messages []*entity.Message
	ratings  []*entity.Rating
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*entity.User),
		helpers:  make(map[string]*entity.Helper),
		bookings: make(map[string]*entity.Booking),
		now:      time.Now,
	}
}

func NewMemoryRepositories() *Repositories {
	s := NewMemoryStore()
	return &Repositories{
		Users:    &memoryUserRepository{s},
		Helpers:  &memoryHelperRepository{s},
		Bookings: &memoryBookingRepository{s},
		Messages: &memoryMessageRepository{s},
		Ratings:  &memoryRatingRepository{s},
	}
}

func copyBooking(b *entity.Booking) *entity.Booking {
	c := *b
	return &c
}

func copyHelper(h *entity.Helper) *entity.Helper {
	c := *h
	return &c
}

func copyUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

// Users

type memoryUserRepository struct{ s *MemoryStore }

func (r *memoryUserRepository) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := r.s.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = copyUser(user)
	return nil
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return copyUser(u), nil
}

func (r *memoryUserRepository) List(ctx context.Context) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (r *memoryUserRepository) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.users)), nil
}

func (r *memoryUserRepository) UpdateAverageRating(ctx context.Context, id string, average float64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return errors.NotFound("User", nil)
	}
	u.AverageRating = average
	u.UpdatedAt = r.s.now()
	return nil
}

func (r *memoryUserRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

// Helpers

type memoryHelperRepository struct{ s *MemoryStore }

func (r *memoryHelperRepository) Create(ctx context.Context, helper *entity.Helper) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if helper.ID == "" {
		helper.ID = uuid.New().String()
	}
	now := r.s.now()
	helper.CreatedAt = now
	helper.UpdatedAt = now
	r.s.helpers[helper.ID] = copyHelper(helper)
	return nil
}

func (r *memoryHelperRepository) GetByID(ctx context.Context, id string) (*entity.Helper, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	h, ok := r.s.helpers[id]
	if !ok {
		return nil, errors.NotFound("Helper", nil)
	}
	return copyHelper(h), nil
}

func (r *memoryHelperRepository) list(keep func(*entity.Helper) bool) []*entity.Helper {
	helpers := make([]*entity.Helper, 0, len(r.s.helpers))
	for _, h := range r.s.helpers {
		if keep(h) {
			helpers = append(helpers, copyHelper(h))
		}
	}
	sort.Slice(helpers, func(i, j int) bool { return helpers[i].CreatedAt.Before(helpers[j].CreatedAt) })
	return helpers
}

func (r *memoryHelperRepository) List(ctx context.Context) ([]*entity.Helper, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.list(func(*entity.Helper) bool { return true }), nil
}

func (r *memoryHelperRepository) ListAvailable(ctx context.Context, category string) ([]*entity.Helper, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.list(func(h *entity.Helper) bool {
		return h.IsAvailable && (category == "" || h.Category == category)
	}), nil
}

func (r *memoryHelperRepository) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.helpers)), nil
}

func (r *memoryHelperRepository) TotalEarnings(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var total int64
	for _, h := range r.s.helpers {
		total += h.Earnings
	}
	return total, nil
}

func (r *memoryHelperRepository) SetAvailability(ctx context.Context, id string, available bool) (*entity.Helper, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	h, ok := r.s.helpers[id]
	if !ok {
		return nil, errors.NotFound("Helper", nil)
	}

	hasActive := false
	for _, b := range r.s.bookings {
		if b.HelperID == id && b.Status.IsActive() {
			hasActive = true
			break
		}
	}
	if err := applyAvailability(h, available, hasActive, r.s.now()); err != nil {
		return nil, err
	}
	return copyHelper(h), nil
}

func (r *memoryHelperRepository) UpdateAverageRating(ctx context.Context, id string, average float64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	h, ok := r.s.helpers[id]
	if !ok {
		return errors.NotFound("Helper", nil)
	}
	h.AverageRating = average
	h.UpdatedAt = r.s.now()
	return nil
}

func (r *memoryHelperRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.helpers, id)
	return nil
}

// Bookings

type memoryBookingRepository struct{ s *MemoryStore }

func (r *memoryBookingRepository) CreateForAvailableHelper(ctx context.Context, booking *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	h, ok := r.s.helpers[booking.HelperID]
	if !ok {
		return errors.NotFound("Helper", nil)
	}
	if !h.IsAvailable {
		return errors.InvalidState("Helper not available")
	}

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	now := r.s.now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	r.s.bookings[booking.ID] = copyBooking(booking)
	return nil
}

func (r *memoryBookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return nil, errors.NotFound("Booking", nil)
	}
	return copyBooking(b), nil
}

func (r *memoryBookingRepository) ApplyTransition(ctx context.Context, t entity.Transition) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.bookings[t.BookingID]
	if !ok {
		return nil, errors.NotFound("Booking", nil)
	}

	// Work on copies so a rejected transition leaves the stored records untouched.
	b := copyBooking(stored)
	var h *entity.Helper
	if touchesHelper(t) {
		if storedHelper, ok := r.s.helpers[b.HelperID]; ok {
			h = copyHelper(storedHelper)
		}
	}

	if err := applyTransition(b, h, t); err != nil {
		return nil, err
	}

	r.s.bookings[b.ID] = b
	if h != nil {
		r.s.helpers[h.ID] = h
	}
	return copyBooking(b), nil
}

func (r *memoryBookingRepository) filter(keep func(*entity.Booking) bool) []*entity.Booking {
	bookings := make([]*entity.Booking, 0)
	for _, b := range r.s.bookings {
		if keep(b) {
			bookings = append(bookings, copyBooking(b))
		}
	}
	sort.SliceStable(bookings, func(i, j int) bool { return bookings[i].CreatedAt.After(bookings[j].CreatedAt) })
	return bookings
}

func (r *memoryBookingRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.filter(func(b *entity.Booking) bool { return b.UserID == userID }), nil
}

func (r *memoryBookingRepository) ListByHelper(ctx context.Context, helperID string) ([]*entity.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.filter(func(b *entity.Booking) bool { return b.HelperID == helperID }), nil
}

func (r *memoryBookingRepository) List(ctx context.Context, limit, offset int) ([]*entity.Booking, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := r.filter(func(*entity.Booking) bool { return true })
	start, end := utils.Bounds(len(all), offset, limit)
	return all[start:end], int64(len(all)), nil
}

func (r *memoryBookingRepository) Count(ctx context.Context, f repository.BookingFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, b := range r.s.bookings {
		if f.HelperID != "" && b.HelperID != f.HelperID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		n++
	}
	return n, nil
}

func (r *memoryBookingRepository) ListOverdue(ctx context.Context, now time.Time) ([]*entity.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.filter(func(b *entity.Booking) bool {
		return b.Status == entity.BookingAccepted && b.ArrivalTime != nil && b.ArrivalTime.Before(now)
	}), nil
}

// Messages

type memoryMessageRepository struct{ s *MemoryStore }

func (r *memoryMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if !message.Valid() {
		return errors.Validation("Message must reference exactly one channel")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = r.s.now()
	c := *message
	r.s.messages = append(r.s.messages, &c)
	return nil
}

func (r *memoryMessageRepository) list(keep func(*entity.Message) bool) []*entity.Message {
	messages := make([]*entity.Message, 0)
	for _, m := range r.s.messages {
		if keep(m) {
			c := *m
			messages = append(messages, &c)
		}
	}
	sort.SliceStable(messages, func(i, j int) bool { return messages[i].CreatedAt.Before(messages[j].CreatedAt) })
	return messages
}

func (r *memoryMessageRepository) ListByBooking(ctx context.Context, bookingID string) ([]*entity.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.list(func(m *entity.Message) bool {
		return m.Type == entity.MessageTypeBooking && m.BookingID == bookingID
	}), nil
}

func (r *memoryMessageRepository) ListSupport(ctx context.Context, userID string) ([]*entity.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.list(func(m *entity.Message) bool {
		return m.Type == entity.MessageTypeSupport && m.SupportUserID == userID
	}), nil
}

func (r *memoryMessageRepository) ListSupportUsers(ctx context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := make(map[string]struct{})
	users := make([]string, 0)
	for _, m := range r.s.messages {
		if m.Type != entity.MessageTypeSupport {
			continue
		}
		if _, ok := seen[m.SupportUserID]; !ok {
			seen[m.SupportUserID] = struct{}{}
			users = append(users, m.SupportUserID)
		}
	}
	sort.Strings(users)
	return users, nil
}

// Ratings

type memoryRatingRepository struct{ s *MemoryStore }

func (r *memoryRatingRepository) Create(ctx context.Context, rating *entity.Rating) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.ratings {
		if existing.BookingID == rating.BookingID && existing.From.ID == rating.From.ID {
			return errors.Validation("You already rated this booking")
		}
	}

	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	rating.CreatedAt = r.s.now()
	c := *rating
	r.s.ratings = append(r.s.ratings, &c)
	return nil
}

func (r *memoryRatingRepository) ListByRatee(ctx context.Context, ratee entity.Party) ([]*entity.Rating, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ratings := make([]*entity.Rating, 0)
	for _, existing := range r.s.ratings {
		if existing.To == ratee {
			c := *existing
			ratings = append(ratings, &c)
		}
	}
	sort.SliceStable(ratings, func(i, j int) bool { return ratings[i].CreatedAt.After(ratings[j].CreatedAt) })
	return ratings, nil
}
