package usecase

import (
	"context"
	"sync"

	memrepo "helperhub/internal/adapter/repository"
	"helperhub/internal/domain/entity"
)

type sent struct {
	Target  string
	Event   string
	Payload any
}

type fakeNotifier struct {
	mu         sync.Mutex
	directed   []sent
	broadcasts []sent
}

func (f *fakeNotifier) Notify(accountID, event string, payload any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.directed = append(f.directed, sent{accountID, event, payload})
	return true
}

func (f *fakeNotifier) Broadcast(roomKey, event string, payload any) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcasts = append(f.broadcasts, sent{roomKey, event, payload})
	return 1
}

func (f *fakeNotifier) directedTo(target, event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.directed {
		if s.Target == target && s.Event == event {
			n++
		}
	}
	return n
}

type fakePublisher struct {
	mu   sync.Mutex
	keys []string
}

func (f *fakePublisher) PublishJSON(ctx context.Context, key string, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	return nil
}

type fixture struct {
	repos     *memrepo.Repositories
	notifier  *fakeNotifier
	publisher *fakePublisher
	bookings  *BookingUseCase
}

func newFixture() *fixture {
	f := &fixture{
		repos:     memrepo.NewMemoryRepositories(),
		notifier:  &fakeNotifier{},
		publisher: &fakePublisher{},
	}
	f.bookings = NewBookingUseCase(f.repos.Bookings, f.notifier, f.publisher)
	return f
}

func (f *fixture) helper(ctx context.Context, id string) *entity.Helper {
	h := &entity.Helper{ID: id, Name: id, Category: "cleaning", IsAvailable: true}
	if err := f.repos.Helpers.Create(ctx, h); err != nil {
		panic(err)
	}
	return h
}
