package usecase

import (
	"context"
	"sync"
	"time"

	"helperhub/internal/domain/repository"
	ws "helperhub/internal/infrastructure/websocket"
	"helperhub/pkg/logger"
)

// OverdueMonitor surfaces accepted bookings whose arrival time has passed. It never changes status.
type OverdueMonitor struct {
	bookingRepo repository.BookingRepository
	notifier    Notifier
	publisher   EventPublisher
	interval    time.Duration
	now         func() time.Time

	mu       sync.Mutex
	notified map[string]struct{}
}

func NewOverdueMonitor(
	bookingRepo repository.BookingRepository,
	notifier Notifier,
	publisher EventPublisher,
	interval time.Duration,
) *OverdueMonitor {
	return &OverdueMonitor{
		bookingRepo: bookingRepo,
		notifier:    notifier,
		publisher:   publisher,
		interval:    interval,
		now:         time.Now,
		notified:    make(map[string]struct{}),
	}
}

type OverdueNotice struct {
	BookingID   string    `json:"booking_id"`
	UserID      string    `json:"user_id"`
	HelperID    string    `json:"helper_id"`
	ArrivalTime time.Time `json:"arrival_time"`
}

// Scan notifies both parties of every newly overdue booking once and returns how many it flagged.
func (m *OverdueMonitor) Scan(ctx context.Context) (int, error) {
	overdue, err := m.bookingRepo.ListOverdue(ctx, m.now())
	if err != nil {
		return 0, err
	}

	flagged := 0
	for _, b := range overdue {
		m.mu.Lock()
		_, seen := m.notified[b.ID]
		if !seen {
			m.notified[b.ID] = struct{}{}
		}
		m.mu.Unlock()
		if seen {
			continue
		}

		notice := OverdueNotice{BookingID: b.ID, UserID: b.UserID, HelperID: b.HelperID, ArrivalTime: *b.ArrivalTime}
		m.notifier.Notify(b.UserID, ws.EventBookingOverdue, notice)
		m.notifier.Notify(b.HelperID, ws.EventBookingOverdue, notice)
		if m.publisher != nil {
			if err := m.publisher.PublishJSON(ctx, "booking.overdue", notice); err != nil {
				logger.Warn("Failed to publish booking.overdue for %s: %v", b.ID, err)
			}
		}
		flagged++
	}

	if flagged > 0 {
		logger.Info("Overdue monitor flagged %d booking(s)", flagged)
	}
	return flagged, nil
}

// Run scans every interval until ctx is done.
func (m *OverdueMonitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	logger.Info("Overdue monitor started (checking every %s)", m.interval)
	for {
		select {
		case <-ticker.C:
			if _, err := m.Scan(ctx); err != nil {
				logger.Error("Overdue monitor error: %v", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}
