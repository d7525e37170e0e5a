package entity

import (
	"time"
)

type BookingStatus string

const (
	BookingWaiting   BookingStatus = "waiting"
	BookingAccepted  BookingStatus = "accepted"
	BookingArriving  BookingStatus = "arriving" // declared by the schema, never produced
	BookingReached   BookingStatus = "reached"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled" // terminal, no transition produces it
)

// bookingTransitions is the whole lifecycle: each status has at most one successor.
var bookingTransitions = map[BookingStatus]BookingStatus{
	BookingWaiting:  BookingAccepted,
	BookingAccepted: BookingReached,
	BookingReached:  BookingCompleted,
}

// CanTransitionTo reports whether next directly follows s in the lifecycle.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	succ, ok := bookingTransitions[s]
	return ok && succ == next
}

// ActiveBookingStatuses keep the helper occupied.
var ActiveBookingStatuses = []BookingStatus{BookingAccepted, BookingArriving, BookingReached}

// IsActive is true for statuses that keep the helper occupied.
func (s BookingStatus) IsActive() bool {
	return s == BookingAccepted || s == BookingArriving || s == BookingReached
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingWaiting, BookingAccepted, BookingArriving, BookingReached, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

type Booking struct {
	ID          string        `json:"id" firestore:"id"`
	UserID      string        `json:"user_id" firestore:"userId"`
	HelperID    string        `json:"helper_id" firestore:"helperId"`
	Category    string        `json:"category" firestore:"category"`
	Status      BookingStatus `json:"status" firestore:"status"`
	ArrivalTime *time.Time    `json:"arrival_time,omitempty" firestore:"arrivalTime,omitempty"`
	CompletedAt *time.Time    `json:"completed_at,omitempty" firestore:"completedAt,omitempty"`
	CreatedAt   time.Time     `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time     `json:"updated_at" firestore:"updatedAt"`
}

// IsParty reports whether accountID is the requester or the helper of the booking.
func (b *Booking) IsParty(accountID string) bool {
	return accountID != "" && (b.UserID == accountID || b.HelperID == accountID)
}

// RoomKey is the broadcast room shared by everyone watching this booking.
func (b *Booking) RoomKey() string {
	return BookingRoomKey(b.ID)
}

func BookingRoomKey(bookingID string) string {
	return "booking-" + bookingID
}

// HelperEffect describes what a transition does to the booking's helper in the same commit.
type HelperEffect struct {
	// Claim flips isAvailable true→false and fails if the helper is already unavailable.
	Claim bool
	// Release sets isAvailable back to true.
	Release bool
	// EarningsDelta is added to the helper's earnings.
	EarningsDelta int64
}

// Transition is a compare-and-set of a booking's status plus its helper side effects.
type Transition struct {
	BookingID string
	From      BookingStatus
	To        BookingStatus
	At        time.Time
	// Apply fills transition-specific fields (arrival time, completion time) on the loaded booking.
	Apply  func(b *Booking)
	Helper HelperEffect
	// NotInStateMessage is returned as InvalidState when the stored status is not From.
	NotInStateMessage string
}
