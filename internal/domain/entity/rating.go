package entity

import (
	"math"
	"time"
)

type PartyKind string

const (
	PartyUser   PartyKind = "User"
	PartyHelper PartyKind = "Helper"
)

// Party is either side of a booking.
type Party struct {
	Kind PartyKind `json:"kind" firestore:"kind"`
	ID   string    `json:"id" firestore:"id"`
}

func UserParty(id string) Party   { return Party{Kind: PartyUser, ID: id} }
func HelperParty(id string) Party { return Party{Kind: PartyHelper, ID: id} }

// Counterpart returns the other side of booking b from p's point of view.
func (p Party) Counterpart(b *Booking) Party {
	if p.Kind == PartyUser {
		return HelperParty(b.HelperID)
	}
	return UserParty(b.UserID)
}

type Rating struct {
	ID        string    `json:"id" firestore:"id"`
	From      Party     `json:"from" firestore:"from"`
	To        Party     `json:"to" firestore:"to"`
	BookingID string    `json:"booking_id" firestore:"bookingId"`
	Score     int       `json:"rating" firestore:"rating"`
	Review    string    `json:"review,omitempty" firestore:"review,omitempty"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// AverageScore is the mean of the scores rounded to one decimal; zero for no ratings.
func AverageScore(ratings []*Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Score
	}
	return math.Round(float64(sum)/float64(len(ratings))*10) / 10
}
