package entity

import (
	"time"
)

const (
	RoleUser   = "user"
	RoleHelper = "helper"
	RoleAdmin  = "admin"
)

// User is a requester or an admin account. Helpers live in their own collection.
type User struct {
	ID            string    `json:"id" firestore:"id"`
	Name          string    `json:"name" firestore:"name"`
	Email         string    `json:"email" firestore:"email"`
	Role          string    `json:"role" firestore:"role"`
	AverageRating float64   `json:"average_rating" firestore:"averageRating"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" firestore:"updatedAt"`
}

// Account is the authenticated caller as seen by the API layer.
type Account struct {
	ID   string
	Role string
}

func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Party maps the account onto the rating union.
func (a Account) Party() Party {
	if a.Role == RoleHelper {
		return HelperParty(a.ID)
	}
	return UserParty(a.ID)
}
