package entity

import "time"

type Helper struct {
	ID            string    `json:"id" firestore:"id"`
	Name          string    `json:"name" firestore:"name"`
	Email         string    `json:"email" firestore:"email"`
	Category      string    `json:"category" firestore:"category"`
	IsAvailable   bool      `json:"is_available" firestore:"isAvailable"`
	Earnings      int64     `json:"earnings" firestore:"earnings"`
	AverageRating float64   `json:"average_rating" firestore:"averageRating"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" firestore:"updatedAt"`
}

type HelperDashboard struct {
	TotalBookings     int64 `json:"total_bookings"`
	CompletedBookings int64 `json:"completed_bookings"`
	PendingBookings   int64 `json:"pending_bookings"`
	Earnings          int64 `json:"earnings"`
	IsAvailable       bool  `json:"is_available"`
}

type PlatformStats struct {
	TotalUsers        int64 `json:"total_users"`
	TotalHelpers      int64 `json:"total_helpers"`
	TotalBookings     int64 `json:"total_bookings"`
	CompletedBookings int64 `json:"completed_bookings"`
	TotalEarnings     int64 `json:"total_earnings"`
}
