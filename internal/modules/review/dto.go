package review

import "time"

type CreateReviewRequest struct {
	BookingID int64  `json:"booking_id" binding:"required,gt=0"`
	Rating    int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment   string `json:"comment,omitempty"`
}

type ReviewResponse struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	OwnerID   int64     `json:"owner_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type OwnerRatingResponse struct {
	OwnerID int64   `json:"owner_id"`
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}
