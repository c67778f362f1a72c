package domain

import "time"

type Review struct {
	ID         int64     `json:"id"`
	BookingID  int64     `json:"booking_id" gorm:"uniqueIndex"`
	CustomerID int64     `json:"customer_id"`
	OwnerID    int64     `json:"owner_id"`
	Rating     int       `json:"rating" validate:"required,gte=1,lte=5"`
	Comment    string    `json:"comment,omitempty" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
}
