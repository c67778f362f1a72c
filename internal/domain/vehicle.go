package domain

import "time"

// Vehicle is the physical car/bus a trip runs on. Capacity together with the
// name drives the seat-map derivation (see internal/seatmap).
type Vehicle struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Number    string    `json:"number" validate:"required" gorm:"uniqueIndex"`
	Capacity  int       `json:"capacity" validate:"required,gt=0"`
	OwnerID   *int64    `json:"owner_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
