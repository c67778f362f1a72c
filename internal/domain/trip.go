package domain

import "time"

type Trip struct {
	ID          int64     `json:"id"`
	VehicleID   int64     `json:"vehicle_id" validate:"required"`
	Source      string    `json:"source" validate:"required"`
	Destination string    `json:"destination" validate:"required"`
	Departure   time.Time `json:"departure" validate:"required"`
	Arrival     time.Time `json:"arrival" validate:"required"`
	Price       float64   `json:"price" validate:"required,gte=0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Vehicle *Vehicle `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
}
