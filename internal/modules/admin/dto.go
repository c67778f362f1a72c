package admin

import "time"

type VehicleRequest struct {
	Name     string `json:"name" binding:"required"`
	Number   string `json:"number" binding:"required"`
	Capacity int    `json:"capacity" binding:"required,gt=0"`
	OwnerID  *int64 `json:"owner_id,omitempty"`
}

type TripRequest struct {
	VehicleID   int64     `json:"vehicle_id" binding:"required,gt=0"`
	Source      string    `json:"source" binding:"required"`
	Destination string    `json:"destination" binding:"required"`
	Departure   time.Time `json:"departure" binding:"required"`
	Arrival     time.Time `json:"arrival" binding:"required"`
	Price       float64   `json:"price" binding:"required,gt=0"`
}
