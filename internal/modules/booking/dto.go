package booking

import "time"

// PassengerInput carries the per-seat traveller details of the full request
// variant.
type PassengerInput struct {
	Seat   string `json:"seat" binding:"required"`
	Name   string `json:"name"`
	Age    *int   `json:"age"`
	Mobile string `json:"mobile"`
	Gender string `json:"gender"`
}

// CreateBookingRequest accepts either the seat-only variant (legacy clients)
// or the seat+passenger variant, never both.
type CreateBookingRequest struct {
	TripID     int64            `json:"trip_id" binding:"required"`
	Seats      []string         `json:"seats"`
	Passengers []PassengerInput `json:"passengers"`
	HoldToken  string           `json:"hold_token"`
}

type HoldRequest struct {
	TripID int64    `json:"trip_id" binding:"required"`
	Seats  []string `json:"seats" binding:"required"`
}

type HoldResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in_seconds"`
}

type BookingResponse struct {
	ID         int64      `json:"id"`
	Reference  string     `json:"reference"`
	TripID     int64      `json:"trip_id"`
	Status     string     `json:"status"`
	Seats      []string   `json:"seats"`
	SeatCount  int        `json:"seat_count"`
	TotalPrice float64    `json:"total_price"`
	IsPaid     bool       `json:"is_paid"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`

	Source      string     `json:"source,omitempty"`
	Destination string     `json:"destination,omitempty"`
	Departure   *time.Time `json:"departure,omitempty"`
	VehicleName string     `json:"vehicle_name,omitempty"`
}

type SuggestionResponse struct {
	Name   string `json:"name"`
	Age    *int   `json:"age,omitempty"`
	Mobile string `json:"mobile,omitempty"`
	Gender string `json:"gender,omitempty"`
}
