package domain

import "time"

// Passenger is the per-seat detail attached to a booking. Gender feeds the
// adjacency rule on later bookings for the same trip.
type Passenger struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	Seat      string    `json:"seat"`
	Name      string    `json:"name"`
	Age       *int      `json:"age,omitempty"`
	Mobile    string    `json:"mobile,omitempty"`
	Gender    string    `json:"gender,omitempty" validate:"omitempty,gender"`
	CreatedAt time.Time `json:"created_at"`
}
