package trips

import "time"

type SearchRequest struct {
	Source      string `form:"source" binding:"required"`
	Destination string `form:"destination" binding:"required"`
	Date        string `form:"date" binding:"required"`
}

type TripResponse struct {
	ID             int64     `json:"id"`
	Source         string    `json:"source"`
	Destination    string    `json:"destination"`
	Departure      time.Time `json:"departure"`
	Arrival        time.Time `json:"arrival"`
	Price          float64   `json:"price"`
	VehicleName    string    `json:"vehicle_name"`
	Capacity       int       `json:"capacity"`
	SeatsAvailable int       `json:"seats_available"`
}

type BookedSeat struct {
	Seat   string `json:"seat"`
	Gender string `json:"gender,omitempty"`
}

type SeatMapResponse struct {
	TripID  int64        `json:"trip_id"`
	Variant string       `json:"variant"`
	Rows    [][]string   `json:"rows"`
	Booked  []BookedSeat `json:"booked"`
	// Seats duplicates Booked as a plain id list for older clients.
	Seats []string `json:"seats"`
}
