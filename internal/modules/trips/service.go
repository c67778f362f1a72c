package trips

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"ridemarket/internal/domain"
	"ridemarket/internal/seatmap"
)

type Service struct {
	trips    TripRepository
	bookings BookingRepository
	rules    seatmap.VariantRules
}

func NewService(trips TripRepository, bookings BookingRepository, rules seatmap.VariantRules) *Service {
	return &Service{trips: trips, bookings: bookings, rules: rules}
}

// Search lists trips on a route for one calendar day, with live seat
// availability.
func (s *Service) Search(ctx context.Context, req SearchRequest) ([]TripResponse, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrValidation
	}

	rows, err := s.trips.Search(ctx, req.Source, req.Destination, date)
	if err != nil {
		return nil, err
	}

	out := make([]TripResponse, 0, len(rows))
	for i := range rows {
		resp, err := s.toResponse(ctx, &rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *Service) Locations(ctx context.Context) ([]string, error) {
	return s.trips.Locations(ctx)
}

func (s *Service) GetTrip(ctx context.Context, id int64) (*TripResponse, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp, err := s.toResponse(ctx, trip)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SeatMap returns the derived layout with current occupancy so clients can
// render the picker.
func (s *Service) SeatMap(ctx context.Context, tripID int64) (*SeatMapResponse, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	capacity := 0
	label := ""
	if trip.Vehicle != nil {
		capacity = trip.Vehicle.Capacity
		label = trip.Vehicle.Name
	}
	layout := seatmap.ResolveWith(s.rules, capacity, label)

	occupied, err := s.bookings.ActiveSeatGenders(ctx, tripID)
	if err != nil {
		return nil, err
	}

	resp := &SeatMapResponse{
		TripID:  trip.ID,
		Variant: layout.Variant,
		Rows:    layout.Rows,
		Booked:  make([]BookedSeat, 0, len(occupied)),
		Seats:   make([]string, 0, len(occupied)),
	}
	for _, row := range occupied {
		resp.Booked = append(resp.Booked, BookedSeat{Seat: row.Seat, Gender: row.Gender})
		resp.Seats = append(resp.Seats, row.Seat)
	}
	return resp, nil
}

// BookedSeats is the lighter endpoint behind the seat picker's polling
// fallback.
func (s *Service) BookedSeats(ctx context.Context, tripID int64) ([]BookedSeat, error) {
	occupied, err := s.bookings.ActiveSeatGenders(ctx, tripID)
	if err != nil {
		return nil, err
	}
	out := make([]BookedSeat, 0, len(occupied))
	for _, row := range occupied {
		out = append(out, BookedSeat{Seat: row.Seat, Gender: row.Gender})
	}
	return out, nil
}

func (s *Service) toResponse(ctx context.Context, trip *domain.Trip) (TripResponse, error) {
	resp := TripResponse{
		ID:          trip.ID,
		Source:      trip.Source,
		Destination: trip.Destination,
		Departure:   trip.Departure,
		Arrival:     trip.Arrival,
		Price:       trip.Price,
	}
	if trip.Vehicle != nil {
		resp.VehicleName = trip.Vehicle.Name
		resp.Capacity = trip.Vehicle.Capacity
	}

	booked, err := s.bookings.ActiveSeats(ctx, trip.ID)
	if err != nil {
		return TripResponse{}, err
	}
	resp.SeatsAvailable = resp.Capacity - len(booked)
	if resp.SeatsAvailable < 0 {
		resp.SeatsAvailable = 0
	}
	return resp, nil
}
