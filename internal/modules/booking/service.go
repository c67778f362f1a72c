package booking

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ridemarket/internal/domain"
	"ridemarket/internal/pkg/ticket"
	"ridemarket/internal/seatmap"
)

type Service struct {
	bookings   BookingRepository
	trips      TripRepository
	passengers PassengerRepository
	holds      SeatHolder
	feed       SeatEventPublisher
	rules      seatmap.VariantRules
}

func NewService(
	bookings BookingRepository,
	trips TripRepository,
	passengers PassengerRepository,
	holds SeatHolder,
	feed SeatEventPublisher,
	rules seatmap.VariantRules,
) *Service {
	return &Service{
		bookings:   bookings,
		trips:      trips,
		passengers: passengers,
		holds:      holds,
		feed:       feed,
		rules:      rules,
	}
}

// CreateBooking evaluates the requested seats against the trip's occupancy
// and writes the reservation atomically. The database's unique seat index
// backstops the evaluation when two requests race.
func (s *Service) CreateBooking(ctx context.Context, userID int64, req CreateBookingRequest) (*domain.Booking, error) {
	claims, inputs, err := normalizeRequest(req)
	if err != nil {
		return nil, err
	}

	trip, err := s.trips.GetByID(ctx, req.TripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	if trip.Vehicle == nil {
		return nil, ErrTripNotFound
	}

	layout := seatmap.ResolveWith(s.rules, trip.Vehicle.Capacity, trip.Vehicle.Name)

	occupiedRows, err := s.bookings.ActiveSeatGenders(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	occupied := make(map[string]string, len(occupiedRows))
	for _, row := range occupiedRows {
		occupied[row.Seat] = row.Gender
	}

	if err := EvaluateSeats(layout, claims, occupied); err != nil {
		return nil, err
	}

	seats := make([]string, len(claims))
	for i, c := range claims {
		seats[i] = c.Seat
	}

	if req.HoldToken != "" && s.holds != nil {
		ok, err := s.holds.Validate(ctx, trip.ID, seats, req.HoldToken)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrHoldExpired
		}
	}

	total := trip.Price * float64(len(seats))
	total = math.Round(total*100) / 100

	b := &domain.Booking{
		Reference:  newReference(),
		UserID:     userID,
		TripID:     trip.ID,
		SeatCount:  len(seats),
		TotalPrice: total,
		Status:     domain.BookingPending,
		TripDate:   &trip.Departure,
	}
	for _, seat := range seats {
		b.Seats = append(b.Seats, domain.BookingSeat{TripID: trip.ID, Seat: seat})
	}

	rows := make([]domain.Passenger, 0, len(inputs))
	for _, in := range inputs {
		rows = append(rows, domain.Passenger{
			Seat:   in.Seat,
			Name:   in.Name,
			Age:    in.Age,
			Mobile: in.Mobile,
			Gender: in.Gender,
		})
	}

	if err := s.bookings.Create(ctx, b, rows); err != nil {
		return nil, err
	}
	b.Trip = trip

	if req.HoldToken != "" && s.holds != nil {
		_ = s.holds.Release(ctx, trip.ID, seats, req.HoldToken)
	}
	if s.feed != nil {
		s.feed.SeatsBooked(trip.ID, seats)
	}

	return b, nil
}

// HoldSeats places short-lived holds so a purchaser can fill in passenger
// details without losing the seats.
func (s *Service) HoldSeats(ctx context.Context, req HoldRequest) (*HoldResponse, error) {
	if len(req.Seats) == 0 {
		return nil, ErrNoSeats
	}
	if s.holds == nil {
		return &HoldResponse{}, nil
	}
	token, ok, err := s.holds.Acquire(ctx, req.TripID, req.Seats)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &SeatTakenError{Seat: req.Seats[0]}
	}
	return &HoldResponse{Token: token, ExpiresIn: int64(s.holds.TTL().Seconds())}, nil
}

func (s *Service) GetBooking(ctx context.Context, userID, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) ListBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// CancelBooking releases the seats of an active booking.
func (s *Service) CancelBooking(ctx context.Context, userID, bookingID int64) (*domain.Booking, error) {
	b, err := s.GetBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.Status.Active() {
		return nil, ErrNotActive
	}

	if err := s.bookings.Cancel(ctx, bookingID); err != nil {
		return nil, err
	}

	seats := make([]string, 0, len(b.Seats))
	for _, seat := range b.Seats {
		seats = append(seats, seat.Seat)
	}
	if s.feed != nil {
		s.feed.SeatsReleased(b.TripID, seats)
	}

	return s.bookings.GetByID(ctx, bookingID)
}

// Ticket renders the e-ticket PDF for the purchaser's own booking.
func (s *Service) Ticket(ctx context.Context, userID, bookingID int64) ([]byte, string, error) {
	b, err := s.GetBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, "", err
	}

	rows, err := s.bookings.Passengers(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}

	data := ticket.Data{
		Reference:  b.Reference,
		TotalPrice: b.TotalPrice,
		PaidAt:     b.PaidAt,
	}
	if b.Trip != nil {
		data.Source = b.Trip.Source
		data.Destination = b.Trip.Destination
		data.Departure = b.Trip.Departure
		if b.Trip.Vehicle != nil {
			data.VehicleName = b.Trip.Vehicle.Name
		}
	}
	if len(rows) > 0 {
		for _, p := range rows {
			data.Passengers = append(data.Passengers, ticket.Passenger{Seat: p.Seat, Name: p.Name, Gender: p.Gender})
		}
	} else {
		for _, seat := range b.Seats {
			data.Passengers = append(data.Passengers, ticket.Passenger{Seat: seat.Seat})
		}
	}

	return ticket.Build(data)
}

// Suggestions returns the purchaser's recent co-travellers for form autofill.
func (s *Service) Suggestions(ctx context.Context, userID int64) ([]SuggestionResponse, error) {
	rows, err := s.passengers.Suggestions(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]SuggestionResponse, 0, len(rows))
	for _, p := range rows {
		out = append(out, SuggestionResponse{Name: p.Name, Age: p.Age, Mobile: p.Mobile, Gender: p.Gender})
	}
	return out, nil
}

// normalizeRequest flattens both request variants into seat claims. Supplying
// both variants at once is rejected, the shapes are mutually exclusive.
func normalizeRequest(req CreateBookingRequest) ([]SeatClaim, []PassengerInput, error) {
	hasSeats := len(req.Seats) > 0
	hasPassengers := len(req.Passengers) > 0

	if hasSeats && hasPassengers {
		return nil, nil, ErrValidation
	}
	if !hasSeats && !hasPassengers {
		return nil, nil, ErrNoSeats
	}

	if hasPassengers {
		claims := make([]SeatClaim, 0, len(req.Passengers))
		for _, p := range req.Passengers {
			if strings.TrimSpace(p.Seat) == "" {
				return nil, nil, ErrValidation
			}
			claims = append(claims, SeatClaim{Seat: p.Seat, Gender: p.Gender})
		}
		return claims, req.Passengers, nil
	}

	// seat-only bookings carry no passenger details, so nothing is persisted
	// in the passengers table for them
	claims := make([]SeatClaim, 0, len(req.Seats))
	for _, seat := range req.Seats {
		if strings.TrimSpace(seat) == "" {
			return nil, nil, ErrValidation
		}
		claims = append(claims, SeatClaim{Seat: seat})
	}
	return claims, nil, nil
}

func newReference() string {
	return "BK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
