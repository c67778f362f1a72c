package booking

import (
	"context"
	"time"

	"ridemarket/internal/domain"
	"ridemarket/internal/repository"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking, passengers []domain.Passenger) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ActiveSeatGenders(ctx context.Context, tripID int64) ([]repository.SeatGender, error)
	Cancel(ctx context.Context, bookingID int64) error
	Passengers(ctx context.Context, bookingID int64) ([]domain.Passenger, error)
}

type TripRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Trip, error)
}

type PassengerRepository interface {
	Suggestions(ctx context.Context, userID int64) ([]domain.Passenger, error)
}

// SeatHolder is the Redis-backed hold manager.
type SeatHolder interface {
	Acquire(ctx context.Context, tripID int64, seats []string) (token string, ok bool, err error)
	Validate(ctx context.Context, tripID int64, seats []string, token string) (bool, error)
	Release(ctx context.Context, tripID int64, seats []string, token string) error
	TTL() time.Duration
}

// SeatEventPublisher pushes live seat updates to map watchers.
type SeatEventPublisher interface {
	SeatsBooked(tripID int64, seats []string)
	SeatsReleased(tripID int64, seats []string)
}
