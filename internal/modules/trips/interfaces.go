package trips

import (
	"context"
	"time"

	"ridemarket/internal/domain"
	"ridemarket/internal/repository"
)

type TripRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Trip, error)
	Search(ctx context.Context, source, destination string, date time.Time) ([]domain.Trip, error)
	Locations(ctx context.Context) ([]string, error)
}

type BookingRepository interface {
	ActiveSeats(ctx context.Context, tripID int64) ([]string, error)
	ActiveSeatGenders(ctx context.Context, tripID int64) ([]repository.SeatGender, error)
}
