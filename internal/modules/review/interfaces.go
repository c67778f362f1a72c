package review

import (
	"context"

	"ridemarket/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, rev *domain.Review) error
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Review, error)
	OwnerRating(ctx context.Context, ownerID int64) (float64, int64, error)
}

type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}
