package admin

import (
	"context"

	"ridemarket/internal/domain"
)

type VehicleRepository interface {
	Create(ctx context.Context, v *domain.Vehicle) error
	Update(ctx context.Context, v *domain.Vehicle) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	List(ctx context.Context) ([]domain.Vehicle, error)
}

type TripRepository interface {
	Create(ctx context.Context, t *domain.Trip) error
	Update(ctx context.Context, t *domain.Trip) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Trip, error)
	List(ctx context.Context) ([]domain.Trip, error)
}
