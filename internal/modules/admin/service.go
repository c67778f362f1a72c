package admin

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ridemarket/internal/domain"
	"ridemarket/internal/pkg/validator"
)

type Service struct {
	vehicles VehicleRepository
	trips    TripRepository
}

func NewService(vehicles VehicleRepository, trips TripRepository) *Service {
	return &Service{vehicles: vehicles, trips: trips}
}

func (s *Service) CreateVehicle(ctx context.Context, req VehicleRequest) (*domain.Vehicle, error) {
	v := &domain.Vehicle{
		Name:     req.Name,
		Number:   req.Number,
		Capacity: req.Capacity,
		OwnerID:  req.OwnerID,
	}
	if fields := validator.Validate(v); fields != nil {
		return nil, ErrValidation
	}
	if err := s.vehicles.Create(ctx, v); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateNumber
		}
		return nil, err
	}
	return v, nil
}

func (s *Service) UpdateVehicle(ctx context.Context, id int64, req VehicleRequest) (*domain.Vehicle, error) {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	v.Name = req.Name
	v.Number = req.Number
	v.Capacity = req.Capacity
	v.OwnerID = req.OwnerID

	if err := s.vehicles.Update(ctx, v); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateNumber
		}
		return nil, err
	}
	return v, nil
}

func (s *Service) DeleteVehicle(ctx context.Context, id int64) error {
	if _, err := s.vehicles.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.vehicles.Delete(ctx, id)
}

func (s *Service) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return s.vehicles.List(ctx)
}

// CreateTrip verifies the vehicle exists and the schedule is coherent.
func (s *Service) CreateTrip(ctx context.Context, req TripRequest) (*domain.Trip, error) {
	if !req.Arrival.After(req.Departure) {
		return nil, ErrValidation
	}
	if _, err := s.vehicles.GetByID(ctx, req.VehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleMissing
		}
		return nil, err
	}

	t := &domain.Trip{
		VehicleID:   req.VehicleID,
		Source:      req.Source,
		Destination: req.Destination,
		Departure:   req.Departure,
		Arrival:     req.Arrival,
		Price:       req.Price,
	}
	if fields := validator.Validate(t); fields != nil {
		return nil, ErrValidation
	}
	if err := s.trips.Create(ctx, t); err != nil {
		return nil, err
	}
	return s.trips.GetByID(ctx, t.ID)
}

func (s *Service) UpdateTrip(ctx context.Context, id int64, req TripRequest) (*domain.Trip, error) {
	if !req.Arrival.After(req.Departure) {
		return nil, ErrValidation
	}

	t, err := s.trips.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.vehicles.GetByID(ctx, req.VehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleMissing
		}
		return nil, err
	}

	t.VehicleID = req.VehicleID
	t.Source = req.Source
	t.Destination = req.Destination
	t.Departure = req.Departure
	t.Arrival = req.Arrival
	t.Price = req.Price
	t.Vehicle = nil

	if err := s.trips.Update(ctx, t); err != nil {
		return nil, err
	}
	return s.trips.GetByID(ctx, id)
}

func (s *Service) DeleteTrip(ctx context.Context, id int64) error {
	if _, err := s.trips.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.trips.Delete(ctx, id)
}

func (s *Service) ListTrips(ctx context.Context) ([]domain.Trip, error) {
	return s.trips.List(ctx)
}
