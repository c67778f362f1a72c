package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"ridemarket/internal/domain"
)

type TripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) *TripRepository {
	return &TripRepository{db: db}
}

func (r *TripRepository) Create(ctx context.Context, t *domain.Trip) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TripRepository) Update(ctx context.Context, t *domain.Trip) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *TripRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Trip{}, id).Error
}

func (r *TripRepository) GetByID(ctx context.Context, id int64) (*domain.Trip, error) {
	var t domain.Trip
	tx := r.db.WithContext(ctx).Preload("Vehicle").First(&t, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &t, nil
}

// Search matches source and destination exactly and departures within the
// calendar day starting at date.
func (r *TripRepository) Search(ctx context.Context, source, destination string, date time.Time) ([]domain.Trip, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var out []domain.Trip
	tx := r.db.WithContext(ctx).
		Preload("Vehicle").
		Where("source = ? AND destination = ?", source, destination).
		Where("departure >= ? AND departure < ?", dayStart, dayEnd).
		Order("departure").
		Find(&out)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return out, nil
}

func (r *TripRepository) List(ctx context.Context) ([]domain.Trip, error) {
	var out []domain.Trip
	tx := r.db.WithContext(ctx).Preload("Vehicle").Order("departure").Find(&out)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return out, nil
}

// Locations returns the distinct sources and destinations across all trips,
// merged and sorted.
func (r *TripRepository) Locations(ctx context.Context) ([]string, error) {
	var out []string
	tx := r.db.WithContext(ctx).Raw(
		"SELECT source AS loc FROM trips UNION SELECT destination FROM trips ORDER BY loc",
	).Scan(&out)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return out, nil
}
