package repository

import (
	"context"

	"gorm.io/gorm"

	"ridemarket/internal/domain"
)

// ErrDuplicateReview is returned when a booking already has a review.
var ErrDuplicateReview = gorm.ErrDuplicatedKey

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, rev *domain.Review) error {
	err := r.db.WithContext(ctx).Create(rev).Error
	if isUniqueViolation(err) {
		return ErrDuplicateReview
	}
	return err
}

func (r *ReviewRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Review, error) {
	var out []domain.Review
	tx := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&out)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return out, nil
}

// OwnerRating aggregates an owner's average rating and review count.
func (r *ReviewRepository) OwnerRating(ctx context.Context, ownerID int64) (float64, int64, error) {
	var row struct {
		Avg   float64
		Count int64
	}
	tx := r.db.WithContext(ctx).Model(&domain.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(1) AS count").
		Where("owner_id = ?", ownerID).
		Scan(&row)
	if tx.Error != nil {
		return 0, 0, tx.Error
	}
	return row.Avg, row.Count, nil
}

func (r *ReviewRepository) GetByBooking(ctx context.Context, bookingID int64) (*domain.Review, error) {
	var rev domain.Review
	tx := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&rev)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &rev, nil
}
