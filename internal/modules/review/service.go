package review

import (
	"context"
	"errors"
	"math"

	"gorm.io/gorm"

	"ridemarket/internal/domain"
	"ridemarket/internal/repository"
)

type Service struct {
	reviews  ReviewRepository
	bookings BookingRepository
}

func NewService(reviews ReviewRepository, bookings BookingRepository) *Service {
	return &Service{reviews: reviews, bookings: bookings}
}

// Create records a rating for the vehicle owner behind a confirmed booking.
// One review per booking; riders cannot review their own vehicle.
func (s *Service) Create(ctx context.Context, userID int64, req CreateReviewRequest) (*ReviewResponse, error) {
	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	if b.Status != domain.BookingConfirmed {
		return nil, ErrNotReviewable
	}

	ownerID := vehicleOwner(b)
	if ownerID == 0 || ownerID == userID {
		return nil, ErrNotReviewable
	}

	rev := &domain.Review{
		BookingID:  b.ID,
		CustomerID: userID,
		OwnerID:    ownerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.reviews.Create(ctx, rev); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}
	return toResponse(rev), nil
}

func (s *Service) OwnerReviews(ctx context.Context, ownerID int64) ([]ReviewResponse, error) {
	rows, err := s.reviews.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]ReviewResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *toResponse(&rows[i]))
	}
	return out, nil
}

func (s *Service) OwnerRating(ctx context.Context, ownerID int64) (*OwnerRatingResponse, error) {
	avg, count, err := s.reviews.OwnerRating(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &OwnerRatingResponse{
		OwnerID: ownerID,
		Average: math.Round(avg*10) / 10,
		Count:   count,
	}, nil
}

func vehicleOwner(b *domain.Booking) int64 {
	if b.Trip == nil || b.Trip.Vehicle == nil || b.Trip.Vehicle.OwnerID == nil {
		return 0
	}
	return *b.Trip.Vehicle.OwnerID
}

func toResponse(rev *domain.Review) *ReviewResponse {
	return &ReviewResponse{
		ID:        rev.ID,
		BookingID: rev.BookingID,
		OwnerID:   rev.OwnerID,
		Rating:    rev.Rating,
		Comment:   rev.Comment,
		CreatedAt: rev.CreatedAt,
	}
}
