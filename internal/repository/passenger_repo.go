package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"ridemarket/internal/domain"
)

type PassengerRepository struct {
	db *gorm.DB
}

func NewPassengerRepository(db *gorm.DB) *PassengerRepository {
	return &PassengerRepository{db: db}
}

const (
	suggestionScan = 200
	suggestionCap  = 20
)

// Suggestions returns the user's most recent distinct co-travellers, deduped
// by lowercased name plus mobile. Scans the latest records and caps the
// result so the endpoint stays cheap.
func (r *PassengerRepository) Suggestions(ctx context.Context, userID int64) ([]domain.Passenger, error) {
	var scanned []domain.Passenger
	tx := r.db.WithContext(ctx).
		Joins("JOIN bookings ON bookings.id = passengers.booking_id").
		Where("bookings.user_id = ?", userID).
		Order("passengers.id DESC").
		Limit(suggestionScan).
		Find(&scanned)
	if tx.Error != nil {
		return nil, tx.Error
	}

	seen := make(map[string]bool, len(scanned))
	out := make([]domain.Passenger, 0, suggestionCap)
	for _, p := range scanned {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name) + "|" + strings.TrimSpace(p.Mobile)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
		if len(out) == suggestionCap {
			break
		}
	}
	return out, nil
}
