package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"ridemarket/internal/domain"
)

// ErrSeatConflict is returned when the (trip_id, seat) unique index rejects a
// seat row, meaning another booking claimed the seat first.
var ErrSeatConflict = errors.New("seat already booked")

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts the booking, its seat rows and passengers in one
// transaction. A unique violation on the seat index aborts the whole
// transaction and surfaces as ErrSeatConflict.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking, passengers []domain.Passenger) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(b).Error; err != nil {
			return err
		}

		for i := range b.Seats {
			b.Seats[i].BookingID = b.ID
			b.Seats[i].TripID = b.TripID
		}
		if len(b.Seats) > 0 {
			if err := tx.Create(&b.Seats).Error; err != nil {
				return err
			}
		}

		for i := range passengers {
			passengers[i].BookingID = b.ID
		}
		if len(passengers) > 0 {
			if err := tx.Create(&passengers).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if isUniqueViolation(err) {
		return ErrSeatConflict
	}
	return err
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	tx := r.db.WithContext(ctx).
		Preload("Trip").Preload("Trip.Vehicle").Preload("Seats").
		First(&b, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &b, nil
}

func (r *BookingRepository) GetByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	var b domain.Booking
	tx := r.db.WithContext(ctx).
		Preload("Trip").Preload("Trip.Vehicle").Preload("Seats").
		Where("reference = ?", ref).
		First(&b)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &b, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	var out []domain.Booking
	tx := r.db.WithContext(ctx).
		Preload("Trip").Preload("Trip.Vehicle").Preload("Seats").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return out, nil
}

// ActiveSeats returns the seat ids currently occupied on a trip.
func (r *BookingRepository) ActiveSeats(ctx context.Context, tripID int64) ([]string, error) {
	var seats []string
	tx := r.db.WithContext(ctx).
		Model(&domain.BookingSeat{}).
		Where("trip_id = ?", tripID).
		Order("seat").
		Pluck("seat", &seats)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return seats, nil
}

// SeatGender holds an occupied seat with the passenger's gender, used by the
// adjacency check and the booked-seats endpoint.
type SeatGender struct {
	Seat   string `json:"seat"`
	Gender string `json:"gender"`
}

// ActiveSeatGenders joins occupied seats with their passenger records. Seats
// with no passenger row come back with an empty gender.
func (r *BookingRepository) ActiveSeatGenders(ctx context.Context, tripID int64) ([]SeatGender, error) {
	var out []SeatGender
	tx := r.db.WithContext(ctx).Raw(`
SELECT bs.seat AS seat, COALESCE(p.gender, '') AS gender
FROM booking_seats bs
LEFT JOIN passengers p ON p.booking_id = bs.booking_id AND p.seat = bs.seat
WHERE bs.trip_id = ?
ORDER BY bs.seat`, tripID).Scan(&out)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return out, nil
}

// ConfirmPayment marks the booking paid and confirmed, recording the gateway
// response fields.
func (r *BookingRepository) ConfirmPayment(ctx context.Context, bookingID int64, txnID, paymentStatus, respCode, respMsg, rawResponse string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ?", bookingID).
		Updates(map[string]any{
			"status":           domain.BookingConfirmed,
			"is_paid":          true,
			"paid_at":          now,
			"txn_id":           txnID,
			"payment_status":   paymentStatus,
			"resp_code":        respCode,
			"resp_msg":         respMsg,
			"payment_response": rawResponse,
		}).Error
}

// RecordPaymentFailure stores the gateway response without confirming.
func (r *BookingRepository) RecordPaymentFailure(ctx context.Context, bookingID int64, paymentStatus, respCode, respMsg, rawResponse string) error {
	return r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("id = ?", bookingID).
		Updates(map[string]any{
			"payment_status":   paymentStatus,
			"resp_code":        respCode,
			"resp_msg":         respMsg,
			"payment_response": rawResponse,
		}).Error
}

// Cancel flips the booking to cancelled and deletes its seat rows, releasing
// the seats for rebooking.
func (r *BookingRepository) Cancel(ctx context.Context, bookingID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&domain.Booking{}).
			Where("id = ? AND status IN ?", bookingID, []domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed}).
			Updates(map[string]any{
				"status":       domain.BookingCancelled,
				"cancelled_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("booking_id = ?", bookingID).Delete(&domain.BookingSeat{}).Error
	})
}

func (r *BookingRepository) Passengers(ctx context.Context, bookingID int64) ([]domain.Passenger, error) {
	var out []domain.Passenger
	tx := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("seat").
		Find(&out)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
