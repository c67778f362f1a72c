package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Active reports whether the booking occupies its seats.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed
}

type Booking struct {
	ID         int64         `json:"id"`
	Reference  string        `json:"reference" gorm:"uniqueIndex"`
	UserID     int64         `json:"user_id" validate:"required"`
	TripID     int64         `json:"trip_id" validate:"required"`
	SeatCount  int           `json:"seat_count"`
	TotalPrice float64       `json:"total_price" validate:"gte=0"`
	Status     BookingStatus `json:"status"`

	IsPaid          bool       `json:"is_paid"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	TxnID           string     `json:"txn_id,omitempty"`
	PaymentStatus   string     `json:"payment_status,omitempty"`
	RespCode        string     `json:"resp_code,omitempty"`
	RespMsg         string     `json:"resp_msg,omitempty"`
	PaymentResponse string     `json:"-" gorm:"type:text"`
	TripDate        *time.Time `json:"trip_date,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	Trip  *Trip         `json:"trip,omitempty" gorm:"foreignKey:TripID"`
	Seats []BookingSeat `json:"seats,omitempty" gorm:"foreignKey:BookingID"`
}

// BookingSeat is one occupied seat of an active booking. Rows exist only while
// the booking occupies the seat: cancellation deletes them, so the unique
// index on (trip_id, seat) is the hard guarantee against double-booking even
// when two requests race past the evaluator.
type BookingSeat struct {
	ID        int64  `json:"id"`
	BookingID int64  `json:"booking_id"`
	TripID    int64  `json:"trip_id" gorm:"uniqueIndex:idx_trip_seat"`
	Seat      string `json:"seat" gorm:"uniqueIndex:idx_trip_seat"`
}
