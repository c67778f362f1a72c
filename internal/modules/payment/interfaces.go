package payment

import (
	"context"

	"ridemarket/internal/domain"
)

type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ConfirmPayment(ctx context.Context, bookingID int64, txnID, paymentStatus, respCode, respMsg, rawResponse string) error
	RecordPaymentFailure(ctx context.Context, bookingID int64, paymentStatus, respCode, respMsg, rawResponse string) error
	Cancel(ctx context.Context, bookingID int64) error
}

// SeatEventPublisher pushes seat releases when an unpaid checkout expires.
type SeatEventPublisher interface {
	SeatsReleased(tripID int64, seats []string)
}
