package booking

import "errors"

var (
	ErrNoSeats      = errors.New("no seats requested")
	ErrTripNotFound = errors.New("trip not found")
	ErrNotFound     = errors.New("booking not found")
	ErrForbidden    = errors.New("booking belongs to another user")
	ErrNotActive    = errors.New("booking is not active")
	ErrHoldExpired  = errors.New("seat hold expired")
	ErrValidation   = errors.New("validation error")
)
