package payment

import "errors"

var (
	ErrNotFound         = errors.New("booking not found")
	ErrForbidden        = errors.New("booking belongs to another user")
	ErrAlreadyPaid      = errors.New("booking already paid")
	ErrNotActive        = errors.New("booking is not active")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrUnknownOrder     = errors.New("unknown order id")
	ErrNotConfigured    = errors.New("payment gateway not configured")
)
