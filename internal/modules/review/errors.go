package review

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrForbidden       = errors.New("booking belongs to another user")
	ErrNotReviewable   = errors.New("booking is not reviewable")
	ErrAlreadyReviewed = errors.New("booking already reviewed")
)
