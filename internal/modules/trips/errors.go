package trips

import "errors"

var (
	ErrNotFound   = errors.New("trip not found")
	ErrValidation = errors.New("validation error")
)
