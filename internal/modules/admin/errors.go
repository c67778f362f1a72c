package admin

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("invalid request")
	ErrDuplicateNumber = errors.New("vehicle number already registered")
	ErrVehicleMissing  = errors.New("vehicle does not exist")
)
