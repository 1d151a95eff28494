package request

import "errors"

var (
	ErrNotFound   = errors.New("design request not found")
	ErrValidation = errors.New("validation error")
)
