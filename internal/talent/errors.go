package talent

import "errors"

var (
	ErrNotFound      = errors.New("talent: not found")
	ErrAlreadyExists = errors.New("talent: already exists")
	ErrInvalidInput  = errors.New("talent: invalid input")
	ErrOverAllocated = errors.New("talent: employee utilization exceeds 100 percent")
)
