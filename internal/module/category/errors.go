package category

import "errors"

// Category errors.
var (
	ErrNotFound    = errors.New("category config not found")
	ErrDuplicate   = errors.New("category config already exists")
	ErrInvalidKind = errors.New("unknown category kind")
	ErrMissingCode = errors.New("code is required")
	ErrMissingName = errors.New("name is required")
)
