package album

import "errors"

// Album errors.
var (
	ErrNotFound     = errors.New("album not found")
	ErrMissingTitle = errors.New("title is required")
	ErrInvalidID    = errors.New("invalid album id")
)
