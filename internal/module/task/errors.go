package task

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrInvalidTaskType    = errors.New("unsupported task type")
	ErrMissingPrompt      = errors.New("prompt is required")
	ErrMissingImages      = errors.New("at least one image is required")
	ErrNotEnoughImages    = errors.New("at least two images are required")
	ErrMissingStyleIndex  = errors.New("style index is required")
	ErrMissingStyleRefURL = errors.New("style reference url is required for custom style")
	ErrMissingUserID      = errors.New("user id is required")
	ErrMissingAPIKey      = errors.New("vendor api key is not configured")
	ErrMissingTaskID      = errors.New("task id is required")
)

// VendorError is a non-2xx or malformed reply from an upstream vendor.
// Code and Message come from the vendor body when present.
type VendorError struct {
	Family     VendorFamily
	StatusCode int
	Code       string
	Message    string
}

func (e *VendorError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s vendor error %d: %s: %s", e.Family, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%s vendor error %d: %s", e.Family, e.StatusCode, e.Message)
}

// IsVendorError reports whether err is a VendorError and returns it.
func IsVendorError(err error) (*VendorError, bool) {
	var ve *VendorError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
