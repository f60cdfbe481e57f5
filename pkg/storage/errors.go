package storage

import "errors"

var (
	// ErrInvalidConfig is returned when the storage configuration is incomplete.
	ErrInvalidConfig = errors.New("storage: invalid config")

	// ErrPresignFailed is returned when the presign request cannot be signed.
	ErrPresignFailed = errors.New("storage: failed to presign upload")
)
