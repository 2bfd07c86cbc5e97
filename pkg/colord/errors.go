package colord

import "errors"

var (
	// ErrServiceUnavailable is returned when the service cannot be
	// reached. This is the only error that aborts a whole run.
	ErrServiceUnavailable = errors.New("color management service unavailable")

	// ErrProfileNotFound is returned when a profile lookup by filename
	// finds nothing, including files the service has not discovered yet.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrNoFilename is returned when raw data is requested from a profile
	// that has no backing file.
	ErrNoFilename = errors.New("profile has no filename")
)
