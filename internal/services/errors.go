package services

import "errors"

// Forecast service errors
var (
	// ErrDatasetNotLoaded is returned by passes before any load succeeded.
	ErrDatasetNotLoaded = errors.New("dataset not loaded")
)
