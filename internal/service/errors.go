package service

import "errors"

var (
	// ErrOrderNotFound means the referenced order id does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidStatus means the requested status is outside the closed
	// order status set.
	ErrInvalidStatus = errors.New("invalid order status")

	// ErrStatusConflict means a concurrent update won the version race;
	// the caller should re-read and retry.
	ErrStatusConflict = errors.New("order was modified concurrently")

	// ErrUpstreamUnavailable means the catalog could not be reached, so
	// the whole operation was aborted rather than persisting a partial
	// result.
	ErrUpstreamUnavailable = errors.New("product catalog unavailable")

	// ErrInvalidRange means the report end date precedes the start date.
	ErrInvalidRange = errors.New("end date before start date")

	// ErrDerivationRunning means a derivation for the same target date
	// already holds the single-flight lock.
	ErrDerivationRunning = errors.New("sales derivation already running for this date")
)
