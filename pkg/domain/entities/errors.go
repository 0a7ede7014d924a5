package entities

import "errors"

// Business-rule and infrastructure failure taxonomy. Expected failures
// (insufficient stock, over-release, over-fulfill) are surfaced to the
// caller for compensating action and never retried inside the engine.
var (
	// ErrValidation marks malformed input rejected before any state change
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned for an item without a provisioned record
	ErrNotFound = errors.New("inventory record not found")

	// ErrInsufficientStock is returned when a reservation exceeds available stock
	ErrInsufficientStock = errors.New("insufficient stock available")

	// ErrOverRelease is returned when a release would drive reserved stock negative
	ErrOverRelease = errors.New("release exceeds reserved stock")

	// ErrOverFulfill is returned when a fulfillment exceeds reserved stock
	ErrOverFulfill = errors.New("fulfillment exceeds reserved stock")

	// ErrConcurrencyConflict is returned after a competing write invalidated
	// an operation's premise and the bounded retry budget is exhausted
	ErrConcurrencyConflict = errors.New("concurrent modification conflict")

	// ErrDiscontinued is returned when reserving against a retired record
	ErrDiscontinued = errors.New("item is discontinued")

	// ErrAlreadyExists is returned when provisioning an item twice
	ErrAlreadyExists = errors.New("inventory record already exists")
)
