package domain

import "errors"

var (
	// ErrOrderNotFound is returned when an order is not known locally or remotely.
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidStatus is returned for unknown order statuses.
	ErrInvalidStatus = errors.New("invalid order status")

	// ErrInvalidTransition is returned when a status change is not allowed.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidFilter is returned when a filter is not part of a vocabulary.
	ErrInvalidFilter = errors.New("invalid filter")
)
