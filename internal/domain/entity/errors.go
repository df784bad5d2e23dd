package entity

import "errors"

var (
	// ErrTabNotFound is returned when an operation references a tab id absent from the store.
	ErrTabNotFound = errors.New("tab not found")

	// ErrInvalidValue is returned when a tab mutation carries an explicitly undefined
	// value or would break a store invariant (duplicate id).
	ErrInvalidValue = errors.New("invalid value")
)
