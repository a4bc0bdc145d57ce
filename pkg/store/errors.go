package store

import "errors"

var (
	// ErrFieldNotFound is returned when an operation references a field id
	// absent from the collection.
	ErrFieldNotFound = errors.New("store: field not found")

	// ErrIndexOutOfRange is returned by ReorderField when either index falls
	// outside the current collection bounds.
	ErrIndexOutOfRange = errors.New("store: reorder index out of range")

	// ErrNoForm is returned by SaveForm when no form has been created or
	// loaded.
	ErrNoForm = errors.New("store: no form loaded")
)
