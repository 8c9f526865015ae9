package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrAlreadyFinal is returned when trying to assign an outcome to a
	// finding whose classification is already fixed
	ErrAlreadyFinal = errors.New("finding outcome already assigned")
)
