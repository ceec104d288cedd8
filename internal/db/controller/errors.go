// Package controller holds the errors shared by the record controllers in its subpackages.
package controller

import "errors"

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")

	// ErrConflict is the base of errors raised when a write clashes with existing data.
	ErrConflict = errors.New("conflict")

	// ErrInvalid is the base of errors raised for malformed input.
	ErrInvalid = errors.New("invalid input")
)
