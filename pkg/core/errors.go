package core

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch is returned when matrix shapes are incompatible for an operation
	ErrDimensionMismatch = errors.New("matrix dimension mismatch")
	// ErrIndexOutOfRange is returned for out of range matrix element or row access
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrDivideByZero is returned when dividing a vector or matrix by zero
	ErrDivideByZero = errors.New("divide by zero")
	// ErrInvalidBounds is returned when a bounding box would have min > max on some axis
	ErrInvalidBounds = errors.New("bounding box min exceeds max")
)

// DimensionError describes the shapes involved in a failed matrix operation
type DimensionError struct {
	Op                   string
	Rows, Cols           int
	OtherRows, OtherCols int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: %v (%dx%d vs %dx%d)", e.Op, ErrDimensionMismatch, e.Rows, e.Cols, e.OtherRows, e.OtherCols)
}

// Unwrap lets errors.Is match ErrDimensionMismatch
func (e *DimensionError) Unwrap() error {
	return ErrDimensionMismatch
}
