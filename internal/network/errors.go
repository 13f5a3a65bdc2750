package network

import (
	"errors"
	"fmt"
)

// Domain errors for network operations.
var (
	// ErrInvalidDimension indicates a vector or matrix whose length does not
	// match the population size.
	ErrInvalidDimension = errors.New("network: invalid dimension")

	// ErrInvalidParameter indicates a non-physical parameter (τ ≤ 0, β ≤ 0,
	// negative step count).
	ErrInvalidParameter = errors.New("network: invalid parameter")

	// ErrNumericOverflow indicates an activity value became NaN or Inf.
	ErrNumericOverflow = errors.New("network: numeric overflow")
)

// ParamError names the parameter that failed validation.
type ParamError struct {
	Name  string
	Value float64
	Err   error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s = %g", e.Err, e.Name, e.Value)
}

func (e *ParamError) Unwrap() error {
	return e.Err
}

// DimensionError reports a length mismatch.
type DimensionError struct {
	What string
	Got  int
	Want int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: %s has length %d, want %d", ErrInvalidDimension, e.What, e.Got, e.Want)
}

func (e *DimensionError) Unwrap() error {
	return ErrInvalidDimension
}

func invalidParam(name string, value float64) error {
	return &ParamError{Name: name, Value: value, Err: ErrInvalidParameter}
}
