package hestia

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds = errors.New("out of grid bounds")
	ErrOverlap     = errors.New("overlapping regions")
	ErrUnknownRoom = errors.New("unknown room")
)

// ConfigurationError is returned at construction time, before any step
// is taken.
type ConfigurationError struct {
	Category Category
	Region   string
	Err      error
}

func (e *ConfigurationError) Error() string {
	if len(e.Region) == 0 {
		return fmt.Sprintf("invalid configuration: %s", e.Err)
	}
	return fmt.Sprintf("invalid %s '%s': %s", e.Category, e.Region, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func configurationErrorf(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Err: fmt.Errorf(format, args...)}
}

// NumericalInstabilityError reports a diverging field or a step
// coefficient above the explicit scheme bound.
type NumericalInstabilityError struct {
	Step        int
	Time        float64
	Row, Col    int
	Value       float64
	Coefficient float64
}

func (e *NumericalInstabilityError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("step %d (t=%gs): coefficient %g exceeds stability bound %g",
			e.Step, e.Time, e.Coefficient, StableCoefficient)
	}
	return fmt.Sprintf("step %d (t=%gs): non-finite temperature %g at (%d,%d) with coefficient %g",
		e.Step, e.Time, e.Value, e.Row, e.Col, e.Coefficient)
}
