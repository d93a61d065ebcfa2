package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Load errors
	ErrLoad          = errors.New("data load failed")
	ErrFetch         = fmt.Errorf("%w: fetch", ErrLoad)
	ErrDecode        = fmt.Errorf("%w: decode", ErrLoad)
	ErrSchema        = fmt.Errorf("%w: schema", ErrLoad)
	ErrUnsupportedFT = fmt.Errorf("%w: unsupported format", ErrLoad)

	// Page errors
	ErrContainerMissing = errors.New("chart container missing")
	ErrUnknownChart     = errors.New("unknown chart kind")
	ErrUnknownFeature   = errors.New("unknown feature")

	// Data errors
	ErrDegenerateData = errors.New("degenerate series")
	ErrUnsortedSeries = errors.New("series not ordered by x")
	ErrInvalidSample  = errors.New("invalid sample")
)

// LoadError reports a failed fetch or parse of a chart data document.
// It is terminal for the render cycle that produced it.
type LoadError struct {
	URL   string
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.URL, e.Cause)
}

// Unwrap exposes both the load sentinel and the underlying cause.
func (e *LoadError) Unwrap() []error {
	return []error{ErrLoad, e.Cause}
}

// Error constructors with context
func NewLoadError(url string, cause error) error {
	return &LoadError{URL: url, Cause: cause}
}

func NewContainerMissingError(containerID string) error {
	return fmt.Errorf("%w: #%s", ErrContainerMissing, containerID)
}

func NewDegenerateError(chart string, n, min int) error {
	return fmt.Errorf("%w: %s has %d samples, need at least %d", ErrDegenerateData, chart, n, min)
}

func NewSampleError(index int, reason string) error {
	return fmt.Errorf("%w at index %d: %s", ErrInvalidSample, index, reason)
}

// Error checking helpers
func IsLoadError(err error) bool {
	return errors.Is(err, ErrLoad)
}

func IsDegenerateError(err error) bool {
	return errors.Is(err, ErrDegenerateData)
}

func IsDataError(err error) bool {
	return errors.Is(err, ErrDegenerateData) ||
		errors.Is(err, ErrUnsortedSeries) ||
		errors.Is(err, ErrInvalidSample)
}
