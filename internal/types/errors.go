package types

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned before any oracle call when the input is unusable.
	ErrInvalidInput = errors.New("invalid input")
	// ErrOracleUnavailable covers network, auth and quota failures of the completion oracle.
	ErrOracleUnavailable = errors.New("oracle unavailable")
	// ErrOracleTimeout is returned when no response arrives within the configured deadline.
	ErrOracleTimeout = errors.New("oracle timeout")
	// ErrMalformedResponse is returned when the oracle text is unusable even as free text.
	ErrMalformedResponse = errors.New("malformed response")
)

// StageError records which stage failed. The wrapped error keeps its kind.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Kind returns a short name for the error class, used in logs and exit codes.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "InvalidInput"
	case errors.Is(err, ErrOracleTimeout):
		return "OracleTimeout"
	case errors.Is(err, ErrOracleUnavailable):
		return "OracleUnavailable"
	case errors.Is(err, ErrMalformedResponse):
		return "MalformedResponse"
	case errors.Is(err, context.Canceled):
		return "Canceled"
	default:
		return "Unknown"
	}
}

// Retryable reports whether a caller-level retry may succeed.
func Retryable(err error) bool {
	return errors.Is(err, ErrOracleUnavailable) ||
		errors.Is(err, ErrOracleTimeout) ||
		errors.Is(err, ErrMalformedResponse)
}
