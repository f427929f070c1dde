package protocol

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrResponseTimeout is matched by errors.Is for every *ResponseTimeoutError.
	ErrResponseTimeout = errors.New("response timeout")

	// ErrOutOfRange is matched by errors.Is for every *OutOfRangeError.
	ErrOutOfRange = errors.New("response index out of range")
)

// ResponseTimeoutError reports that no data arrived before the retry limit was reached.
// The wire state after a timeout is unknown.
type ResponseTimeoutError struct {
	// Attempts is the number of polls made before giving up
	Attempts int

	// Elapsed is the wall-clock time spent waiting
	Elapsed time.Duration
}

func (e *ResponseTimeoutError) Error() string {
	return fmt.Sprintf("response timeout: no data after %d polls (%s)", e.Attempts, e.Elapsed)
}

func (e *ResponseTimeoutError) Is(target error) bool {
	return target == ErrResponseTimeout
}

// OutOfRangeError reports an access past the end of a response.
type OutOfRangeError struct {
	Offset int
	Length int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("response index %d out of range: response has %d bytes", e.Offset, e.Length)
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// IsResponseTimeout returns true if err is or wraps a ResponseTimeoutError.
func IsResponseTimeout(err error) bool {
	return errors.Is(err, ErrResponseTimeout)
}
