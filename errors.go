package fastimage

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidLocator is returned when a path or URL is unusable before any
	// I/O is attempted.
	ErrInvalidLocator = errors.New("fastimage: invalid locator")

	// ErrFilesystem is returned when a local file cannot be opened or read.
	ErrFilesystem = errors.New("fastimage: filesystem error")

	// ErrNetwork is returned on connection failures, timeouts and non-success
	// HTTP statuses.
	ErrNetwork = errors.New("fastimage: network error")

	// ErrUnsupportedFormat is returned when the image format cannot be detected.
	ErrUnsupportedFormat = errors.New("fastimage: unsupported format")

	// ErrTruncatedData is returned when the data ends in the middle of a header.
	ErrTruncatedData = errors.New("fastimage: truncated data")
)

// ErrorKind classifies an analysis failure.
type ErrorKind int

const (
	KindInvalidLocator ErrorKind = iota + 1
	KindFilesystem
	KindNetwork
	KindUnsupportedFormat
	KindTruncatedData
)

// Code returns a stable upper-case identifier for the kind.
func (k ErrorKind) Code() string {
	switch k {
	case KindInvalidLocator:
		return "INVALID_LOCATOR"
	case KindFilesystem:
		return "FILESYSTEM_ERROR"
	case KindNetwork:
		return "NETWORK_ERROR"
	case KindUnsupportedFormat:
		return "UNSUPPORTED_FORMAT"
	case KindTruncatedData:
		return "TRUNCATED_DATA"
	default:
		return "UNKNOWN_ERROR"
	}
}

func (k ErrorKind) String() string {
	return k.Code()
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindInvalidLocator:
		return ErrInvalidLocator
	case KindFilesystem:
		return ErrFilesystem
	case KindNetwork:
		return ErrNetwork
	case KindUnsupportedFormat:
		return ErrUnsupportedFormat
	case KindTruncatedData:
		return ErrTruncatedData
	default:
		return nil
	}
}

// Error is the single error type returned by analyses. It matches the
// package sentinel of its kind with errors.Is.
type Error struct {
	Kind ErrorKind

	// Locator is the path or URL as supplied by the caller.
	Locator string

	// Transferred is the number of bytes read before the failure.
	Transferred uint64

	// StatusCode is the HTTP status for network errors caused by a
	// non-success response, zero otherwise.
	StatusCode int

	// ElapsedMillis is the time from the start of the analysis to the
	// failure.
	ElapsedMillis float64

	Cause error
}

func newError(kind ErrorKind, locator string, transferred uint64, cause error) *Error {
	return &Error{Kind: kind, Locator: locator, Transferred: transferred, Cause: cause}
}

// since records the time elapsed from start and returns e.
func (e *Error) since(start time.Time) *Error {
	e.ElapsedMillis = elapsedMillis(start)
	return e
}

func elapsedMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("%v: %q (%d bytes read)", e.Kind.sentinel(), e.Locator, e.Transferred)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error for error chain unwrapping
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for the error kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// KindOf returns the kind of err, or zero if err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
