package pprlerr

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig reports an invalid run configuration (unknown hashing scheme,
	// unknown digest algorithm, non-positive bit length, malformed schema).
	ErrConfig = errors.New("config error")

	// ErrInvalidArgument reports a call with arguments that violate a
	// contract, e.g. a record with the wrong arity or encodings of different
	// lengths.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound reports a lookup miss such as an unknown attribute name.
	ErrNotFound = errors.New("not found")
)

// Config returns an error wrapping ErrConfig.
func Config(format string, args ...any) error {
	return wrap(ErrConfig, format, args...)
}

// InvalidArgument returns an error wrapping ErrInvalidArgument.
func InvalidArgument(format string, args ...any) error {
	return wrap(ErrInvalidArgument, format, args...)
}

// NotFound returns an error wrapping ErrNotFound.
func NotFound(format string, args ...any) error {
	return wrap(ErrNotFound, format, args...)
}

func wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
