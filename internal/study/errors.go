package study

import (
	"errors"
	"fmt"
)

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeInvalidK indicates K < 1.
	ErrCodeInvalidK ConfigErrorCode = "INVALID_K"

	// ErrCodeInvalidL indicates L < 0.
	ErrCodeInvalidL ConfigErrorCode = "INVALID_L"

	// ErrCodeInvalidWorkers indicates a negative worker count.
	ErrCodeInvalidWorkers ConfigErrorCode = "INVALID_WORKERS"

	// ErrCodeUnknownColumn indicates a column role names no existing column.
	ErrCodeUnknownColumn ConfigErrorCode = "UNKNOWN_COLUMN"

	// ErrCodeNotSorted indicates the declared sort key does not start with
	// (panel, time).
	ErrCodeNotSorted ConfigErrorCode = "NOT_SORTED"

	// ErrCodeReservedColumn indicates an input column lies inside the output
	// namespace and would be dropped by the clean-slate phase.
	ErrCodeReservedColumn ConfigErrorCode = "RESERVED_COLUMN"
)

// ConfigurationError is returned before any data is scanned when the run
// configuration is unusable.
type ConfigurationError struct {
	Code ConfigErrorCode

	// Param names the offending parameter (e.g. "K", "panel").
	Param string

	// Value is the offending value as given.
	Value string

	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s (%s=%s)", e.Code, e.Message, e.Param, e.Value)
}

// StoreError wraps a failure reported by the Store. Runs do not retry: once
// columns exist they may be partially filled.
type StoreError struct {
	// Op is the store operation: "read", "drop", "create", "label" or "write".
	Op string

	// Column is the affected column, if any.
	Column string

	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("store %s %q: %v", e.Op, e.Column, e.Err)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsConfigurationError returns true if err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsStoreError returns true if err is or wraps a StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

func newConfigError(code ConfigErrorCode, param, value, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Code:    code,
		Param:   param,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	}
}
