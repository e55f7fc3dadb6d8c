package core

import (
	"errors"
	"fmt"
)

// InputError is returned when a request carries no usable content
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return e.Reason
}

// UnsupportedFormatError is returned for uploads outside .txt and .pdf
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Extension == "" {
		return "unsupported file format: file has no extension"
	}
	return fmt.Sprintf("unsupported file format: %s", e.Extension)
}

// DocumentReadError is returned when an uploaded document cannot be read
type DocumentReadError struct {
	Err error
}

func (e *DocumentReadError) Error() string {
	return fmt.Sprintf("failed to read document: %v", e.Err)
}

func (e *DocumentReadError) Unwrap() error {
	return e.Err
}

// ErrorKind tells what step of a classification failed
type ErrorKind string

const (
	ErrorKindInvalidContent ErrorKind = "invalid_content"
	ErrorKindService        ErrorKind = "service"
	ErrorKindMalformedReply ErrorKind = "malformed_reply"
)

// ClassificationError is returned by ClassificationService.Invoke. It never
// reaches the user; Classify turns it into the error category.
type ClassificationError struct {
	Kind ErrorKind
	Err  error
}

func (e *ClassificationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("classification failed (%s)", e.Kind)
	}
	return fmt.Sprintf("classification failed (%s): %v", e.Kind, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// ConfigurationError is returned at startup when the configuration cannot
// produce a working service. The process must not serve traffic.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %s", e.Key, e.Reason)
}

// ErrMalformedReply is wrapped by every reply parsing failure
var ErrMalformedReply = errors.New("malformed model reply")

// IsUserError reports whether err should be shown to the user as-is
func IsUserError(err error) bool {
	var inputErr *InputError
	var formatErr *UnsupportedFormatError
	var readErr *DocumentReadError
	return errors.As(err, &inputErr) || errors.As(err, &formatErr) || errors.As(err, &readErr)
}
