// Package errors provides standardized error handling for the WireLens
// decoding engine. It includes error classification, the typed sentinel
// errors produced by the codecs, and helper functions for consistent
// error wrapping across packages.
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ender-Wang/Swifka-sub000/pkg/retry"
)

// ErrorClass represents the classification of errors for handling purposes
type ErrorClass int

const (
	// ErrorTransient represents temporary errors that may be retried
	ErrorTransient ErrorClass = iota
	// ErrorInvalid represents errors due to invalid input, payload, or schema
	ErrorInvalid
	// ErrorFatal represents unrecoverable errors that should stop processing
	ErrorFatal
)

// String returns the string representation of ErrorClass
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorTransient:
		return "transient"
	case ErrorInvalid:
		return "invalid"
	case ErrorFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Standard error variables for common conditions
var (
	// Primitive codec errors
	ErrTruncated = errors.New("truncated varint")
	ErrOverflow  = errors.New("varint overflow")

	// Protobuf wire decoder errors
	ErrUnexpectedEnd   = errors.New("unexpected end of data")
	ErrUnknownWireType = errors.New("unknown wire type")
	ErrInvalidTag      = errors.New("invalid field tag")

	// Schema errors
	ErrInvalidSchema  = errors.New("invalid schema")
	ErrSchemaNotFound = errors.New("schema not found")

	// Avro decoder errors
	ErrInvalidData = errors.New("invalid data")

	// Cache errors
	ErrKeyNotFound = errors.New("key not found")

	// Connection errors (stream consumer)
	ErrNoConnection       = errors.New("no connection available")
	ErrConnectionLost     = errors.New("connection lost")
	ErrSubscriptionFailed = errors.New("subscription failed")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrMissingConfig = errors.New("missing required configuration")
)

// ClassifiedError wraps an error with its classification
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// IsTransient checks if an error is transient and should be retried.
// Decode errors are never transient: a malformed payload stays malformed
// no matter how many times it is decoded.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorTransient
	}

	if errors.Is(err, ErrConnectionLost) ||
		errors.Is(err, ErrNoConnection) ||
		errors.Is(err, ErrSubscriptionFailed) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return true
	}

	// Check error message for common transient patterns
	errStr := strings.ToLower(err.Error())
	transientPatterns := []string{
		"timeout",
		"connection",
		"network",
		"temporary",
		"unavailable",
		"retry",
	}

	for _, pattern := range transientPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

// IsFatal checks if an error is fatal and should stop processing
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorFatal
	}

	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrMissingConfig)
}

// IsInvalid checks if an error is due to invalid input. All decode and
// schema-parse sentinels classify here: the input is wrong, not the system.
func IsInvalid(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorInvalid
	}

	return errors.Is(err, ErrTruncated) ||
		errors.Is(err, ErrOverflow) ||
		errors.Is(err, ErrUnexpectedEnd) ||
		errors.Is(err, ErrUnknownWireType) ||
		errors.Is(err, ErrInvalidSchema) ||
		errors.Is(err, ErrInvalidData)
}

// Classify returns the error class for an error
func Classify(err error) ErrorClass {
	if err == nil {
		return ErrorTransient // Default for nil
	}

	if IsInvalid(err) {
		return ErrorInvalid
	}
	if IsFatal(err) {
		return ErrorFatal
	}
	if IsTransient(err) {
		return ErrorTransient
	}

	// Default to invalid for unknown errors: in a decode engine the usual
	// cause of an unclassified error is bad input, and retrying bad input
	// cannot help.
	return ErrorInvalid
}

// newClassified creates a new classified error
// This is an internal helper - use WrapTransient(), WrapFatal(), or WrapInvalid() instead.
func newClassified(class ErrorClass, err error, component, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Class:     class,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapTransient wraps an error as transient with context
func WrapTransient(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorTransient, wrappedErr, component, method, wrappedErr.Error())
}

// WrapFatal wraps an error as fatal with context
func WrapFatal(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorFatal, wrappedErr, component, method, wrappedErr.Error())
}

// WrapInvalid wraps an error as invalid with context
func WrapInvalid(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorInvalid, wrappedErr, component, method, wrappedErr.Error())
}

// RetryConfig defines configuration for retry operations
type RetryConfig struct {
	MaxRetries      int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	RetryableErrors []error
}

// DefaultRetryConfig returns a sensible default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialDelay:    100 * time.Millisecond,
		MaxDelay:        5 * time.Second,
		BackoffFactor:   2.0,
		RetryableErrors: nil, // Empty list means retry all transient errors
	}
}

// ShouldRetry determines if an error should be retried based on config
func (rc RetryConfig) ShouldRetry(err error, attempt int) bool {
	if err == nil || attempt >= rc.MaxRetries {
		return false
	}

	if !IsTransient(err) {
		return false
	}

	// Check specific retryable errors if configured
	if len(rc.RetryableErrors) > 0 {
		for _, retryableErr := range rc.RetryableErrors {
			if errors.Is(err, retryableErr) {
				return true
			}
		}
		return false
	}

	return true
}

// ToRetryConfig converts the errors package RetryConfig to the retry
// package's Config type. The conversion adds 1 to MaxRetries (converting
// "additional attempts" to "total attempts") and enables jitter.
func (rc RetryConfig) ToRetryConfig() retry.Config {
	return retry.Config{
		MaxAttempts:  rc.MaxRetries + 1, // MaxRetries is additional attempts beyond first
		InitialDelay: rc.InitialDelay,
		MaxDelay:     rc.MaxDelay,
		Multiplier:   rc.BackoffFactor,
		AddJitter:    true,
	}
}
