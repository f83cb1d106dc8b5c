package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeExtraction represents a listing that could not be extracted
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypePipeline represents transformation stage errors
	ErrorTypePipeline ErrorType = "pipeline"
	// ErrorTypeSink represents storage sink errors
	ErrorTypeSink ErrorType = "sink"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// Sentinel conditions callers match with errors.Is.
var (
	ErrNoRecords     = errors.New("no records obtained from any page")
	ErrMissingColumn = errors.New("required column missing from dataset")
	ErrAnchorMissing = errors.New("listing anchor is missing")
	ErrRateLimited   = errors.New("rate limited")
	ErrDisallowed    = errors.New("disallowed by robots.txt")
)

// ETLError represents an error raised by one of the pipeline components
type ETLError struct {
	Type      ErrorType
	Component string
	Message   string
	Err       error
	Time      time.Time
}

// Error implements the error interface
func (e *ETLError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Component, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Component, e.Message)
}

// Unwrap returns the underlying error
func (e *ETLError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *ETLError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork:
		return true
	default:
		return false
	}
}

// New creates a new ETLError
func New(errType ErrorType, component, message string, err error) *ETLError {
	return &ETLError{
		Type:      errType,
		Component: component,
		Message:   message,
		Err:       err,
		Time:      time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(component, message string, err error) *ETLError {
	return New(ErrorTypeNetwork, component, message, err)
}

// NewRateLimit creates a new rate limit error wrapping ErrRateLimited
func NewRateLimit(component string, duration time.Duration) *ETLError {
	message := fmt.Sprintf("blocked for %v", duration)
	return New(ErrorTypeRateLimit, component, message, ErrRateLimited)
}

// NewParsing creates a new parsing error
func NewParsing(component, message string, err error) *ETLError {
	return New(ErrorTypeParsing, component, message, err)
}

// NewExtraction creates a new extraction error
func NewExtraction(component, message string, err error) *ETLError {
	return New(ErrorTypeExtraction, component, message, err)
}

// NewPipeline creates a new pipeline stage error
func NewPipeline(stage, message string, err error) *ETLError {
	return New(ErrorTypePipeline, stage, message, err)
}

// NewSink creates a new sink error
func NewSink(sink, message string, err error) *ETLError {
	return New(ErrorTypeSink, sink, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ETLError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// IsType reports whether err wraps an ETLError of the given type.
func IsType(err error, errType ErrorType) bool {
	var etlErr *ETLError
	if errors.As(err, &etlErr) {
		return etlErr.Type == errType
	}
	return false
}
