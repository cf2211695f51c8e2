package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorType categorizes errors for logging and HTTP mapping.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeDataset    ErrorType = "dataset"
	ErrorTypeCache      ErrorType = "cache"
	ErrorTypeExternal   ErrorType = "external"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError is a structured application error.
type AppError struct {
	Type          ErrorType              `json:"type"`
	Code          string                 `json:"code"`
	Message       string                 `json:"message"`
	Details       string                 `json:"details,omitempty"`
	CorrelationID string                 `json:"correlation_id,omitempty"`
	Timestamp     time.Time              `json:"timestamp"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	Cause         error                  `json:"-"`
	HTTPStatus    int                    `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error.
func NewAppError(errorType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:       errorType,
		Code:       code,
		Message:    message,
		Timestamp:  time.Now().UTC(),
		HTTPStatus: defaultHTTPStatus(errorType),
	}
}

// NewAppErrorWithCause creates a new application error wrapping a cause.
func NewAppErrorWithCause(errorType ErrorType, code, message string, cause error) *AppError {
	err := NewAppError(errorType, code, message)
	err.Cause = cause
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// WithCorrelationID attaches a correlation ID to the error.
func (e *AppError) WithCorrelationID(correlationID string) *AppError {
	e.CorrelationID = correlationID
	return e
}

// WithDetails adds additional details to the error.
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithMetadata adds a metadata entry to the error.
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func defaultHTTPStatus(errorType ErrorType) int {
	switch errorType {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error for a request parameter.
func NewValidationError(field, message string) *AppError {
	return NewAppError(ErrorTypeValidation, "VALIDATION_ERROR", message).
		WithMetadata("field", field)
}

// NewAddressNotFoundError signals that the geocoder resolved no feature for
// the requested address.
func NewAddressNotFoundError() *AppError {
	return NewAppError(ErrorTypeNotFound, "ADDRESS_NOT_FOUND", "Address not found")
}

// NewNoCoverageError signals that no operator has a site within the maximum
// search distance of the query point. A normal outcome, not an internal fault.
func NewNoCoverageError(maxDistanceKm float64) *AppError {
	return NewAppError(ErrorTypeNotFound, "NO_COVERAGE",
		fmt.Sprintf("No coverage data found within %g km for any operator", maxDistanceKm)).
		WithMetadata("max_distance_km", maxDistanceKm)
}

// NewInvalidOperatorCodeError signals a dataset row whose operator code is
// not an integer. Fatal for the whole catalog build.
func NewInvalidOperatorCodeError(raw string) *AppError {
	return NewAppError(ErrorTypeDataset, "INVALID_OPERATOR_CODE",
		fmt.Sprintf("Operator code must be an integer, got %q", raw)).
		WithMetadata("operator_code", raw)
}

// NewUnknownOperatorError signals an integer operator code outside the known
// operator table. Fatal for the whole catalog build.
func NewUnknownOperatorError(code int) *AppError {
	return NewAppError(ErrorTypeDataset, "UNKNOWN_OPERATOR",
		fmt.Sprintf("Unknown operator code %d in dataset", code)).
		WithMetadata("operator_code", code)
}

// NewDatasetError creates an error for an unreadable or malformed dataset.
func NewDatasetError(operation string, cause error) *AppError {
	return NewAppErrorWithCause(ErrorTypeDataset, "DATASET_ERROR",
		fmt.Sprintf("Dataset operation failed: %s", operation), cause).
		WithMetadata("operation", operation)
}

// NewCacheError creates an error for an unreadable or corrupt cache artifact.
func NewCacheError(operation string, cause error) *AppError {
	return NewAppErrorWithCause(ErrorTypeCache, "CACHE_ERROR",
		fmt.Sprintf("Cache artifact operation failed: %s", operation), cause).
		WithMetadata("operation", operation)
}

// NewExternalError creates an error for an upstream service failure.
func NewExternalError(service, operation string, cause error) *AppError {
	return NewAppErrorWithCause(ErrorTypeExternal, "EXTERNAL_ERROR",
		fmt.Sprintf("External service error: %s", service), cause).
		WithMetadata("service", service).
		WithMetadata("operation", operation)
}

// NewInternalError creates an internal server error.
func NewInternalError(message string, cause error) *AppError {
	return NewAppErrorWithCause(ErrorTypeInternal, "INTERNAL_ERROR", message, cause)
}

// IsErrorType reports whether err is an AppError of the given type.
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == errorType
	}
	return false
}

// AsAppError returns err as an AppError, wrapping unknown errors as internal.
func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternalError("An unexpected error occurred", err)
}
