package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NewAppError(ErrorTypeDataset, "DATASET_ERROR", "Dataset operation failed")
	assert.Equal(t, "DATASET_ERROR: Dataset operation failed", err.Error())

	err = err.WithDetails("no such file")
	assert.Equal(t, "DATASET_ERROR: Dataset operation failed - no such file", err.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewExternalError("geocoder", "search", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.Contains(t, err.Details, "connection refused")
}

func TestDefaultHTTPStatus(t *testing.T) {
	tests := []struct {
		name      string
		errorType ErrorType
		expected  int
	}{
		{"Validation maps to 400", ErrorTypeValidation, http.StatusBadRequest},
		{"Not found maps to 404", ErrorTypeNotFound, http.StatusNotFound},
		{"External maps to 502", ErrorTypeExternal, http.StatusBadGateway},
		{"Dataset maps to 500", ErrorTypeDataset, http.StatusInternalServerError},
		{"Cache maps to 500", ErrorTypeCache, http.StatusInternalServerError},
		{"Internal maps to 500", ErrorTypeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewAppError(tt.errorType, "CODE", "message")
			assert.Equal(t, tt.expected, err.HTTPStatus)
		})
	}
}

func TestNewNoCoverageError(t *testing.T) {
	err := NewNoCoverageError(20)

	assert.Equal(t, ErrorTypeNotFound, err.Type)
	assert.Equal(t, "NO_COVERAGE", err.Code)
	assert.Contains(t, err.Message, "20 km")
	assert.Equal(t, float64(20), err.Metadata["max_distance_km"])
}

func TestNewUnknownOperatorError(t *testing.T) {
	err := NewUnknownOperatorError(99999)

	assert.Equal(t, ErrorTypeDataset, err.Type)
	assert.Equal(t, "UNKNOWN_OPERATOR", err.Code)
	assert.Contains(t, err.Message, "99999")
}

func TestIsErrorType(t *testing.T) {
	assert.True(t, IsErrorType(NewAddressNotFoundError(), ErrorTypeNotFound))
	assert.False(t, IsErrorType(NewAddressNotFoundError(), ErrorTypeInternal))
	assert.False(t, IsErrorType(fmt.Errorf("plain"), ErrorTypeInternal))
}

func TestAsAppError(t *testing.T) {
	app := NewCacheError("load", nil)
	assert.Equal(t, app, AsAppError(app))

	wrapped := AsAppError(fmt.Errorf("boom"))
	assert.Equal(t, ErrorTypeInternal, wrapped.Type)
	assert.Contains(t, wrapped.Details, "boom")
}
