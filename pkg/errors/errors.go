package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	CodeAppError   = "APP_ERROR"
	CodeAPIError   = "API_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeCache      = "CACHE_ERROR"
	CodeService    = "SERVICE_ERROR"
	CodeNoData     = "NO_DATA"
)

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(message, code string, statusCode int, context map[string]any) *AppError {
	return &AppError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

type APIError struct {
	*AppError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context:    context,
		},
	}
}

type ValidationError struct {
	*AppError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type CacheError struct {
	*AppError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type ServiceError struct {
	*AppError
	Service   string
	Operation string
}

func NewServiceError(message, service, operation string, cause error) *ServiceError {
	return &ServiceError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeService,
			StatusCode: 500,
			Context: map[string]any{
				"service":   service,
				"operation": operation,
			},
			Cause: cause,
		},
		Service:   service,
		Operation: operation,
	}
}

// NoDataError is returned when none of the requested platforms produced a profile.
type NoDataError struct {
	*AppError
	Handle    string
	Platforms []string
}

func NewNoDataError(handle string, platforms []string) *NoDataError {
	return &NoDataError{
		AppError: &AppError{
			Message:    "no data could be fetched for the requested profiles",
			Code:       CodeNoData,
			StatusCode: 404,
			Context: map[string]any{
				"handle":    handle,
				"platforms": platforms,
			},
		},
		Handle:    handle,
		Platforms: platforms,
	}
}

type statusCarrier interface {
	error
	status() int
}

func (e *AppError) status() int {
	if e == nil || e.StatusCode == 0 {
		return 500
	}
	return e.StatusCode
}

// HTTPStatus returns the status code carried by the first typed error in the chain, or 500.
func HTTPStatus(err error) int {
	if err == nil {
		return 200
	}
	var carrier statusCarrier
	if stderrors.As(err, &carrier) {
		return carrier.status()
	}
	return 500
}

type messageCarrier interface {
	error
	message() string
}

func (e *AppError) message() string {
	return e.Message
}

// Message returns the caller-facing message of the first typed error in the chain,
// without the wrapped cause.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var carrier messageCarrier
	if stderrors.As(err, &carrier) {
		return carrier.message()
	}
	return err.Error()
}
