package errors

import "fmt"

// Error codes
const (
	CodeInvalidURL        = "INVALID_URL"
	CodeMalformedResponse = "MALFORMED_RESPONSE"
	CodeTransport         = "TRANSPORT_ERROR"
	CodeStorage           = "STORAGE_ERROR"
	CodeCache             = "CACHE_ERROR"
	CodeValidation        = "VALIDATION_ERROR"
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

// InvalidURLError rejects unsupported video URLs before any network call.
type InvalidURLError struct {
	*AppError
	URL string
}

func NewInvalidURLError(url string) *InvalidURLError {
	return &InvalidURLError{
		AppError: &AppError{
			Message:    "Please provide a valid TikTok or Instagram URL",
			Code:       CodeInvalidURL,
			StatusCode: 400,
			Context: map[string]any{
				"url": url,
			},
		},
		URL: url,
	}
}

// MalformedResponseError marks a model response the parser could not turn
// into a structured recipe.
type MalformedResponseError struct {
	*AppError
	Reason string
}

func NewMalformedResponseError(reason string, cause error) *MalformedResponseError {
	return &MalformedResponseError{
		AppError: &AppError{
			Message:    "failed to parse AI response",
			Code:       CodeMalformedResponse,
			StatusCode: 502,
			Context: map[string]any{
				"reason": reason,
			},
			Cause: cause,
		},
		Reason: reason,
	}
}

// TransportError wraps a provider/transport failure on the generative call.
type TransportError struct {
	*AppError
	Provider string
}

func NewTransportError(provider string, cause error) *TransportError {
	return &TransportError{
		AppError: &AppError{
			Message:    "generative call failed",
			Code:       CodeTransport,
			StatusCode: 502,
			Context: map[string]any{
				"provider": provider,
			},
			Cause: cause,
		},
		Provider: provider,
	}
}

// StorageError surfaces persistence failures to the caller; the pipeline
// never silently absorbs these.
type StorageError struct {
	*AppError
	Operation string
	Entity    string
}

func NewStorageError(message, operation, entity string, cause error) *StorageError {
	return &StorageError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeStorage,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"entity":    entity,
			},
			Cause: cause,
		},
		Operation: operation,
		Entity:    entity,
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
