package types

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Complete error code constants.
// Handlers and services MUST use these constants instead of hardcoded strings.
const (
	// Definition (422): a plan or tier record breaks an invariant.
	ErrCodeDefinitionInvalidField ErrorCode = "definition_invalid_field"

	// Validation (400): a quote configuration or request body was rejected.
	ErrCodeValidationOutOfRangeDuration         ErrorCode = "validation_out_of_range_duration"
	ErrCodeValidationInvalidDurationStep        ErrorCode = "validation_invalid_duration_step"
	ErrCodeValidationUnsupportedDaysPerWeek     ErrorCode = "validation_unsupported_days_per_week"
	ErrCodeValidationUnsupportedSessionsPerWeek ErrorCode = "validation_unsupported_sessions_per_week"
	ErrCodeValidationInvalidJSON                ErrorCode = "validation_invalid_json"
	ErrCodeValidationInvalidRequest             ErrorCode = "validation_invalid_request"

	// Contract violations at the call boundary (400).
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"

	// Not Found (404)
	ErrCodeNotFoundPlan  ErrorCode = "not_found_plan"
	ErrCodeNotFoundTier  ErrorCode = "not_found_tier"
	ErrCodeNotFoundRoute ErrorCode = "not_found_route"

	ErrCodeMethodNotAllowed ErrorCode = "method_not_allowed"

	// Internal/Upstream (500/502)
	ErrCodeInternalDB          ErrorCode = "internal_database_error"
	ErrCodeInternalUnexpected  ErrorCode = "internal_unexpected_error"
	ErrCodeUpstreamCache       ErrorCode = "upstream_cache_unavailable"
	ErrCodeUpstreamQueue       ErrorCode = "upstream_queue_unavailable"
	ErrCodeUpstreamUnavailable ErrorCode = "upstream_unavailable"
)

// violationCodes maps each configuration violation to its error code.
var violationCodes = map[Violation]ErrorCode{
	ViolationOutOfRangeDuration:         ErrCodeValidationOutOfRangeDuration,
	ViolationInvalidDurationStep:        ErrCodeValidationInvalidDurationStep,
	ViolationUnsupportedDaysPerWeek:     ErrCodeValidationUnsupportedDaysPerWeek,
	ViolationUnsupportedSessionsPerWeek: ErrCodeValidationUnsupportedSessionsPerWeek,
}

// HTTPStatus maps an ErrorCode to its corresponding HTTP status code.
// Returns 500 for unrecognized error codes as a safe default.
func (c ErrorCode) HTTPStatus() int {
	s := string(c)
	switch {
	case strings.HasPrefix(s, "definition_"):
		return http.StatusUnprocessableEntity // 422
	case strings.HasPrefix(s, "validation_"), strings.HasPrefix(s, "invalid_argument"):
		return http.StatusBadRequest // 400
	case strings.HasPrefix(s, "not_found_"):
		return http.StatusNotFound // 404
	case strings.HasPrefix(s, "method_not_allowed"):
		return http.StatusMethodNotAllowed // 405
	case strings.HasPrefix(s, "upstream_"):
		return http.StatusBadGateway // 502
	case strings.HasPrefix(s, "internal_"):
		return http.StatusInternalServerError // 500
	default:
		return http.StatusInternalServerError // 500
	}
}

// AppError is the standard application error type used throughout the service.
// All domain and handler errors should be expressed as AppError to enable
// consistent error formatting, HTTP status mapping, and error chain support.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code corresponding to this error's code.
func (e *AppError) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a copy of the error with the provided details merged in.
// The original error is not mutated.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     e.Err,
		Details: merged,
	}
}

// NewAppError creates a new AppError with the given code, message, and optional
// underlying error. This is the standard constructor for domain errors.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewAppErrorWithDetails creates a new AppError with the given code, message,
// underlying error, and structured details.
func NewAppErrorWithDetails(code ErrorCode, message string, err error, details map[string]any) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: details,
	}
}

// NewDefinitionError reports that a plan or tier definition broke an invariant
// on the named field. field is the JSON name of the offending field.
func NewDefinitionError(field, message string) *AppError {
	return NewAppErrorWithDetails(ErrCodeDefinitionInvalidField, message, nil, map[string]any{
		"field": field,
	})
}

// NewValidationError reports that a requested configuration was rejected.
func NewValidationError(v Violation, message string) *AppError {
	code, ok := violationCodes[v]
	if !ok {
		code = ErrCodeValidationInvalidRequest
	}
	return NewAppErrorWithDetails(code, message, nil, map[string]any{
		"violation": string(v),
	})
}

// NewInvalidArgument reports a programming-contract violation at the call boundary.
func NewInvalidArgument(message string) *AppError {
	return NewAppError(ErrCodeInvalidArgument, message, nil)
}

// DefinitionField returns the offending field of a definition error, or ""
// when err is not one.
func DefinitionField(err error) string {
	appErr, ok := asAppError(err)
	if !ok || appErr.Code != ErrCodeDefinitionInvalidField {
		return ""
	}
	field, _ := appErr.Details["field"].(string)
	return field
}

// ViolationOf returns the violation carried by a configuration validation
// error, or "" when err is not one.
func ViolationOf(err error) Violation {
	appErr, ok := asAppError(err)
	if !ok {
		return ""
	}
	v, _ := appErr.Details["violation"].(string)
	return Violation(v)
}

// IsNotFound reports whether err is a not_found_* AppError.
func IsNotFound(err error) bool {
	appErr, ok := asAppError(err)
	return ok && strings.HasPrefix(string(appErr.Code), "not_found_")
}

func asAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HTTPStatusOf returns the status an error renders with: the AppError's
// mapped status, or 500 for anything else.
func HTTPStatusOf(err error) int {
	if appErr, ok := asAppError(err); ok {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}
