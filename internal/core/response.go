package core

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
)

const maxRequestBodySize = 1 << 20

// APIResponse wraps every successful payload.
type APIResponse struct {
	Data any `json:"data"`
}

// APIErrorResponse wraps every error payload.
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// JSON marshals data and writes it with status. A value that cannot be
// marshalled produces a 500 envelope instead.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(APIErrorResponse{Error: ErrorDetail{
			Code:      string(types.ErrCodeInternalUnexpected),
			Message:   "failed to encode response",
			RequestID: types.GetRequestID(r.Context()),
		}})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Data writes v inside the success envelope.
func Data(w http.ResponseWriter, r *http.Request, status int, v any) {
	JSON(w, r, status, APIResponse{Data: v})
}

// Error writes err as an error envelope. AppErrors keep their code, message
// and details; anything else becomes an opaque 500.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	detail := ErrorDetail{
		Code:      string(types.ErrCodeInternalUnexpected),
		Message:   "an unexpected error occurred",
		RequestID: types.GetRequestID(r.Context()),
	}
	status := http.StatusInternalServerError

	var appErr *types.AppError
	if errors.As(err, &appErr) {
		detail.Code = string(appErr.Code)
		detail.Details = appErr.Details
		status = appErr.HTTPStatus()
		if status < 500 {
			detail.Message = appErr.Message
		}
	}
	JSON(w, r, status, APIErrorResponse{Error: detail})
}

// DecodeJSON decodes a single JSON object from the body into dst. Bodies
// over 1 MB, unknown fields, trailing data and empty bodies are rejected
// with validation_invalid_json.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	if dec.More() {
		return invalidJSON("request body must contain a single JSON object", nil)
	}
	return nil
}

func decodeError(err error) *types.AppError {
	var (
		tooLarge  *http.MaxBytesError
		syntax    *json.SyntaxError
		typeError *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &tooLarge):
		return invalidJSON("request body must not exceed 1MB", err)
	case errors.As(err, &syntax), errors.Is(err, io.ErrUnexpectedEOF):
		return invalidJSON("malformed JSON in request body", err)
	case errors.As(err, &typeError):
		return types.NewAppErrorWithDetails(types.ErrCodeValidationInvalidJSON, "invalid value for field "+typeError.Field, err,
			map[string]any{"field": typeError.Field, "expected": typeError.Type.String()})
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return invalidJSON("unknown field "+strings.TrimPrefix(err.Error(), "json: unknown field "), err)
	case errors.Is(err, io.EOF):
		return invalidJSON("request body must not be empty", err)
	default:
		return invalidJSON("invalid JSON in request body", err)
	}
}

func invalidJSON(msg string, err error) *types.AppError {
	return types.NewAppError(types.ErrCodeValidationInvalidJSON, msg, err)
}
