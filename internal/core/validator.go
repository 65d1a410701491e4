package core

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/types"
	"github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/validation"
)

// Validator checks request DTOs against their validate tags.
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// ValidationError describes one rejected request field.
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewValidator wraps the shared validator: JSON field names, the "enum" tag
// and exact "decgte"/"declte" decimal bounds.
func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Validator{validate: validation.New(), logger: logger}
}

// ValidateStruct returns nil or a validation_invalid_request AppError whose
// "validation_errors" detail lists every failing field.
func (v *Validator) ValidateStruct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		v.logger.Error("request validation misconfigured", "type", fmt.Sprintf("%T", s), "error", err)
		return types.NewAppError(types.ErrCodeInternalUnexpected, "request validation failed", err)
	}

	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fieldPath(fe),
			Code:    fe.Tag(),
			Message: fieldMessage(fe),
		})
	}
	return types.NewAppErrorWithDetails(types.ErrCodeValidationInvalidRequest, "request validation failed", nil,
		map[string]any{"validation_errors": out})
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte", "decgte":
		return "must be at least " + fe.Param()
	case "max", "lte", "declte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "enum":
		return fmt.Sprintf("%v is not a recognised value", fe.Value())
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
