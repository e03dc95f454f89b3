package dto

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the application
const (
	// Authentication errors
	ErrorCodeInvalidCredentials ErrorCode = "AUTH_001"
	ErrorCodeInvalidToken       ErrorCode = "AUTH_005"
	ErrorCodeExpiredToken       ErrorCode = "AUTH_006"
	ErrorCodeTokenNotFound      ErrorCode = "AUTH_007"
	ErrorCodeUnauthorized       ErrorCode = "AUTH_008"
	ErrorCodeInvalidCollegeCode ErrorCode = "AUTH_009"
	ErrorCodeForbidden          ErrorCode = "FORBIDDEN"

	// Resource errors
	ErrorCodeResourceNotFound ErrorCode = "RES_001"
	ErrorCodeResourceInvalid  ErrorCode = "RES_003"
	ErrorCodeConflict         ErrorCode = "RES_004"

	// Validation errors
	ErrorCodeValidationFailed  ErrorCode = "VAL_001"
	ErrorCodeMissingColumns    ErrorCode = "VAL_002"
	ErrorCodeInvalidDataset    ErrorCode = "VAL_003"
	ErrorCodeUnsupportedFormat ErrorCode = "VAL_004"

	// Server errors
	ErrorCodeInternalServer       ErrorCode = "SRV_001"
	ErrorCodeExternalServiceError ErrorCode = "SRV_003"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

// Severity levels
const (
	ErrorSeverityWarning ErrorSeverity = "WARNING"
	ErrorSeverityError   ErrorSeverity = "ERROR"
)

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code     ErrorCode     `json:"code" example:"AUTH_001"`
	Message  string        `json:"message" example:"Invalid college code or credentials"`
	Field    string        `json:"field,omitempty" example:"collegeCode"`
	Severity ErrorSeverity `json:"severity" example:"ERROR"`
	Details  interface{}   `json:"details,omitempty"`
}

// NewErrorDetail creates a new error detail
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:     code,
		Message:  message,
		Severity: ErrorSeverityError,
	}
}

// WithField adds a field name to the error detail
func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

// WithSeverity sets the severity level of the error
func (e *ErrorDetail) WithSeverity(severity ErrorSeverity) *ErrorDetail {
	e.Severity = severity
	return e
}

// WithDetails adds additional details to the error
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// FieldError is one failed field in a validation error.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// HandleValidationError turns a binding error into a VAL_001 detail. Field
// errors from the validator are listed individually; anything else (malformed
// JSON, wrong types) is reported as a single message.
func HandleValidationError(err error) *ErrorDetail {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewErrorDetail(ErrorCodeValidationFailed, "Invalid request format").
			WithDetails(err.Error())
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: formatValidationError(fe)})
	}

	detail := NewErrorDetail(ErrorCodeValidationFailed, "Validation failed").WithDetails(fields)
	if len(fields) > 0 {
		detail.WithField(fields[0].Field)
	}
	return detail
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email", "optemail":
		return e.Field() + " must be a valid email address"
	case "collegecode":
		return e.Field() + " must be 1-10 letters, digits, '-' or '_'"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
