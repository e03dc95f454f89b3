package apperrors

import "errors"

// Resource errors
var (
	ErrResourceNotFound = errors.New("resource not found")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidCollegeCode = errors.New("invalid college code")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrSessionNotFound    = errors.New("session not found or expired")
)

// Authorization errors
var (
	ErrPermissionDenied = errors.New("permission denied")
)

// Validation errors
var (
	ErrValidationFailed  = errors.New("validation failed")
	ErrBadRequest        = errors.New("bad request")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Dataset errors
var (
	ErrDatasetNotFound  = errors.New("placement dataset not found")
	ErrMissingColumns   = errors.New("dataset is missing required columns")
	ErrDatasetInvalid   = errors.New("dataset contains invalid values")
	ErrRevisionConflict = errors.New("dataset was modified concurrently")
	ErrStoreUnavailable = errors.New("data store unavailable")
	ErrUnreadableResume = errors.New("resume could not be read")
	ErrInsufficientData = errors.New("not enough data to train the model")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is reports whether err matches target or any of errList.
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// DetailsOf returns the details of the first CustomError in err's chain.
func DetailsOf(err error) map[string]interface{} {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Details
	}
	return nil
}

// MessageOf returns the message of the first CustomError in err's chain, or fallback.
func MessageOf(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}
