package apperrors

import "errors"

// Resource errors
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrInvalidReference = errors.New("invalid reference")
)

// Authentication and authorization errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenMissing       = errors.New("token not provided")
	ErrPermissionDenied   = errors.New("permission denied")
)

// Validation errors
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Registration errors
var (
	ErrDonorNotFound      = errors.New("donor code not found")
	ErrDonorAlreadyLinked = errors.New("donor code is already linked to an account")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

// Spreadsheet import errors
var (
	ErrInvalidUpload         = errors.New("invalid upload")
	ErrSpreadsheetUnreadable = errors.New("spreadsheet could not be read")
	ErrSpreadsheetEmpty      = errors.New("spreadsheet has no data rows")
)

// CustomError carries a user-facing message on top of a sentinel.
type CustomError struct {
	Err     error
	Message string
	Field   string
	Details interface{}
}

func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithField names the request field responsible for the error
func (e *CustomError) WithField(field string) *CustomError {
	e.Field = field
	return e
}

// WithDetails attaches structured context returned to the client
func (e *CustomError) WithDetails(details interface{}) *CustomError {
	e.Details = details
	return e
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{Err: err, Message: message}
}

// NewValidationError wraps ErrValidationFailed with the offending field.
func NewValidationError(field, message string) *CustomError {
	return &CustomError{Err: ErrValidationFailed, Message: message, Field: field}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{Err: ErrBadRequest, Message: message}
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{Err: ErrResourceNotFound, Message: message}
}

// MessageOf returns the user-facing message of err when it is a CustomError,
// or fallback otherwise.
func MessageOf(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}
