package apperrors

import "errors"

// Taxonomy roots. Every error returned by a service either wraps one of these
// or is treated as an opaque store failure.
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrPermissionDenied = errors.New("permission denied")
)

// Authentication errors
var (
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("invalid token")
	ErrInvalidFormat = errors.New("invalid token format")
)

// Membership errors
var (
	ErrNameMismatch     = NewCustomError(ErrValidationFailed, "Community name does not match")
	ErrAlreadyMember    = NewCustomError(ErrConflict, "User is already a member of this community")
	ErrNotMember        = NewCustomError(ErrPermissionDenied, "User is not a member of this community")
	ErrCounterUnderflow = NewCustomError(ErrConflict, "Community member count is already zero")
	ErrNameTaken        = NewCustomError(ErrConflict, "Community name already exists")
)

// Job application errors
var (
	ErrDuplicateApplication = NewCustomError(ErrConflict, "You have already applied for this job")
	ErrInvalidStatus        = NewCustomError(ErrValidationFailed, "Invalid status. Must be one of: pending, accepted, rejected")
)

// Upload errors
var (
	ErrUnsupportedFileType = NewCustomError(ErrValidationFailed, "Unsupported file type")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a new custom error for rejected input with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// Is reports whether err matches target or any error in errList
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

// Message returns the human readable message carried by the first CustomError
// in err's chain, or fallback when there is none.
func Message(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
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

// Is matches copies made by WithDetails against the sentinel they were
// derived from
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	return ok && t.Err == e.Err && t.Message == e.Message
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails returns a copy of the error carrying context details. Package
// level sentinels are shared, so they are never mutated in place.
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	cp := *e
	cp.Details = details
	return &cp
}
