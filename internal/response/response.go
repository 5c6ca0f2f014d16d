package response

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// Error codes used across services and handlers
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeUnsupportedType = "UNSUPPORTED_TYPE"
	ErrCodeStorage         = "STORAGE_ERROR"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// AppError is the service-layer error type. Code drives the HTTP status
// mapping, Message is what goes on the wire, Details stays in the logs.
type AppError struct {
	Code    string
	Message string
	Details string
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAppError creates a new AppError
func NewAppError(code, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

// NewValidationError creates a validation AppError
func NewValidationError(message, details string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Details: details}
}

// NewNotFoundError creates a not-found AppError
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// NewForbiddenError creates a forbidden AppError
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: ErrCodeForbidden, Message: message}
}

// NewConflictError creates a conflict AppError
func NewConflictError(message, details string) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: message, Details: details}
}

// SendError writes the flat error envelope. The code is not exposed on the
// wire; clients key off the status and the message text.
func SendError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": message})
}

// SendUploadError writes the upload error envelope, which carries an
// explicit success flag alongside the message
func SendUploadError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// SendSuccess writes a success payload as-is
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}
