package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/frahmantamala/mvd-portal/internal/store"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidPatch      ErrorCode = "INVALID_PATCH"
	ErrCodeInvalidID         ErrorCode = "INVALID_ID"
	ErrCodeInvalidRole       ErrorCode = "INVALID_ROLE"
	ErrCodeInvalidStatus     ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidAction     ErrorCode = "INVALID_ACTION"
	ErrCodeMalformedImport   ErrorCode = "MALFORMED_IMPORT"
	ErrCodeUnknownCollection ErrorCode = "UNKNOWN_COLLECTION"

	ErrCodeUserNotFound        ErrorCode = "USER_NOT_FOUND"
	ErrCodeApplicationNotFound ErrorCode = "APPLICATION_NOT_FOUND"
	ErrCodeNewsNotFound        ErrorCode = "NEWS_NOT_FOUND"
	ErrCodeRecordNotFound      ErrorCode = "RECORD_NOT_FOUND"
	ErrCodeEmployeeNotFound    ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeLeaderNotFound      ErrorCode = "LEADER_NOT_FOUND"
	ErrCodeVehicleNotFound     ErrorCode = "VEHICLE_NOT_FOUND"

	ErrCodeLoginTaken ErrorCode = "LOGIN_TAKEN"
	ErrCodeStaleState ErrorCode = "STALE_STATE"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeAuthRequired       ErrorCode = "AUTHENTICATION_REQUIRED"

	ErrCodeInsufficientRole ErrorCode = "INSUFFICIENT_ROLE"
	ErrCodeProtectedAccount ErrorCode = "PROTECTED_ACCOUNT"
	ErrCodeNotParticipant   ErrorCode = "NOT_APPLICATION_PARTICIPANT"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {

			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

var (
	ErrUserNotFound        = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrApplicationNotFound = NewNotFoundError("Application not found", ErrCodeApplicationNotFound)
	ErrNewsNotFound        = NewNotFoundError("News article not found", ErrCodeNewsNotFound)
	ErrRecordNotFound      = NewNotFoundError("Database record not found", ErrCodeRecordNotFound)
	ErrEmployeeNotFound    = NewNotFoundError("Employee not found", ErrCodeEmployeeNotFound)
	ErrLeaderNotFound      = NewNotFoundError("Leader not found", ErrCodeLeaderNotFound)
	ErrVehicleNotFound     = NewNotFoundError("Vehicle not found", ErrCodeVehicleNotFound)

	ErrLoginTaken  = NewConflictError("Login is already taken", ErrCodeLoginTaken)
	ErrStaleState  = NewConflictError("State was changed by another writer, retry the request", ErrCodeStaleState)
	ErrInvalidID   = NewValidationError("Invalid record id", ErrCodeInvalidID)
	ErrInvalidRole = NewValidationError("Unknown role", ErrCodeInvalidRole)

	ErrInvalidStatus = NewValidationError("Unknown application status", ErrCodeInvalidStatus)
	ErrInvalidAction = NewValidationError("Unknown response action", ErrCodeInvalidAction)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid login or password", ErrCodeInvalidCredentials)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
	ErrAuthRequired       = NewUnauthorizedError("Authentication required", ErrCodeAuthRequired)

	ErrInsufficientRole = NewForbiddenError("Insufficient role for this operation", ErrCodeInsufficientRole)
	ErrProtectedAccount = NewForbiddenError("Administrators cannot modify themselves or other administrators", ErrCodeProtectedAccount)
	ErrNotParticipant   = NewForbiddenError("Only the author or staff may access this application", ErrCodeNotParticipant)
)

func NewMalformedImportError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeMalformedImport,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// FromStoreError maps state store failures onto the AppError taxonomy.
// notFound is returned for a missing record id.
func FromStoreError(err error, notFound *AppError) error {
	if err == nil {
		return nil
	}
	if _, ok := IsAppError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return notFound
	case errors.Is(err, store.ErrInvalidPatch):
		return NewValidationError(err.Error(), ErrCodeInvalidPatch).WithCause(err)
	case errors.Is(err, store.ErrStale):
		return ErrStaleState
	}
	return NewInternalError("state store failure", err)
}

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
