package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"
	ErrCodeOutOfRange   ErrorCode = "OUT_OF_RANGE"
	ErrCodeValidation   ErrorCode = "VALIDATION"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrProjectNotFound   = NewError(ErrCodeNotFound, "project not found or deleted")
	ErrProjectExists     = NewError(ErrCodeConflict, "project id already exists")
	ErrProjectNotDeleted = NewError(ErrCodeInvalidState, "project is not deleted")
	ErrRecordDeleted     = NewError(ErrCodeInvalidState, "maintenance record is soft-deleted")
	ErrRecordNotDeleted  = NewError(ErrCodeInvalidState, "maintenance record is not deleted")
	ErrRecordIndex       = NewError(ErrCodeOutOfRange, "maintenance record index out of range")
	ErrChatStateNotFound = NewError(ErrCodeNotFound, "chat state not found")
	ErrInvalidPayload    = NewError(ErrCodeValidation, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
