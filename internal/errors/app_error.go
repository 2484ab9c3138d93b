package errors

import (
	"errors"
	"net/http"
)

type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail

	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err

	return e
}

const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeInternal          = "INTERNAL_ERROR"
	ErrCodeDatabaseError     = "DATABASE_ERROR"
	ErrCodeDuplicateEntry    = "DUPLICATE_ENTRY"
	ErrCodeThirdPartyError   = "THIRD_PARTY_ERROR"

	ErrCodeUserNotFound  = "USER_NOT_FOUND"
	ErrCodeBookNotFound  = "BOOK_NOT_FOUND"
	ErrCodeCartNotFound  = "CART_NOT_FOUND"
	ErrCodeItemNotFound  = "ITEM_NOT_FOUND"
	ErrCodeOrderNotFound = "ORDER_NOT_FOUND"
)

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, http.StatusBadRequest)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrCodeBadRequest, message, http.StatusBadRequest)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message, http.StatusInternalServerError)
}

func DatabaseError(message string) *AppError {
	return NewAppError(ErrCodeDatabaseError, message, http.StatusInternalServerError)
}

func DuplicateEntryError(message string) *AppError {
	return NewAppError(ErrCodeDuplicateEntry, message, http.StatusConflict)
}

func ThirdPartyError(message string) *AppError {
	return NewAppError(ErrCodeThirdPartyError, message, http.StatusInternalServerError)
}

func UserNotFoundError(message string) *AppError {
	return NewAppError(ErrCodeUserNotFound, message, http.StatusNotFound)
}

func BookNotFoundError(message string) *AppError {
	return NewAppError(ErrCodeBookNotFound, message, http.StatusNotFound)
}

func CartNotFoundError(message string) *AppError {
	return NewAppError(ErrCodeCartNotFound, message, http.StatusNotFound)
}

func ItemNotFoundError(message string) *AppError {
	return NewAppError(ErrCodeItemNotFound, message, http.StatusNotFound)
}

func OrderNotFoundError(message string) *AppError {
	return NewAppError(ErrCodeOrderNotFound, message, http.StatusNotFound)
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

