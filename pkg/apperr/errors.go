package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is matches two AppErrors by code and message so sentinel values survive wrapping.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func New(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func InvalidArg(msg string) error {
	return New(CodeInvalidArgument, msg)
}

func NotFound(msg string) error {
	return New(CodeNotFound, msg)
}

func Forbidden(msg string) error {
	return New(CodePermissionDenied, msg)
}

func Conflict(msg string) error {
	return New(CodeConflict, msg)
}

func Unauthorized(msg string) error {
	return New(CodeUnauthenticated, msg)
}

func Internal(msg string, cause error) error {
	return Wrap(CodeInternal, msg, cause)
}

// CodeOf returns the code of the first AppError in err's chain, or CodeUnknown.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if s, ok := httpStatus[CodeOf(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// EnsureApp passes AppErrors through and wraps anything else as Internal.
func EnsureApp(err error, msg string) error {
	if err == nil {
		return nil
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return err
	}
	return Internal(msg, err)
}

// PublicMessage is what a caller may see: the AppError message for client errors and a
// generic text for everything else.
func PublicMessage(err error) string {
	var ae *AppError
	if HTTPStatus(err) < http.StatusInternalServerError && errors.As(err, &ae) {
		return ae.Message
	}
	return "internal error"
}
