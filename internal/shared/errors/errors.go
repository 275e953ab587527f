// Package errors holds the HTTP error envelope shared by handlers and middleware.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnavailable is the cause of an Unavailable error built without one.
var ErrUnavailable = errors.New("service unavailable")

// AppError is an error with the status and machine-readable code to render it with.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ToResponse converts the error to its JSON envelope. The cause is never exposed.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: e.Code, Message: e.Message}}
}

// ErrorResponse is the body of every non-2xx response: {"error": {"code", "message"}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail is the inner object of ErrorResponse.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BadGateway is an upstream failure that must not be retried blindly.
func BadGateway(code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, StatusCode: http.StatusBadGateway, Err: err}
}

// Unavailable is a transient upstream failure; clients may retry later.
func Unavailable(code, message string, err error) *AppError {
	if err == nil {
		err = ErrUnavailable
	}
	return &AppError{Code: code, Message: message, StatusCode: http.StatusServiceUnavailable, Err: err}
}
