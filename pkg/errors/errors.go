package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/hourbook/hourbook-backend/pkg/i18n"
)

// Standard error types
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("resource conflict")
	ErrInternal           = errors.New("internal server error")
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTooManyRequests    = errors.New("too many requests")
)

// AppError represents an application error with context
type AppError struct {
	Err         error             `json:"-"`
	Message     string            `json:"message"`
	MessageKey  string            `json:"-"` // i18n key for localization
	Params      map[string]string `json:"-"` // Parameters for i18n interpolation
	ResourceKey string            `json:"-"` // resources.* key, translated per request
	Code        string            `json:"code"`
	StatusCode  int               `json:"status_code"`
	Details     map[string]string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Localize returns a localized version of the error message
func (e *AppError) Localize(ctx context.Context) string {
	if e.MessageKey == "" {
		return e.Message
	}
	params := e.Params
	if e.ResourceKey != "" {
		params = make(map[string]string, len(e.Params)+1)
		for k, v := range e.Params {
			params[k] = v
		}
		params["resource"] = i18n.TFromContext(ctx, "resources."+e.ResourceKey)
	}
	return i18n.TFromContext(ctx, e.MessageKey, params)
}

// New creates a new AppError
func New(code string, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, code string, message string, statusCode int) *AppError {
	return &AppError{
		Err:        err,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// WithKey attaches an i18n key; the English text becomes the default message.
func (e *AppError) WithKey(key string, params ...map[string]string) *AppError {
	e.MessageKey = key
	if len(params) > 0 {
		e.Params = params[0]
	}
	e.Message = i18n.T(key, e.Params)
	return e
}

// WithResource fills the {resource} param from resources.<key>. The
// English name goes into Message; Localize translates it again per request.
func (e *AppError) WithResource(key string) *AppError {
	e.ResourceKey = key
	if e.Params == nil {
		e.Params = map[string]string{}
	}
	e.Params["resource"] = i18n.T("resources." + key)
	if e.MessageKey != "" {
		e.Message = i18n.T(e.MessageKey, e.Params)
	}
	return e
}

// Common error constructors. An empty message selects the localized default.

func NotFound(resourceKey string) *AppError {
	e := &AppError{
		Err:        ErrNotFound,
		Code:       "NOT_FOUND",
		MessageKey: "errors.not_found",
		StatusCode: http.StatusNotFound,
	}
	return e.WithResource(resourceKey)
}

func Unauthorized(message string) *AppError {
	return withDefault(&AppError{
		Err:        ErrUnauthorized,
		Code:       "UNAUTHORIZED",
		StatusCode: http.StatusUnauthorized,
	}, message, "errors.unauthorized")
}

func Forbidden(message string) *AppError {
	return withDefault(&AppError{
		Err:        ErrForbidden,
		Code:       "FORBIDDEN",
		StatusCode: http.StatusForbidden,
	}, message, "errors.forbidden")
}

func BadRequest(message string) *AppError {
	return withDefault(&AppError{
		Err:        ErrBadRequest,
		Code:       "BAD_REQUEST",
		StatusCode: http.StatusBadRequest,
	}, message, "errors.bad_request")
}

func Conflict(message string) *AppError {
	return withDefault(&AppError{
		Err:        ErrConflict,
		Code:       "CONFLICT",
		StatusCode: http.StatusConflict,
	}, message, "errors.conflict")
}

func Internal(message string) *AppError {
	return withDefault(&AppError{
		Err:        ErrInternal,
		Code:       "INTERNAL_ERROR",
		StatusCode: http.StatusInternalServerError,
	}, message, "errors.internal")
}

func Validation(details map[string]string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Code:       "VALIDATION_ERROR",
		Message:    "validation failed",
		MessageKey: "errors.validation_failed",
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

func InvalidCredentials() *AppError {
	return &AppError{
		Err:        ErrInvalidCredentials,
		Code:       "INVALID_CREDENTIALS",
		Message:    "incorrect username or password",
		MessageKey: "errors.invalid_credentials",
		StatusCode: http.StatusUnauthorized,
	}
}

func TokenExpired() *AppError {
	return &AppError{
		Err:        ErrTokenExpired,
		Code:       "TOKEN_EXPIRED",
		Message:    "token has expired",
		MessageKey: "errors.token_expired",
		StatusCode: http.StatusUnauthorized,
	}
}

func TokenInvalid() *AppError {
	return &AppError{
		Err:        ErrTokenInvalid,
		Code:       "TOKEN_INVALID",
		Message:    "invalid token",
		MessageKey: "errors.token_invalid",
		StatusCode: http.StatusUnauthorized,
	}
}

// TooManyRequests reports a rate-limited caller; retryAfter is in seconds.
func TooManyRequests(retryAfter int) *AppError {
	return &AppError{
		Err:        ErrTooManyRequests,
		Code:       "TOO_MANY_REQUESTS",
		Message:    "too many requests",
		MessageKey: "errors.too_many_requests",
		StatusCode: http.StatusTooManyRequests,
		Details:    map[string]string{"retry_after": strconv.Itoa(retryAfter)},
	}
}

func withDefault(e *AppError, message, key string) *AppError {
	if message == "" {
		e.MessageKey = key
		e.Message = i18n.T(key)
		return e
	}
	e.Message = message
	return e
}

// Is checks if the error matches a target error
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As attempts to convert an error to a specific type
func As(err error, target any) bool {
	return errors.As(err, target)
}

// StatusCode returns the HTTP status carried by err, or 500.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
