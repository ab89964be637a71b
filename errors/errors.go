package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Kind classifies a failure so callers can branch without parsing messages.
type Kind string

const (
	KindAuth       Kind = "auth"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
	KindGateway    Kind = "gateway"
	KindValidation Kind = "validation"
	KindInternal   Kind = "internal"
)

type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Kind    Kind   `json:"kind"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches on kind and message so sentinel comparisons survive wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// New returns an error whose kind is derived from the HTTP status.
func New(message string, status int) *Error {
	return &Error{Message: message, Status: status, Kind: kindForStatus(status)}
}

func Conflict(message string) *Error {
	return &Error{Message: message, Status: http.StatusConflict, Kind: KindConflict}
}

func NotFound(message string, cause error) *Error {
	return &Error{Message: message, Status: http.StatusNotFound, Kind: KindNotFound, cause: cause}
}

func Gateway(cause error) *Error {
	return &Error{Message: "conversation provider request failed", Status: http.StatusBadGateway, Kind: KindGateway, cause: cause}
}

func Validation(message string) *Error {
	return &Error{Message: message, Status: http.StatusBadRequest, Kind: KindValidation}
}

func Internal(cause error) *Error {
	return &Error{Message: "internal server error", Status: http.StatusInternalServerError, Kind: KindInternal, cause: cause}
}

var (
	ErrInvalidCredentials  = &Error{Message: "invalid credentials", Status: http.StatusUnauthorized, Kind: KindAuth}
	ErrUnauthorized        = &Error{Message: "unauthorized", Status: http.StatusUnauthorized, Kind: KindAuth}
	ErrBadRequest          = &Error{Message: "bad request", Status: http.StatusBadRequest, Kind: KindValidation}
	ErrInternalServerError = &Error{Message: "internal server error", Status: http.StatusInternalServerError, Kind: KindInternal}
	ErrEmailExists         = Conflict("email already in use")
	ErrUsernameExists      = Conflict("username already in use")
)

// KindOf returns the kind carried by err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Public returns the message safe to show a client. Causes and foreign error text are dropped.
func Public(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ErrInternalServerError.Message
}

// StatusForKind maps a kind onto the HTTP status returned at the boundary.
func StatusForKind(k Kind) int {
	switch k {
	case KindAuth:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindGateway:
		return http.StatusBadGateway
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusConflict:
		return KindConflict
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusBadGateway, http.StatusGatewayTimeout, http.StatusServiceUnavailable:
		return KindGateway
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusTooManyRequests:
		return KindValidation
	default:
		return KindInternal
	}
}

// GetUniqueConstraintError turns a duplicate key failure into a conflict.
func GetUniqueConstraintError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "duplicate") && !strings.Contains(msg, "unique") {
		return Internal(err)
	}
	switch {
	case strings.Contains(msg, "email"):
		return ErrEmailExists
	case strings.Contains(msg, "username"):
		return ErrUsernameExists
	}
	return Conflict("record already exists")
}

// ErrorHandler is the rate limiter's rejection response.
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"message":   "too many requests, try again in " + time.Until(info.ResetTime).Round(time.Second).String(),
		"errors":    "too many requests",
		"errorKind": KindValidation,
		"status":    http.StatusText(http.StatusTooManyRequests),
	})
}
