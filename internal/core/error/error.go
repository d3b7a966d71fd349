package errx

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
)

// Sentinel conditions raised at the collaborator boundaries of a dialogue turn.
var (
	// ErrClassificationUnavailable means the intent classifier could not reach or
	// use its language model (auth, quota, network, empty output).
	ErrClassificationUnavailable = errors.New("classification unavailable")

	// ErrRetrievalUnavailable means the knowledge lookup failed.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")

	// ErrLeadSinkFailure means a completed lead could not be submitted.
	ErrLeadSinkFailure = errors.New("lead submission failed")

	// ErrCorpusInvalid means the knowledge corpus is missing or malformed.
	ErrCorpusInvalid = errors.New("knowledge corpus invalid")

	// ErrInvalidRequest means an inbound turn request failed validation.
	ErrInvalidRequest = errors.New("invalid request")
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	cause := e.Err.Error()
	if strings.Contains(cause, e.Message) {
		return cause
	}
	return fmt.Sprintf("%s: %s", e.Message, cause)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}

// ClassificationUnavailable wraps a classifier collaborator failure.
func ClassificationUnavailable(err error) error {
	return wrapKind(ErrClassificationUnavailable, err, http.StatusServiceUnavailable, "intent classification unavailable")
}

// RetrievalUnavailable wraps a knowledge lookup failure.
func RetrievalUnavailable(err error) error {
	return wrapKind(ErrRetrievalUnavailable, err, http.StatusServiceUnavailable, "knowledge retrieval unavailable")
}

// LeadSinkFailure wraps a lead submission failure.
func LeadSinkFailure(err error) error {
	return wrapKind(ErrLeadSinkFailure, err, http.StatusBadGateway, "lead submission failed")
}

// CorpusInvalid wraps a knowledge corpus loading failure.
func CorpusInvalid(err error) error {
	return wrapKind(ErrCorpusInvalid, err, http.StatusInternalServerError, "knowledge corpus invalid")
}

// InvalidRequest reports a request validation failure with a user-safe reason.
func InvalidRequest(reason string) error {
	return New(fmt.Errorf("%w: %s", ErrInvalidRequest, reason), http.StatusBadRequest, reason)
}

func wrapKind(kind, err error, status int, message string) error {
	if err == nil {
		err = kind
	} else {
		err = fmt.Errorf("%w: %w", kind, err)
	}
	return New(err, status, message)
}

// WrapRedis maps Redis errors to AppError with appropriate status codes.
func WrapRedis(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.Nil) {
		return New(err, http.StatusNotFound, RedisNotFoundMessage)
	}
	return New(err, http.StatusBadGateway, RedisErrorMessage)
}

// Error codes carried on transport replies.
const (
	CodeClassificationUnavailable = "CLASSIFICATION_UNAVAILABLE"
	CodeRetrievalUnavailable      = "RETRIEVAL_UNAVAILABLE"
	CodeLeadSinkFailure           = "LEAD_SINK_FAILURE"
	CodeCorpusInvalid             = "CORPUS_INVALID"
	CodeInvalidRequest            = "INVALID_REQUEST"
	CodeInternal                  = "INTERNAL"
)

// Code returns a stable code for err, or "" when err is nil.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrClassificationUnavailable):
		return CodeClassificationUnavailable
	case errors.Is(err, ErrRetrievalUnavailable):
		return CodeRetrievalUnavailable
	case errors.Is(err, ErrLeadSinkFailure):
		return CodeLeadSinkFailure
	case errors.Is(err, ErrCorpusInvalid):
		return CodeCorpusInvalid
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	default:
		return CodeInternal
	}
}

// SafeMessage returns the user-safe message of an AppError in the chain, or the
// generic system message.
func SafeMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return SystemErrorMessage
}
