// Package apperr defines the closed error taxonomy shared by the transcript
// resolver and the AI proxy. The HTTP layer maps each Kind onto a status code;
// nothing below the HTTP layer knows about status codes except the upstream
// status carried by Upstream errors.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net"
)

type Kind int

const (
	// InvalidID means the input failed the 11-character video ID check.
	InvalidID Kind = iota
	// CaptionsDisabled means the video has captions turned off.
	CaptionsDisabled
	// NotFound means no usable caption track exists, or the video does not exist.
	NotFound
	// RateLimited means the upstream blocked or throttled the request.
	RateLimited
	// Validation means completion parameters were out of range.
	Validation
	// Upstream means the generation service returned a non-success response
	// or an empty result.
	Upstream
	// Timeout means an external call exceeded its time budget.
	Timeout
	// Unavailable means a transport-level failure reaching an external service.
	Unavailable
)

func (k Kind) String() string {
	switch k {
	case InvalidID:
		return "invalid_id"
	case CaptionsDisabled:
		return "captions_disabled"
	case NotFound:
		return "not_found"
	case RateLimited:
		return "rate_limited"
	case Validation:
		return "validation"
	case Upstream:
		return "upstream"
	case Timeout:
		return "timeout"
	case Unavailable:
		return "unavailable"
	}
	return "unknown"
}

// Error is a typed failure crossing the core boundary.
type Error struct {
	Kind    Kind
	Message string
	Hint    string // optional user-facing hint
	VideoID string // set for transcript errors
	Status  int    // upstream HTTP status, Upstream kind only
	Err     error  // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error that keeps its cause for errors.Is/As chains.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf reports the Kind of err, if err is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is lets callers match errors by kind: errors.Is(err, &Error{Kind: NotFound}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// FromTransport classifies a transport failure as Timeout or Unavailable.
// Deadline and net timeouts are retryable by the caller; everything else is
// a plain availability failure.
func FromTransport(err error, format string, args ...any) *Error {
	kind := Unavailable
	var nerr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		kind = Timeout
	}
	return Wrap(kind, err, format, args...)
}
