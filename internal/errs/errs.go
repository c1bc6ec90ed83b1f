// Package errs defines the coordinator's error taxonomy and its mapping
// onto gRPC status codes. Every error that crosses a service boundary is
// wrapped in a *Error carrying a Kind, so callers (tests included) can
// branch on kind rather than string-matching messages.
package errs

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind classifies a coordinator error for both gRPC status mapping and
// internal retry/compensation decisions.
type Kind int

const (
	Unknown Kind = iota
	KindInvalidArgument
	KindFailedPrecondition
	KindSequenceConflict
	KindTransient
	KindInternal
	KindUnavailable
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindFailedPrecondition:
		return "FailedPrecondition"
	case KindSequenceConflict:
		return "SequenceConflict"
	case KindTransient:
		return "Transient"
	case KindInternal:
		return "Internal"
	case KindUnavailable:
		return "Unavailable"
	case KindNotFound:
		return "NotFound"
	default:
		return "Unknown"
	}
}

// Error is the coordinator's canonical error type.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func new_(k Kind, msg string) error {
	return &Error{Kind: k, Message: msg}
}

// InvalidArgument reports a malformed request: bad cover, missing payload,
// non-monotonic sequence on ingress.
func InvalidArgument(msg string) error { return new_(KindInvalidArgument, msg) }

// FailedPrecondition reports a request that is well-formed but cannot be
// satisfied in the aggregate's current state (e.g. unknown edition fork).
func FailedPrecondition(msg string) error { return new_(KindFailedPrecondition, msg) }

// SequenceConflict reports an optimistic-concurrency collision: the
// aggregate's sequence advanced between read and append.
func SequenceConflict(msg string) error { return new_(KindSequenceConflict, msg) }

// Transient reports an error the caller should retry (handler timeout,
// momentarily unavailable backend).
func Transient(msg string) error { return new_(KindTransient, msg) }

// Internal reports a coordinator-side bug or invariant violation.
func Internal(msg string) error { return new_(KindInternal, msg) }

// Unavailable reports a downstream dependency (store, handler) that is down.
func Unavailable(msg string) error { return new_(KindUnavailable, msg) }

// NotFound reports a missing aggregate, edition, or checkpoint.
func NotFound(msg string) error { return new_(KindNotFound, msg) }

// Wrap attaches a Kind and cause to an underlying error from a dependency.
func Wrap(k Kind, msg string, cause error) error {
	return &Error{Kind: k, Message: msg, Cause: cause}
}

// KindOf extracts the Kind of err, walking the unwrap chain. Returns Unknown
// when neither err nor anything in its chain is a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err's Kind (anywhere in its chain) equals k.
func Is(err error, k Kind) bool {
	return KindOf(err) == k
}

// ToStatus maps a coordinator error onto a gRPC status, for returning from
// service handlers.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if !errors.As(err, &e) {
		return status.Error(codes.Unknown, err.Error())
	}
	var code codes.Code
	switch e.Kind {
	case KindInvalidArgument:
		code = codes.InvalidArgument
	case KindFailedPrecondition:
		code = codes.FailedPrecondition
	case KindSequenceConflict:
		code = codes.Aborted
	case KindTransient:
		code = codes.Unavailable
	case KindUnavailable:
		code = codes.Unavailable
	case KindNotFound:
		code = codes.NotFound
	case KindInternal:
		code = codes.Internal
	default:
		code = codes.Unknown
	}
	return status.Error(code, e.Error())
}

// FromStatus reconstructs a coordinator *Error from a gRPC status returned
// by a business-logic handler, so the dispatcher can reason about it using
// the same Kind taxonomy regardless of which side produced it.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return Wrap(KindUnavailable, "non-status error from remote handler", err)
	}
	var k Kind
	switch st.Code() {
	case codes.InvalidArgument:
		k = KindInvalidArgument
	case codes.FailedPrecondition:
		k = KindFailedPrecondition
	case codes.Aborted:
		k = KindSequenceConflict
	case codes.Unavailable, codes.DeadlineExceeded:
		k = KindUnavailable
	case codes.NotFound:
		k = KindNotFound
	case codes.Internal:
		k = KindInternal
	default:
		k = KindTransient
	}
	return Wrap(k, st.Message(), err)
}

// Retryable reports whether a dispatcher should retry an operation that
// failed with err.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindTransient, KindUnavailable:
		return true
	default:
		return false
	}
}
