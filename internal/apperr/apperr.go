// Package apperr defines the error kinds streakkeeper reports to its callers.
package apperr

import (
	"errors"
	"fmt"
)

// Kind distinguishes the failure classes a caller may react to.
type Kind string

const (
	KindStoreNotFound      Kind = "store_not_found"
	KindDeckNotFound       Kind = "deck_not_found"
	KindInvalidDateFormat  Kind = "invalid_date_format"
	KindInvalidDateRange   Kind = "invalid_date_range"
	KindTimestampCollision Kind = "timestamp_collision"
	KindPersistenceFailure Kind = "persistence_failure"
	KindInvalidOption      Kind = "invalid_option"
)

// Sentinel errors, one per kind, for use with errors.Is.
var (
	ErrStoreNotFound      = errors.New("collection not found")
	ErrDeckNotFound       = errors.New("deck not found")
	ErrInvalidDateFormat  = errors.New("invalid date format")
	ErrInvalidDateRange   = errors.New("invalid date range")
	ErrTimestampCollision = errors.New("timestamp collision")
	ErrPersistenceFailure = errors.New("persistence failure")
	ErrInvalidOption      = errors.New("invalid option")
)

var sentinels = map[Kind]error{
	KindStoreNotFound:      ErrStoreNotFound,
	KindDeckNotFound:       ErrDeckNotFound,
	KindInvalidDateFormat:  ErrInvalidDateFormat,
	KindInvalidDateRange:   ErrInvalidDateRange,
	KindTimestampCollision: ErrTimestampCollision,
	KindPersistenceFailure: ErrPersistenceFailure,
	KindInvalidOption:      ErrInvalidOption,
}

// Error carries a kind, a human readable detail and an optional cause.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

// New creates an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind around an underlying cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	msg := e.Detail
	if msg == "" {
		if s, ok := sentinels[e.Kind]; ok {
			msg = s.Error()
		} else {
			msg = string(e.Kind)
		}
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of the same kind.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && target == s
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case KindInvalidOption:
		return 2
	case KindStoreNotFound:
		return 3
	case KindDeckNotFound:
		return 4
	case KindInvalidDateFormat:
		return 5
	case KindInvalidDateRange:
		return 6
	case KindTimestampCollision:
		return 7
	case KindPersistenceFailure:
		return 8
	default:
		return 1
	}
}
