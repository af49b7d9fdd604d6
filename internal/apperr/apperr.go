package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a command failure.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindState       Kind = "state"
	KindParticipant Kind = "participant"
	KindMatch       Kind = "match"
	KindPrediction  Kind = "prediction"
	KindResult      Kind = "result"
	KindPrize       Kind = "prize"
	KindDatabase    Kind = "database"
	KindExport      Kind = "export"
	KindNotFound    Kind = "not_found"
)

// Error is the single typed error returned at the command boundary.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, format, args...)
}

func State(format string, args ...interface{}) *Error {
	return New(KindState, format, args...)
}

func Participant(format string, args ...interface{}) *Error {
	return New(KindParticipant, format, args...)
}

func Match(format string, args ...interface{}) *Error {
	return New(KindMatch, format, args...)
}

func Prediction(format string, args ...interface{}) *Error {
	return New(KindPrediction, format, args...)
}

func Result(format string, args ...interface{}) *Error {
	return New(KindResult, format, args...)
}

func Prize(format string, args ...interface{}) *Error {
	return New(KindPrize, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, format, args...)
}

func Database(err error, format string, args ...interface{}) *Error {
	return Wrap(KindDatabase, err, format, args...)
}

func Export(err error, format string, args ...interface{}) *Error {
	return Wrap(KindExport, err, format, args...)
}

// KindOf returns the kind of the first *Error in err's chain, or an empty kind.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// AsDatabase keeps typed errors intact and classifies anything else as a
// persistence failure.
func AsDatabase(err error, action string) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return Database(err, "failed to %s", action)
}
