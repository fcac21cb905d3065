package session

import (
	"errors"
	"fmt"
	"os"

	"github.com/VantageDataChat/slidesmith"
	"github.com/VantageDataChat/slidesmith/internal/facade"
	"github.com/VantageDataChat/slidesmith/internal/render"
	"github.com/VantageDataChat/slidesmith/internal/validate"
)

// Kind classifies a session failure for the tool caller.
type Kind string

const (
	KindNotLoaded           Kind = "not_loaded"
	KindOutOfRange          Kind = "out_of_range"
	KindInvalidArgument     Kind = "invalid_argument"
	KindNotFound            Kind = "not_found"
	KindExternalToolFailure Kind = "external_tool_failure"
	// KindPartialFailure marks a successful result that carries warnings.
	// It is never the Kind of an *Error.
	KindPartialFailure Kind = "partial_failure"
	KindInternal       Kind = "internal"
)

// Error is the only error type returned by Session methods.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Err }

func errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

var errNotLoaded = &Error{Kind: KindNotLoaded, Msg: "No presentation is currently loaded"}

// classify wraps an error from the lower layers. prefix, when set, is
// prepended to the message the way the tool reports it.
func classify(err error, prefix string) *Error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	msg := err.Error()
	if prefix != "" {
		msg = prefix + ": " + msg
	}
	var (
		fieldErr *validate.FieldError
		argErr   *facade.ArgumentError
		stageErr *render.StageError
	)
	kind := KindInternal
	switch {
	case errors.As(err, &fieldErr), errors.As(err, &argErr):
		kind = KindInvalidArgument
		msg = err.Error()
	case errors.As(err, &stageErr):
		kind = KindExternalToolFailure
		if stageErr.Stage == render.StageExporting && errors.Is(err, slidesmith.ErrOutOfRange) {
			kind = KindOutOfRange
		}
	case errors.Is(err, slidesmith.ErrOutOfRange):
		kind = KindOutOfRange
	case errors.Is(err, slidesmith.ErrShapeNotFound),
		errors.Is(err, facade.ErrImageNotFound),
		errors.Is(err, os.ErrNotExist):
		kind = KindNotFound
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}
