// Package facade translates tool-level intents ("add a table", "format a
// cell") into mutations of the document model. It holds no state; callers
// validate indices first.
package facade

import (
	"fmt"
	"strings"
)

// Attempt is one strategy in an ordered fallback chain.
type Attempt[T any] struct {
	Description string
	Run         func() (T, error)
}

// Failure records a strategy that did not succeed.
type Failure struct {
	Description string
	Err         error
}

func (f Failure) String() string {
	return fmt.Sprintf("%s failed: %v", f.Description, f.Err)
}

// AttemptsError is returned when every strategy in a chain failed.
type AttemptsError struct {
	Op       string
	Failures []Failure
}

func (e *AttemptsError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("%s: %v", f.Description, f.Err)
	}
	msg := fmt.Sprintf("Failed to %s after trying %d approaches: %s", e.Op, len(e.Failures), strings.Join(parts, "; "))
	if last := e.Unwrap(); last != nil {
		msg += fmt.Sprintf(". Last error: %v", last)
	}
	return msg
}

func (e *AttemptsError) Unwrap() error {
	if len(e.Failures) == 0 {
		return nil
	}
	return e.Failures[len(e.Failures)-1].Err
}

// TryInOrder runs attempts until one succeeds. It returns the first result
// together with the failures that preceded it. When every attempt fails the
// error is an *AttemptsError carrying all of them.
func TryInOrder[T any](op string, attempts ...Attempt[T]) (T, []Failure, error) {
	var failures []Failure
	for _, a := range attempts {
		v, err := runAttempt(a)
		if err == nil {
			return v, failures, nil
		}
		failures = append(failures, Failure{Description: a.Description, Err: err})
	}
	var zero T
	return zero, failures, &AttemptsError{Op: op, Failures: failures}
}

// runAttempt converts a panicking strategy into a failure so the chain
// moves on to the next one.
func runAttempt[T any](a Attempt[T]) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return a.Run()
}
