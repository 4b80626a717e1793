// Package errors wraps stdlib errors and pkg/errors behind one import so
// callers get stack traces on Wrap/Errorf and sentinel matching on Is/As.
package errors

import (
	stderrors "errors"

	pkgerrors "github.com/pkg/errors"
)

func New(text string) error {
	return stderrors.New(text)
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// AsType returns the first error in err's chain assignable to T.
func AsType[T error](err error) (T, bool) {
	var target T
	if stderrors.As(err, &target) {
		return target, true
	}

	return target, false
}

func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// Wrap annotates err with a stack trace and message. It returns nil when err is nil.
func Wrap(err error, message string) error {
	return pkgerrors.Wrap(err, message)
}

func Wrapf(err error, format string, args ...any) error {
	return pkgerrors.Wrapf(err, format, args...)
}

func WithStack(err error) error {
	return pkgerrors.WithStack(err)
}

// Errorf formats a new error carrying a stack trace.
func Errorf(format string, args ...any) error {
	return pkgerrors.Errorf(format, args...)
}

//nolint:wrapcheck // passthrough keeps pkg/errors semantics
func Cause(err error) error {
	return pkgerrors.Cause(err)
}
