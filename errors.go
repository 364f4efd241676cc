package onig

import (
	"errors"
	"fmt"

	"github.com/magnetde/starlark-onig/lowlevel"
)

// starlarkError converts an error of the binding into the error of a builtin.
// The message is prefixed with the kind of the error, for example "RegexpError: ...".
// Other errors are returned unchanged.
func starlarkError(err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return err
	}

	k := lowlevel.KindOf(err)
	if k == lowlevel.KindOther {
		return err
	}

	msg := err.Error()

	var ue *lowlevel.UsageError
	if errors.As(err, &ue) {
		msg = ue.Err.Error()
	}

	return &Error{Kind: k, Msg: msg, err: err}
}

// Error is an error of the module, as seen by Starlark scripts.
type Error struct {
	Kind lowlevel.Kind
	Msg  string

	err error
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.Msg }
func (e *Error) Unwrap() error { return e.err }

// Errors of the host layer.
func typeError(format string, args ...any) error {
	return &Error{Kind: lowlevel.KindType, Msg: fmt.Sprintf(format, args...)}
}

func indexError(format string, args ...any) error {
	return &Error{Kind: lowlevel.KindIndex, Msg: fmt.Sprintf(format, args...)}
}

func runtimeError(msg string) error {
	return &Error{Kind: lowlevel.KindOther, Msg: msg}
}
