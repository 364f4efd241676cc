package lowlevel

import (
	"errors"
	"fmt"

	"github.com/magnetde/starlark-onig/regex"
)

// Causes of usage errors.
var (
	ErrPatternType     = errors.New("pattern must be string or unicode")
	ErrSubjectType     = errors.New("string to match must be string or unicode")
	ErrEncodingForWide = errors.New("an encoding can only be given for non-unicode patterns")
	ErrRegexpRequired  = errors.New("regular expression object required")
	ErrMatchRequired   = errors.New("match state required")
	ErrNegativePos     = errors.New("pos must be >= 0")
	ErrInvalidEndpos   = errors.New("endpos must be >= -1, where -1 means the length of the string to match")
	ErrNoSuchGroup     = errors.New("no such group")
)

// UsageError is returned, if an operation is called with invalid arguments.
type UsageError struct {
	Op  string
	Err error
}

func (e *UsageError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

func usageError(op string, err error) *UsageError {
	return &UsageError{Op: op, Err: err}
}

// RegexpError is returned, if the engine rejects a pattern or fails while matching.
type RegexpError struct {
	Code    int
	Message string

	err *regex.Error
}

func newRegexpError(err error) error {
	var e *regex.Error
	if !errors.As(err, &e) {
		return err
	}

	return &RegexpError{
		Code:    e.Code,
		Message: e.Error(),
		err:     e,
	}
}

func (e *RegexpError) Error() string { return e.Message }

func (e *RegexpError) Unwrap() error {
	if e.err == nil {
		return nil
	}

	return e.err
}

// EncodingError is returned, if a subject cannot be converted with the default codec.
type EncodingError struct {
	Codec string
	Op    string // "encode" or "decode"
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("'%s' codec can't %s string: %v", e.Codec, e.Op, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// Kind classifies the errors of the binding.
type Kind int

const (
	KindNone     Kind = iota // no error
	KindType                 // an argument has the wrong type
	KindValue                // an argument has an invalid value
	KindIndex                // a group does not exist
	KindRegexp               // the engine reported an error
	KindEncoding             // a subject could not be converted
	KindOther
)

var kindNames = [...]string{
	KindNone:     "None",
	KindType:     "TypeError",
	KindValue:    "ValueError",
	KindIndex:    "IndexError",
	KindRegexp:   "RegexpError",
	KindEncoding: "UnicodeError",
	KindOther:    "RuntimeError",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// KindOf returns the kind of the error.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}

	var (
		ue *UsageError
		re *RegexpError
		ee *EncodingError
	)

	switch {
	case errors.As(err, &ue):
		switch {
		case errors.Is(ue.Err, ErrNegativePos), errors.Is(ue.Err, ErrInvalidEndpos):
			return KindValue
		case errors.Is(ue.Err, ErrNoSuchGroup):
			return KindIndex
		default:
			return KindType
		}
	case errors.As(err, &re):
		return KindRegexp
	case errors.As(err, &ee):
		return KindEncoding
	default:
		return KindOther
	}
}
