package onig

import (
	"errors"

	"go.starlark.net/starlark"

	"github.com/magnetde/starlark-onig/lowlevel"
)

// strOrBytes is a Starlark string or bytes value.
type strOrBytes struct {
	value    string
	isString bool
}

var (
	_ starlark.Unpacker = (*strOrBytes)(nil)
	_ starlark.Unpacker = (*patternParam)(nil)
)

func (s *strOrBytes) Unpack(v starlark.Value) error {
	switch t := v.(type) {
	case starlark.String:
		s.value = string(t)
		s.isString = true
	case starlark.Bytes:
		s.value = string(t)
		s.isString = false
	default:
		return typeError("got %s, want str or bytes", v.Type())
	}

	return nil
}

// lowlevel converts the value into the subject type of the binding.
// Strings are matched in wide mode, so positions count code points.
func (s strOrBytes) lowlevel() lowlevel.String {
	if s.isString {
		return lowlevel.WideString(s.value)
	}

	return lowlevel.Bytes([]byte(s.value))
}

func (s strOrBytes) starlark() starlark.Value {
	if s.isString {
		return starlark.String(s.value)
	}

	return starlark.Bytes(s.value)
}

func (s strOrBytes) typeString() string {
	if s.isString {
		return "str"
	}

	return "bytes"
}

// fromLowlevel converts a string of the binding into a Starlark value.
func fromLowlevel(s lowlevel.String) starlark.Value {
	if s.IsWide() {
		return starlark.String(s.String())
	}

	return starlark.Bytes(s.Bytes())
}

// emptyOf returns an empty string of the same type as s.
func emptyOf(s lowlevel.String) lowlevel.String {
	if s.IsWide() {
		return lowlevel.Wide(nil)
	}

	return lowlevel.Bytes(nil)
}

// concat joins strings of the same type.
func concat(ref lowlevel.String, parts []lowlevel.String) lowlevel.String {
	if ref.IsWide() {
		var n int
		for _, p := range parts {
			n += p.Len()
		}

		r := make([]rune, 0, n)
		for _, p := range parts {
			r = append(r, p.Runes()...)
		}

		return lowlevel.Wide(r)
	}

	var n int
	for _, p := range parts {
		n += p.Len()
	}

	b := make([]byte, 0, n)
	for _, p := range parts {
		b = append(b, p.Bytes()...)
	}

	return lowlevel.Bytes(b)
}

// patternParam is a Starlark type, representing the possible types of the pattern parameter.
type patternParam struct {
	compiled *Regexp
	raw      strOrBytes
}

func (p *patternParam) Unpack(v starlark.Value) error {
	if c, ok := v.(*Regexp); ok {
		p.compiled = c
		return nil
	}

	err := p.raw.Unpack(v)
	if err != nil {
		return errors.New("first argument must be string or compiled pattern")
	}

	return nil
}

// optionalInt is an integer parameter, that remembers whether it was given.
type optionalInt struct {
	value int
	set   bool
}

var _ starlark.Unpacker = (*optionalInt)(nil)

func (o *optionalInt) Unpack(v starlark.Value) error {
	if v == starlark.None {
		*o = optionalInt{}
		return nil
	}

	if err := starlark.AsInt(v, &o.value); err != nil {
		return err
	}

	o.set = true
	return nil
}

// or returns the value, if it is set, and def otherwise.
func (o optionalInt) or(def int) int {
	if o.set {
		return o.value
	}

	return def
}
