package onig

import (
	"fmt"
	"slices"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/magnetde/starlark-onig/lowlevel"
)

// Regexp is a starlark representation of a compiled pattern.
type Regexp struct {
	re      *lowlevel.Regexp
	pattern strOrBytes

	names []string       // group names in the order of their definition
	index map[string]int // group numbers of the names
}

func newRegexp(re *lowlevel.Regexp, pattern strOrBytes) *Regexp {
	names, index := re.Names()

	r := Regexp{
		re:      re,
		pattern: pattern,
		names:   names,
		index:   index,
	}

	return &r
}

// Check, if the type satisfies the interfaces.
var (
	_ starlark.Value      = (*Regexp)(nil)
	_ starlark.HasAttrs   = (*Regexp)(nil)
	_ starlark.Comparable = (*Regexp)(nil)
)

func (r *Regexp) String() string {
	return "Regexp(" + r.pattern.starlark().String() + ")"
}

func (r *Regexp) Type() string         { return "Regexp" }
func (r *Regexp) Freeze()              {}
func (r *Regexp) Truth() starlark.Bool { return true }

func (r *Regexp) Hash() (uint32, error) {
	h, err := r.pattern.starlark().Hash()
	if err != nil {
		return 0, err
	}

	h ^= uint32(r.re.Options())
	h ^= uint32(lowlevel.EncodingCode(r.re.Encoding())) << 16
	h ^= uint32(lowlevel.SyntaxCode(r.re.Syntax())) << 24

	return h, nil
}

// Methods of the regexp object.
var regexpMethods = map[string]*starlark.Builtin{
	"match":       starlark.NewBuiltin("match", regexpMatch),
	"search":      starlark.NewBuiltin("search", regexpSearch),
	"find":        starlark.NewBuiltin("find", regexpFind),
	"findstrings": starlark.NewBuiltin("findstrings", regexpFindstrings),
	"sub":         starlark.NewBuiltin("sub", regexpSub),
	"subn":        starlark.NewBuiltin("subn", regexpSub),
	"split":       starlark.NewBuiltin("split", regexpSplit),
}

// regexpMembers contains members of the regexp object.
var regexpMembers = map[string]func(r *Regexp) starlark.Value{
	"pattern":      func(r *Regexp) starlark.Value { return r.pattern.starlark() },
	"flags":        func(r *Regexp) starlark.Value { return starlark.MakeUint64(uint64(r.re.Options())) },
	"unicode_mode": func(r *Regexp) starlark.Value { return starlark.Bool(r.re.UnicodeMode()) },
	"encoding":     func(r *Regexp) starlark.Value { return starlark.MakeInt(lowlevel.EncodingCode(r.re.Encoding())) },
	"syntax":       func(r *Regexp) starlark.Value { return starlark.MakeInt(lowlevel.SyntaxCode(r.re.Syntax())) },
	"groups":       func(r *Regexp) starlark.Value { return starlark.MakeInt(r.re.NumberOfCaptures()) },
}

// Attr gets a value for a string attribute.
func (r *Regexp) Attr(name string) (starlark.Value, error) {
	if o, ok := regexpMethods[name]; ok {
		return o.BindReceiver(r), nil
	}

	if o, ok := regexpMembers[name]; ok {
		return o(r), nil
	}

	return nil, nil
}

// AttrNames lists available dot expression strings.
func (r *Regexp) AttrNames() []string {
	names := make([]string, 0, len(regexpMethods)+len(regexpMembers))

	for name := range regexpMethods {
		names = append(names, name)
	}
	for name := range regexpMembers {
		names = append(names, name)
	}

	slices.Sort(names)
	return names
}

func (r *Regexp) CompareSameType(op syntax.Token, y starlark.Value, _ int) (bool, error) {
	o := y.(*Regexp)

	switch op {
	case syntax.EQL:
		return regexpEquals(r, o), nil
	case syntax.NEQ:
		return !regexpEquals(r, o), nil
	default:
		return false, fmt.Errorf("%s %s %s not implemented", r.Type(), op, o.Type())
	}
}

func regexpEquals(x, y *Regexp) bool {
	return x.pattern == y.pattern &&
		x.re.Options() == y.re.Options() &&
		x.re.Encoding() == y.re.Encoding() &&
		x.re.Syntax() == y.re.Syntax()
}

// invoke matches the regexp against the subject and returns the match or `nil`.
// The `string` attribute of the match returns orig, the subject as given by the caller.
func (r *Regexp) invoke(subject lowlevel.String, orig starlark.Value, pos, endpos int, anchored bool) (*Match, error) {
	st, err := lowlevel.Invoke(r.re, subject, pos, endpos, anchored)
	if err != nil {
		return nil, starlarkError(err)
	}
	if st == nil {
		return nil, nil
	}

	return newMatch(r, st, orig), nil
}

// convert converts the subject into the type of the pattern.
func (r *Regexp) convert(subject strOrBytes) (lowlevel.String, error) {
	s, err := lowlevel.DefaultCodec().Convert(subject.lowlevel(), r.re.UnicodeMode())
	if err != nil {
		return lowlevel.String{}, starlarkError(err)
	}

	return s, nil
}

// rangeParams unpacks the common `string, pos=0, endpos=-1` parameters.
func rangeParams(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (strOrBytes, int, int, error) {
	var (
		str    strOrBytes
		pos    = 0
		endpos = -1
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "string", &str, "pos?", &pos, "endpos?", &endpos); err != nil {
		return strOrBytes{}, 0, 0, err
	}

	return str, pos, endpos, nil
}

// regexpMatch returns a `Match`, if zero or more characters at `pos` match the pattern; otherwise `None`.
func regexpMatch(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	str, pos, endpos, err := rangeParams(b, args, kwargs)
	if err != nil {
		return nil, err
	}

	r := b.Receiver().(*Regexp)
	return matchOrNone(r.invoke(str.lowlevel(), str.starlark(), pos, endpos, true))
}

// regexpSearch scans through the string looking for the first location where the pattern produces a match.
// Returns `None` if no position in the range matches the pattern.
func regexpSearch(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	str, pos, endpos, err := rangeParams(b, args, kwargs)
	if err != nil {
		return nil, err
	}

	r := b.Receiver().(*Regexp)
	return matchOrNone(r.invoke(str.lowlevel(), str.starlark(), pos, endpos, false))
}

func matchOrNone(m *Match, err error) (starlark.Value, error) {
	if err != nil {
		return nil, err
	}
	if m == nil {
		return starlark.None, nil
	}

	return m, nil
}

// regexpFind returns a list of all non-overlapping matches in the string.
func regexpFind(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	str, pos, endpos, err := rangeParams(b, args, kwargs)
	if err != nil {
		return nil, err
	}

	r := b.Receiver().(*Regexp)

	var l []starlark.Value

	err = r.find(str, pos, endpos, func(m *Match) bool {
		l = append(l, m)
		return true
	})
	if err != nil {
		return nil, err
	}

	return starlark.NewList(l), nil
}

// regexpFindstrings is like `find`, but returns the matched strings.
func regexpFindstrings(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	str, pos, endpos, err := rangeParams(b, args, kwargs)
	if err != nil {
		return nil, err
	}

	r := b.Receiver().(*Regexp)

	var l []starlark.Value

	err = r.find(str, pos, endpos, func(m *Match) bool {
		v, _ := m.groupValue(0)
		l = append(l, v)
		return true
	})
	if err != nil {
		return nil, err
	}

	return starlark.NewList(l), nil
}

// regexpSub replaces the leftmost non-overlapping matches by the replacement.
// If the name of the builtin is "subn", the return value is the tuple `(new_string, number_of_subs_made)`.
func regexpSub(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		repl   starlark.Value
		str    strOrBytes
		count  = 0
		pos    = 0
		endpos = -1
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "repl", &repl, "string", &str, "count?", &count, "pos?", &pos, "endpos?", &endpos); err != nil {
		return nil, err
	}

	r := b.Receiver().(*Regexp)
	return r.sub(thread, repl, str, count, pos, endpos, b.Name() == "subn")
}

// regexpSplit splits the string by the occurrences of the pattern.
func regexpSplit(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		str      strOrBytes
		maxSplit = 0
		pos      = 0
		endpos   = -1
		flat     = false
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "string", &str, "maxsplit?", &maxSplit, "pos?", &pos, "endpos?", &endpos, "flat?", &flat); err != nil {
		return nil, err
	}

	r := b.Receiver().(*Regexp)
	return r.split(str, maxSplit, pos, endpos, flat)
}
