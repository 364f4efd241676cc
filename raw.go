package onig

import (
	"fmt"
	"slices"

	"go.starlark.net/starlark"

	"github.com/magnetde/starlark-onig/lowlevel"
)

// MatchState is the raw result of `regexp_match`. It is wrapped by the `Match` objects.
type MatchState struct {
	re  *Regexp
	st  *lowlevel.MatchState
	str starlark.Value // subject, as given by the caller
}

var (
	_ starlark.Value    = (*MatchState)(nil)
	_ starlark.HasAttrs = (*MatchState)(nil)
)

func (s *MatchState) String() string {
	return fmt.Sprintf("<MatchState %d/%d>", s.st.Pos(), s.st.Endpos())
}

func (s *MatchState) Type() string          { return "MatchState" }
func (s *MatchState) Freeze()               {}
func (s *MatchState) Truth() starlark.Bool  { return true }
func (s *MatchState) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable: %s", s.Type()) }

var matchStateMembers = map[string]func(s *MatchState) starlark.Value{
	"regexp": func(s *MatchState) starlark.Value { return s.re },
	"string": func(s *MatchState) starlark.Value { return s.str },
	"pos":    func(s *MatchState) starlark.Value { return starlark.MakeInt(s.st.Pos()) },
	"endpos": func(s *MatchState) starlark.Value { return starlark.MakeInt(s.st.Endpos()) },
}

func (s *MatchState) Attr(name string) (starlark.Value, error) {
	if o, ok := matchStateMembers[name]; ok {
		return o(s), nil
	}

	return nil, nil
}

func (s *MatchState) AttrNames() []string {
	names := make([]string, 0, len(matchStateMembers))
	for name := range matchStateMembers {
		names = append(names, name)
	}

	slices.Sort(names)
	return names
}

// asState returns the lowlevel state of a value or nil, if the value is no match state.
func asState(v starlark.Value) *lowlevel.MatchState {
	switch t := v.(type) {
	case *MatchState:
		return t.st
	case *Match:
		return t.state.st
	default:
		return nil
	}
}

// asSubject returns the lowlevel string of a value. Invalid values return an invalid string.
func asSubject(v starlark.Value) lowlevel.String {
	switch t := v.(type) {
	case starlark.String:
		return lowlevel.WideString(string(t))
	case starlark.Bytes:
		return lowlevel.Bytes([]byte(t))
	default:
		return lowlevel.String{}
	}
}

// rawRegexpMatch matches a regexp against a string and returns the match state or `None`.
// Arguments, that have the wrong type, are rejected by the binding.
func rawRegexpMatch(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		regexp, str starlark.Value
		pos         = 0
		endpos      = -1
		anchored    = false
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "regexp", &regexp, "string", &str, "pos?", &pos, "endpos?", &endpos, "anchored?", &anchored); err != nil {
		return nil, err
	}

	r, _ := regexp.(*Regexp)

	var re *lowlevel.Regexp
	if r != nil {
		re = r.re
	}

	st, err := lowlevel.Invoke(re, asSubject(str), pos, endpos, anchored)
	if err != nil {
		return nil, starlarkError(err)
	}
	if st == nil {
		return starlark.None, nil
	}

	return &MatchState{re: r, st: st, str: str}, nil
}

// rawMatchGetGroups returns the spans of all groups of a match state.
func rawMatchGetGroups(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var state starlark.Value
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "state", &state); err != nil {
		return nil, err
	}

	spans, err := lowlevel.Groups(asState(state))
	if err != nil {
		return nil, starlarkError(err)
	}

	t := make(starlark.Tuple, len(spans))
	for i, s := range spans {
		t[i] = spanTuple(s)
	}

	return t, nil
}

// rawMatchGetGroupNames returns a dict, mapping the group names to their numbers.
func rawMatchGetGroupNames(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var state starlark.Value
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "state", &state); err != nil {
		return nil, err
	}

	index, err := lowlevel.GroupNames(asState(state))
	if err != nil {
		return nil, starlarkError(err)
	}

	names := make([]string, 0, len(index))
	for name := range index {
		names = append(names, name)
	}

	slices.SortFunc(names, func(a, b string) int { return index[a] - index[b] })

	return groupNamesDict(names, index), nil
}

// rawMatchExtractGroup returns the text of a group or `None`.
func rawMatchExtractGroup(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		state starlark.Value
		group int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "state", &state, "group", &group); err != nil {
		return nil, err
	}

	s, ok, err := lowlevel.ExtractGroup(asState(state), group)
	if err != nil {
		return nil, starlarkError(err)
	}
	if !ok {
		return starlark.None, nil
	}

	return fromLowlevel(s), nil
}

// newMatchFromState wraps a match state in a `Match` object.
func newMatchFromState(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var state starlark.Value
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "state", &state); err != nil {
		return nil, err
	}

	s, ok := state.(*MatchState)
	if !ok {
		return nil, starlarkError(&lowlevel.UsageError{Op: b.Name(), Err: lowlevel.ErrMatchRequired})
	}

	return wrapState(s), nil
}
