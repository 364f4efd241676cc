package onig

import (
	"fmt"
	"slices"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/magnetde/starlark-onig/lowlevel"
)

var zeroInt = starlark.MakeInt(0)

// Match is the result of a successful match.
type Match struct {
	state *MatchState

	spans []lowlevel.Span
	names []string       // group names in the order of their definition
	index map[string]int // group numbers of the names
}

// newMatch creates a new match object.
// If `orig` is nil, the `string` attribute is the subject converted into the type of the pattern.
func newMatch(r *Regexp, st *lowlevel.MatchState, orig starlark.Value) *Match {
	if orig == nil {
		orig = fromLowlevel(st.Subject())
	}

	return wrapState(&MatchState{re: r, st: st, str: orig})
}

// wrapState creates a match object for a match state.
func wrapState(s *MatchState) *Match {
	spans, _ := lowlevel.Groups(s.st) // state is not nil

	m := Match{
		state: s,
		spans: spans,
		names: s.re.names,
		index: s.re.index,
	}

	return &m
}

// Check, if the type satisfies the interfaces.
var (
	_ starlark.Value      = (*Match)(nil)
	_ starlark.HasAttrs   = (*Match)(nil)
	_ starlark.Mapping    = (*Match)(nil)
	_ starlark.Sequence   = (*Match)(nil)
	_ starlark.Comparable = (*Match)(nil)
)

func (m *Match) String() string {
	s := m.spans[0]
	return fmt.Sprintf("<Match groups: %d, span: (%d, %d)>", m.Len(), s.Begin, s.End)
}

func (m *Match) Type() string         { return "Match" }
func (m *Match) Freeze()              {}
func (m *Match) Truth() starlark.Bool { return true } // also for matches without groups

func (m *Match) Hash() (uint32, error) {
	h, err := m.state.re.Hash()
	if err != nil {
		return 0, err
	}

	for _, s := range m.spans {
		h ^= uint32(s.Begin)<<16 ^ uint32(s.End)
		h *= 16777619
	}

	return h, nil
}

// Len returns the number of groups without the whole match.
func (m *Match) Len() int { return len(m.spans) - 1 }

// Iterate iterates over the values of the groups.
func (m *Match) Iterate() starlark.Iterator {
	return m.groups(starlark.None).Iterate()
}

// matchMethods contains methods of the match object.
var matchMethods = map[string]*starlark.Builtin{
	"expand": starlark.NewBuiltin("expand", matchExpand),
	"group":  starlark.NewBuiltin("group", matchGroup),
	"span":   starlark.NewBuiltin("span", matchSpan),
	"start":  starlark.NewBuiltin("start", matchStart),
	"end":    starlark.NewBuiltin("end", matchEnd),
}

// matchMembers contains members of the match object.
var matchMembers = map[string]func(m *Match) starlark.Value{
	"spans": func(m *Match) starlark.Value {
		t := make(starlark.Tuple, len(m.spans))
		for i, s := range m.spans {
			t[i] = spanTuple(s)
		}

		return t
	},
	"groupnames": func(m *Match) starlark.Value { return groupNamesDict(m.names, m.index) },
	"groups":     func(m *Match) starlark.Value { return m.groups(starlark.None) },
	"groupdict": func(m *Match) starlark.Value {
		d := starlark.NewDict(len(m.names))
		for _, name := range m.names {
			v, _ := m.groupValue(m.index[name])
			_ = d.SetKey(starlark.String(name), v)
		}

		return d
	},
	"lastindex": func(m *Match) starlark.Value {
		i := m.lastIndex()
		if i < 0 {
			return starlark.None
		}

		return starlark.MakeInt(i)
	},
	"lastgroup": func(m *Match) starlark.Value {
		i := m.lastIndex()
		if i < 0 {
			return starlark.None
		}

		for _, name := range m.names {
			if m.index[name] == i {
				return starlark.String(name)
			}
		}

		return starlark.None
	},
	"re":     func(m *Match) starlark.Value { return m.state.re },
	"string": func(m *Match) starlark.Value { return m.state.str },
	"pos":    func(m *Match) starlark.Value { return starlark.MakeInt(m.state.st.Pos()) },
	"endpos": func(m *Match) starlark.Value { return starlark.MakeInt(m.state.st.Endpos()) },
	"state":  func(m *Match) starlark.Value { return m.state },
}

// Attr gets a value for a string attribute.
func (m *Match) Attr(name string) (starlark.Value, error) {
	if o, ok := matchMethods[name]; ok {
		return o.BindReceiver(m), nil
	}

	if o, ok := matchMembers[name]; ok {
		return o(m), nil
	}

	return nil, nil
}

// AttrNames lists available dot expression strings.
func (m *Match) AttrNames() []string {
	names := make([]string, 0, len(matchMethods)+len(matchMembers))

	for name := range matchMethods {
		names = append(names, name)
	}
	for name := range matchMembers {
		names = append(names, name)
	}

	slices.Sort(names)
	return names
}

// Get returns the value corresponding to the specified key.
// For the match object, this is equals with calling the `group` function.
func (m *Match) Get(v starlark.Value) (starlark.Value, bool, error) {
	g, err := m.group(v)
	if err != nil {
		return nil, false, err
	}

	return g, true, nil
}

// Two matches are equal, if they were produced by the same match operation.
func (m *Match) CompareSameType(op syntax.Token, y starlark.Value, _ int) (bool, error) {
	o := y.(*Match)

	switch op {
	case syntax.EQL:
		return m.state == o.state, nil
	case syntax.NEQ:
		return m.state != o.state, nil
	default:
		return false, fmt.Errorf("%s %s %s not implemented", m.Type(), op, o.Type())
	}
}

// lastIndex returns the index of the group, that ended last, or -1.
func (m *Match) lastIndex() int {
	idx, end := -1, -1
	for i, s := range m.spans[1:] {
		if s.End > end {
			idx, end = i+1, s.End
		}
	}

	return idx
}

func (m *Match) groups(def starlark.Value) starlark.Tuple {
	t := make(starlark.Tuple, 0, m.Len())
	for i := 1; i < len(m.spans); i++ {
		v, _ := m.groupValue(i)
		if v == starlark.None {
			v = def
		}

		t = append(t, v)
	}

	return t
}

// getIndex returns the index of a group, given by its number or its name.
func (m *Match) getIndex(v starlark.Value) (int, error) {
	switch t := v.(type) {
	case starlark.Int:
		i, ok := t.Int64()
		if ok && i >= 0 && i < int64(len(m.spans)) {
			return int(i), nil
		}
	case starlark.String:
		if i, ok := m.index[string(t)]; ok {
			return i, nil
		}
	default:
		return 0, typeError("group index must be int or str, got %s", v.Type())
	}

	return 0, indexError("no such group: %s", v)
}

func (m *Match) group(v starlark.Value) (starlark.Value, error) {
	i, err := m.getIndex(v)
	if err != nil {
		return nil, err
	}

	return m.groupValue(i)
}

// groupValue returns the text of a group or `None`, if the group did not participate in the match.
func (m *Match) groupValue(i int) (starlark.Value, error) {
	s, ok, err := lowlevel.ExtractGroup(m.state.st, i)
	if err != nil {
		return nil, starlarkError(err)
	}
	if !ok {
		return starlark.None, nil
	}

	return fromLowlevel(s), nil
}

// groupString is like groupValue, but returns the raw string; unset groups are empty.
func (m *Match) groupString(i int) (lowlevel.String, error) {
	s, ok, err := lowlevel.ExtractGroup(m.state.st, i)
	if err != nil {
		return lowlevel.String{}, starlarkError(err)
	}
	if !ok {
		return emptyOf(m.state.st.Subject()), nil
	}

	return s, nil
}

func (m *Match) span(v starlark.Value) (lowlevel.Span, error) {
	i, err := m.getIndex(v)
	if err != nil {
		return lowlevel.Span{}, err
	}

	return m.spans[i], nil
}

func spanTuple(s lowlevel.Span) starlark.Tuple {
	return starlark.Tuple{starlark.MakeInt(s.Begin), starlark.MakeInt(s.End)}
}

func groupNamesDict(names []string, index map[string]int) *starlark.Dict {
	d := starlark.NewDict(len(names))
	for _, name := range names {
		_ = d.SetKey(starlark.String(name), starlark.MakeInt(index[name]))
	}

	return d
}

func matchExpand(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var template strOrBytes
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "template", &template); err != nil {
		return nil, err
	}

	m := b.Receiver().(*Match)

	t, err := m.state.re.convert(template)
	if err != nil {
		return nil, err
	}

	s, err := parseTemplate(t).expand(m)
	if err != nil {
		return nil, err
	}

	return fromLowlevel(s), nil
}

func matchGroup(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), nil, kwargs); err != nil {
		return nil, err
	}

	m := b.Receiver().(*Match)
	size := len(args)

	switch size {
	case 0:
		return m.group(zeroInt)
	case 1:
		return m.group(args[0])
	default:
		result := make(starlark.Tuple, size)

		for i := range result {
			g, err := m.group(args[i])
			if err != nil {
				return nil, err
			}

			result[i] = g
		}

		return result, nil
	}
}

func matchSpan(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var group starlark.Value = zeroInt
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "group?", &group); err != nil {
		return nil, err
	}

	s, err := b.Receiver().(*Match).span(group)
	if err != nil {
		return nil, err
	}

	return spanTuple(s), nil
}

func matchStart(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var group starlark.Value = zeroInt
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "group?", &group); err != nil {
		return nil, err
	}

	s, err := b.Receiver().(*Match).span(group)
	if err != nil {
		return nil, err
	}

	return starlark.MakeInt(s.Begin), nil
}

func matchEnd(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var group starlark.Value = zeroInt
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "group?", &group); err != nil {
		return nil, err
	}

	s, err := b.Receiver().(*Match).span(group)
	if err != nil {
		return nil, err
	}

	return starlark.MakeInt(s.End), nil
}
