package onig

import (
	"strconv"
	"strings"

	"go.starlark.net/starlark"

	"github.com/magnetde/starlark-onig/lowlevel"
)

// templatePart is either a literal or a group reference of a template.
type templatePart struct {
	literal lowlevel.String
	index   int    // group number or -1
	name    string // group name, if not empty
}

// template is a parsed replacement template.
// Templates may contain the references `\N`, `\g<N>` and `\g<name>`; all other text is copied.
type template struct {
	parts []templatePart
}

// parseTemplate parses a template, that has the type of the pattern.
func parseTemplate(t lowlevel.String) *template {
	var (
		parts []templatePart
		wide  = t.IsWide()
	)

	// the syntax characters are ASCII; patterns are scanned in their UTF-8 or raw byte form
	s := t.String()
	if !wide {
		s = string(t.Bytes())
	}

	literal := func(v string) {
		if v == "" {
			return
		}

		var l lowlevel.String
		if wide {
			l = lowlevel.WideString(v)
		} else {
			l = lowlevel.Bytes([]byte(v))
		}

		parts = append(parts, templatePart{literal: l, index: -1})
	}

	for {
		i := strings.IndexByte(s, '\\')
		if i < 0 || i+1 >= len(s) {
			literal(s)
			break
		}

		rest := s[i+1:]

		if n := leadingDigits(rest); n > 0 {
			index, err := strconv.Atoi(rest[:n])
			if err == nil {
				literal(s[:i])
				parts = append(parts, templatePart{index: index})
				s = rest[n:]
				continue
			}
		}

		if strings.HasPrefix(rest, "g<") {
			if j := strings.IndexByte(rest[2:], '>'); j > 0 {
				ref := rest[2 : 2+j]

				literal(s[:i])

				if index, err := strconv.Atoi(ref); err == nil && leadingDigits(ref) == len(ref) {
					parts = append(parts, templatePart{index: index})
				} else {
					parts = append(parts, templatePart{index: -1, name: ref})
				}

				s = rest[2+j+1:]
				continue
			}
		}

		// no reference; keep the backslash
		literal(s[:i+1])
		s = rest
	}

	return &template{parts: parts}
}

func leadingDigits(s string) int {
	n := 0
	for n < len(s) && '0' <= s[n] && s[n] <= '9' {
		n++
	}

	return n
}

// expand replaces the group references of the template with the groups of the match.
// Groups, that did not participate in the match, are replaced by empty strings.
func (t *template) expand(m *Match) (lowlevel.String, error) {
	parts := make([]lowlevel.String, 0, len(t.parts))

	for _, p := range t.parts {
		switch {
		case p.name != "":
			i, ok := m.index[p.name]
			if !ok {
				return lowlevel.String{}, indexError("unknown group name %s", strconv.Quote(p.name))
			}

			g, err := m.groupString(i)
			if err != nil {
				return lowlevel.String{}, err
			}

			parts = append(parts, g)
		case p.index >= 0:
			if p.index >= len(m.spans) {
				return lowlevel.String{}, indexError("invalid group reference %d", p.index)
			}

			g, err := m.groupString(p.index)
			if err != nil {
				return lowlevel.String{}, err
			}

			parts = append(parts, g)
		default:
			parts = append(parts, p.literal)
		}
	}

	return concat(m.state.st.Subject(), parts), nil
}

// replacer computes the replacement of a match.
type replacer func(m *Match) (lowlevel.String, error)

// newReplacer creates the replacer of the `repl` parameter of `sub`.
// Callables are called with the match; strings are copied, or expanded if they contain a backslash.
func (r *Regexp) newReplacer(thread *starlark.Thread, repl starlark.Value) (replacer, error) {
	if fn, ok := repl.(starlark.Callable); ok {
		return func(m *Match) (lowlevel.String, error) {
			v, err := starlark.Call(thread, fn, starlark.Tuple{m}, nil)
			if err != nil {
				return lowlevel.String{}, err
			}

			var s strOrBytes
			if err := s.Unpack(v); err != nil {
				return lowlevel.String{}, typeError("replacement function must return str or bytes, got %s", v.Type())
			}

			return r.convert(s)
		}, nil
	}

	var s strOrBytes
	if err := s.Unpack(repl); err != nil {
		return nil, typeError("repl must be str, bytes or callable, got %s", repl.Type())
	}

	t, err := r.convert(s)
	if err != nil {
		return nil, err
	}

	if !strings.Contains(s.value, `\`) {
		return func(*Match) (lowlevel.String, error) { return t, nil }, nil
	}

	tmpl := parseTemplate(t)
	return tmpl.expand, nil
}

// sub replaces at most `count` matches in the range [pos, endpos] of the string.
// A count of zero replaces all matches. Empty matches advance the position by one element.
func (r *Regexp) sub(thread *starlark.Thread, repl starlark.Value, str strOrBytes, count, pos, endpos int, subn bool) (starlark.Value, error) {
	subject, err := r.convert(str)
	if err != nil {
		return nil, err
	}

	replace, err := r.newReplacer(thread, repl)
	if err != nil {
		return nil, err
	}

	n := subject.Len()
	if endpos == -1 || endpos > n {
		endpos = n
	}

	slice := func(beg, end int) lowlevel.String {
		beg = min(max(beg, 0), n)
		end = min(max(end, beg), n)
		return subject.Slice(beg, end)
	}

	parts := []lowlevel.String{slice(0, pos)}

	var num, skipped int

	for {
		m, err := r.invoke(subject, str.starlark(), pos, endpos, false)
		if err != nil {
			return nil, err
		}
		if m == nil {
			pos -= skipped // the skipped element is not replaced
			break
		}

		num++

		span := m.spans[0]
		parts = append(parts, slice(pos-skipped, span.Begin))

		pos = span.End
		if span.Begin == pos {
			skipped = 1
		} else {
			skipped = 0
		}

		s, err := replace(m)
		if err != nil {
			return nil, err
		}

		parts = append(parts, s)

		if num == count || pos-skipped >= endpos {
			break
		}

		pos += skipped
	}

	parts = append(parts, slice(pos, n))

	result := fromLowlevel(concat(subject, parts))
	if subn {
		return starlark.Tuple{result, starlark.MakeInt(num)}, nil
	}

	return result, nil
}
