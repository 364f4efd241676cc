package onig

import (
	"go.starlark.net/starlark"

	"github.com/magnetde/starlark-onig/lowlevel"
)

// split splits the range [pos, endpos] of the string by the occurrences of the pattern.
// The text before `pos` is prepended to the first element and the text after the last match is the last element.
// If the pattern has groups, the groups of every match are appended as a tuple; with `flat` set, the group values
// are appended directly. If `maxSplit` is nonzero, at most `maxSplit` splits occur.
func (r *Regexp) split(str strOrBytes, maxSplit, pos, endpos int, flat bool) (starlark.Value, error) {
	subject, err := r.convert(str)
	if err != nil {
		return nil, err
	}

	n := subject.Len()
	slice := func(beg, end int) lowlevel.String {
		beg = min(max(beg, 0), n)
		end = min(max(end, beg), n)
		return subject.Slice(beg, end)
	}

	var (
		result []starlark.Value
		last   = pos // start of the next element
		num    int
	)

	// piece returns an element of the result; the first one starts at the beginning of the string
	piece := func(beg, end int) starlark.Value {
		s := slice(beg, end)
		if len(result) == 0 {
			s = concat(subject, []lowlevel.String{slice(0, pos), s})
		}

		return fromLowlevel(s)
	}

	for {
		m, err := r.invoke(subject, str.starlark(), pos, endpos, false)
		if err != nil {
			return nil, err
		}
		if m == nil {
			break
		}

		num++

		span := m.spans[0]
		result = append(result, piece(last, span.Begin))

		if m.Len() > 0 {
			groups := m.groups(starlark.None)
			if flat {
				result = append(result, groups...)
			} else {
				result = append(result, groups)
			}
		}

		last = span.End
		if span.Begin == span.End {
			pos = span.End + 1
		} else {
			pos = span.End
		}

		if num == maxSplit {
			break
		}
	}

	result = append(result, piece(last, n))

	return starlark.NewList(result), nil
}
