package onig

// find calls fn for every non-overlapping match in the range [pos, endpos] of the string, until fn returns false.
// After an empty match, the search continues one element behind the match, so the iteration always terminates.
func (r *Regexp) find(str strOrBytes, pos, endpos int, fn func(m *Match) bool) error {
	subject, err := r.convert(str)
	if err != nil {
		return err
	}

	orig := str.starlark()

	for {
		m, err := r.invoke(subject, orig, pos, endpos, false)
		if err != nil {
			return err
		}
		if m == nil {
			return nil
		}

		if !fn(m) {
			return nil
		}

		span := m.spans[0]
		if span.Begin == span.End {
			pos = span.End + 1
		} else {
			pos = span.End
		}
	}
}
