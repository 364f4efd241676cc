package lowlevel

// Span is the position of a group. Both offsets are -1, if the group did not participate in the match.
type Span struct {
	Begin int
	End   int
}

// Unset reports whether the group did not participate in the match.
func (s Span) Unset() bool { return s.Begin < 0 && s.End < 0 }

// Groups returns the spans of all groups, starting with the whole match.
// The offsets count elements of the pattern type.
func Groups(st *MatchState) ([]Span, error) {
	if st == nil {
		return nil, usageError("match_get_groups", ErrMatchRequired)
	}

	r := st.region
	w := st.subject.elemSize()

	spans := make([]Span, r.NumRegs())
	for i := range spans {
		spans[i] = scaleSpan(r.Beg[i], r.End[i], w)
	}

	return spans, nil
}

// scaleSpan converts byte offsets into element offsets.
func scaleSpan(beg, end, w int) Span {
	if beg < 0 || end < 0 {
		return Span{-1, -1}
	}

	return Span{beg / w, end / w}
}

// GroupNames returns the group numbers of the group names of the pattern.
// If multiple groups have the same name, the last one is used.
func GroupNames(st *MatchState) (map[string]int, error) {
	if st == nil {
		return nil, usageError("match_get_group_names", ErrMatchRequired)
	}

	_, nums := st.re.Names()
	return nums, nil
}

// ExtractGroup returns a copy of the text of a group.
// The boolean result is false, if the group did not participate in the match.
func ExtractGroup(st *MatchState, index int) (String, bool, error) {
	if st == nil {
		return String{}, false, usageError("match_extract_group", ErrMatchRequired)
	}

	r := st.region
	if index < 0 || index >= r.NumRegs() {
		return String{}, false, usageError("match_extract_group", ErrNoSuchGroup)
	}

	s := scaleSpan(r.Beg[index], r.End[index], st.subject.elemSize())
	if s.Unset() {
		return String{}, false, nil
	}

	return st.subject.Slice(s.Begin, s.End), true, nil
}
