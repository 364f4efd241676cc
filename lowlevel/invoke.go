package lowlevel

import "github.com/magnetde/starlark-onig/regex"

// MatchState is the result of a successful match.
// It is immutable after its creation.
type MatchState struct {
	re      *Regexp
	subject String
	region  *regex.Region

	pos    int
	endpos int
}

// Invoke matches the pattern against the subject.
// If anchored is set, the match must start at pos; otherwise the subject is searched for the
// first match starting in [pos, endpos]. An endpos of -1 is the length of the subject; larger
// values are clamped to it. Positions count elements of the pattern type.
// If the subject has another type than the pattern, it is converted with the default codec.
// If there is no match, the result is nil without an error.
func Invoke(re *Regexp, subject String, pos, endpos int, anchored bool) (*MatchState, error) {
	if err := Init(); err != nil {
		return nil, err
	}

	if re == nil {
		return nil, usageError("match", ErrRegexpRequired)
	}
	if pos < 0 {
		return nil, usageError("match", ErrNegativePos)
	}
	if !subject.IsValid() {
		return nil, usageError("match", ErrSubjectType)
	}

	subject, err := DefaultCodec().Convert(subject, re.unicode)
	if err != nil {
		return nil, err
	}

	n := subject.Len()
	if endpos == -1 {
		endpos = n
	}
	if endpos < 0 {
		return nil, usageError("match", ErrInvalidEndpos)
	}
	endpos = min(endpos, n)

	if pos > endpos {
		return nil, nil
	}

	w := subject.elemSize()
	in := subject.decoded(re.re.Encoding())
	region := regex.NewRegion()

	var r int
	if anchored {
		r, err = re.re.MatchInput(in, endpos*w, pos*w, region, regex.OptionNone)
	} else {
		r, err = re.re.SearchInput(in, endpos*w, pos*w, endpos*w, region, regex.OptionNone)
	}
	if err != nil {
		return nil, newRegexpError(err)
	}
	if r == regex.Mismatch {
		return nil, nil
	}

	st := MatchState{
		re:      re,
		subject: subject,
		region:  region,
		pos:     pos,
		endpos:  endpos,
	}

	return &st, nil
}

// Regexp returns the pattern, that produced the match.
func (st *MatchState) Regexp() *Regexp { return st.re }

// Subject returns the matched subject, converted into the type of the pattern.
func (st *MatchState) Subject() String { return st.subject }

// Pos returns the start of the searched range.
func (st *MatchState) Pos() int { return st.pos }

// Endpos returns the end of the searched range.
func (st *MatchState) Endpos() int { return st.endpos }

// NumGroups returns the number of groups including the whole match.
func (st *MatchState) NumGroups() int { return st.region.NumRegs() }
