package lowlevel

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/magnetde/starlark-onig/regex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, pattern String, encoding, syntax int) *Regexp {
	t.Helper()

	re, err := Compile(pattern, regex.OptionNone, encoding, syntax)
	require.NoError(t, err)

	return re
}

func invoke(t *testing.T, re *Regexp, subject String, pos, endpos int, anchored bool) *MatchState {
	t.Helper()

	st, err := Invoke(re, subject, pos, endpos, anchored)
	require.NoError(t, err)

	return st
}

func groups(t *testing.T, st *MatchState) []Span {
	t.Helper()

	spans, err := Groups(st)
	require.NoError(t, err)

	return spans
}

func TestNamedGroups(t *testing.T) {
	const pattern = `(?<year>\d{4})-(?<month>\d{2})`

	for _, p := range []String{Bytes([]byte(pattern)), WideString(pattern)} {
		re := compile(t, p, EncodingUnspecified, SyntaxDefault)
		assert.Equal(t, p.IsWide(), re.UnicodeMode())

		var subject String
		if p.IsWide() {
			subject = WideString("2024-03")
		} else {
			subject = Bytes([]byte("2024-03"))
		}

		st := invoke(t, re, subject, 0, -1, false)
		require.NotNil(t, st)

		assert.Equal(t, []Span{{0, 7}, {0, 4}, {5, 7}}, groups(t, st))

		names, err := GroupNames(st)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"year": 1, "month": 2}, names)
	}
}

func TestLineAnchors(t *testing.T) {
	re := compile(t, Bytes([]byte(`^abc$`)), EncodingUnspecified, SyntaxDefault)

	st := invoke(t, re, Bytes([]byte("xx\nabc\n")), 0, -1, false)
	require.NotNil(t, st)
	assert.Equal(t, []Span{{3, 6}}, groups(t, st))

	re = compile(t, Bytes([]byte(`a.c`)), EncodingUnspecified, SyntaxDefault)
	assert.Nil(t, invoke(t, re, Bytes([]byte("a\nc")), 0, -1, false))
}

func TestWideOffsets(t *testing.T) {
	re := compile(t, WideString(`ä(b)`), EncodingUnspecified, SyntaxDefault)

	st := invoke(t, re, WideString("xäb"), 0, -1, false)
	require.NotNil(t, st)
	assert.Equal(t, []Span{{1, 3}, {2, 3}}, groups(t, st))

	s, ok, err := ExtractGroup(st, 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, s.IsWide())
	assert.Equal(t, "äb", s.String())
	assert.Equal(t, 2, s.Len())
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile(WideString("a"), regex.OptionNone, EncodingUTF8, SyntaxDefault)
	assert.ErrorIs(t, err, ErrEncodingForWide)
	assert.Equal(t, KindType, KindOf(err))

	_, err = Compile(WideString("a"), regex.OptionNone, EncodingASCII, SyntaxDefault)
	assert.ErrorIs(t, err, ErrEncodingForWide)

	_, err = Compile(String{}, regex.OptionNone, EncodingUnspecified, SyntaxDefault)
	assert.ErrorIs(t, err, ErrPatternType)

	_, err = Compile(Bytes([]byte("(abc")), regex.OptionNone, EncodingUnspecified, SyntaxDefault)
	var e *RegexpError
	require.ErrorAs(t, err, &e)
	assert.Equal(t, regex.ErrEndPatternWithUnmatchedParen, e.Code)
	assert.NotEmpty(t, e.Message)
	assert.Equal(t, KindRegexp, KindOf(err))
	assert.ErrorIs(t, err, &regex.Error{Code: regex.ErrEndPatternWithUnmatchedParen})

	_, err = Compile(Bytes([]byte("a")), regex.OptionNone, EncodingKOI8, SyntaxDefault)
	require.ErrorAs(t, err, &e)
	assert.Equal(t, regex.ErrDefaultEncodingIsNotSet, e.Code)
}

func TestCompileAttributes(t *testing.T) {
	p := Bytes([]byte("a"))
	re := compile(t, p, EncodingUnspecified, SyntaxDefault)

	assert.True(t, p.Equal(re.Pattern()))
	assert.False(t, re.UnicodeMode())
	assert.Same(t, regex.EncodingASCII, re.Encoding())
	assert.Same(t, DerivedSyntax(), re.Syntax())
	assert.Equal(t, regex.OptionNegateSingleline, re.Options())

	re = compile(t, WideString("a"), EncodingUnspecified, SyntaxPerl)
	assert.Same(t, wideEncoding(), re.Encoding())
	assert.Same(t, regex.SyntaxPerl, re.Syntax())
	assert.Equal(t, regex.OptionSingleline, re.Options())
}

func TestInvokeRange(t *testing.T) {
	re := compile(t, Bytes([]byte("b")), EncodingUnspecified, SyntaxDefault)
	subject := Bytes([]byte("abab"))

	// match
	assert.Nil(t, invoke(t, re, subject, 0, -1, true))

	st := invoke(t, re, subject, 1, -1, true)
	require.NotNil(t, st)
	assert.Equal(t, []Span{{1, 2}}, groups(t, st))

	// search
	st = invoke(t, re, subject, 2, -1, false)
	require.NotNil(t, st)
	assert.Equal(t, []Span{{3, 4}}, groups(t, st))
	assert.Equal(t, 2, st.Pos())
	assert.Equal(t, 4, st.Endpos())

	// endpos is the end of the subject
	assert.Nil(t, invoke(t, re, subject, 2, 3, false))

	// endpos beyond the subject is clamped
	st = invoke(t, re, subject, 0, 100, false)
	require.NotNil(t, st)
	assert.Equal(t, 4, st.Endpos())

	// endpos -1 is the length of the subject
	a := invoke(t, re, subject, 0, -1, false)
	b := invoke(t, re, subject, 0, subject.Len(), false)
	assert.Equal(t, groups(t, a), groups(t, b))

	// empty range
	assert.Nil(t, invoke(t, re, subject, 5, 3, false))
	assert.Nil(t, invoke(t, re, subject, 5, -1, false))
}

func TestInvokeErrors(t *testing.T) {
	re := compile(t, Bytes([]byte("a")), EncodingUnspecified, SyntaxDefault)

	_, err := Invoke(nil, Bytes([]byte("a")), 0, -1, false)
	assert.ErrorIs(t, err, ErrRegexpRequired)
	assert.Equal(t, KindType, KindOf(err))

	_, err = Invoke(re, String{}, 0, -1, false)
	assert.ErrorIs(t, err, ErrSubjectType)
	assert.Equal(t, KindType, KindOf(err))

	_, err = Invoke(re, Bytes([]byte("a")), -1, -1, false)
	assert.ErrorIs(t, err, ErrNegativePos)
	assert.Equal(t, KindValue, KindOf(err))

	_, err = Invoke(re, Bytes([]byte("a")), 0, -2, false)
	assert.ErrorIs(t, err, ErrInvalidEndpos)
	assert.Equal(t, KindValue, KindOf(err))

	var ue *UsageError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "match", ue.Op)
}

func TestInvokeConversion(t *testing.T) {
	// wide subject for a byte pattern
	re := compile(t, Bytes([]byte("é")), EncodingUTF8, SyntaxDefault)

	st := invoke(t, re, WideString("café"), 0, -1, false)
	require.NotNil(t, st)
	assert.Equal(t, []Span{{3, 5}}, groups(t, st))
	assert.False(t, st.Subject().IsWide())

	// byte subject for a wide pattern
	re = compile(t, WideString("é"), EncodingUnspecified, SyntaxDefault)

	st = invoke(t, re, Bytes([]byte("café")), 0, -1, false)
	require.NotNil(t, st)
	assert.Equal(t, []Span{{3, 4}}, groups(t, st))
	assert.True(t, st.Subject().IsWide())

	_, err := Invoke(re, Bytes([]byte("caf\xff")), 0, -1, false)
	var e *EncodingError
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "utf-8", e.Codec)
	assert.Equal(t, KindEncoding, KindOf(err))
}

func TestInvokeReusesInput(t *testing.T) {
	tests := []struct {
		name    string
		pattern String
		subject String
		want    [][]Span
	}{
		{"bytes", Bytes([]byte(`a(.)`)), Bytes([]byte("abacad")), [][]Span{{{0, 2}, {1, 2}}, {{2, 4}, {3, 4}}, {{4, 6}, {5, 6}}}},
		{"wide", WideString(`ä(.)`), WideString("äbäcäd"), [][]Span{{{0, 2}, {1, 2}}, {{2, 4}, {3, 4}}, {{4, 6}, {5, 6}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := compile(t, tt.pattern, EncodingUnspecified, SyntaxDefault)

			var got [][]Span
			for pos := 0; ; {
				st := invoke(t, re, tt.subject, pos, -1, false)
				if st == nil {
					break
				}

				spans := groups(t, st)
				got = append(got, spans)
				pos = spans[0].End
			}
			assert.Equal(t, tt.want, got)

			in := tt.subject.input.Load()
			require.NotNil(t, in)
			assert.Same(t, re.re.Encoding(), in.Encoding())

			// later matches and copies of the subject share the decoded input
			copied := tt.subject
			invoke(t, re, copied, 0, 3, false)
			assert.Same(t, in, copied.input.Load())
			assert.Same(t, in, tt.subject.decoded(re.re.Encoding()))
		})
	}
}

func TestInvokeEndposWithDecodedInput(t *testing.T) {
	re := compile(t, Bytes([]byte(`b$`)), EncodingUnspecified, SyntaxDefault)
	subject := Bytes([]byte("abab"))

	// decode the whole subject first
	st := invoke(t, re, subject, 0, -1, false)
	require.NotNil(t, st)
	assert.Equal(t, []Span{{3, 4}}, groups(t, st))

	// a smaller endpos is the end of the subject
	st = invoke(t, re, subject, 0, 2, false)
	require.NotNil(t, st)
	assert.Equal(t, []Span{{1, 2}}, groups(t, st))
	assert.Nil(t, invoke(t, re, subject, 0, 1, false))

	wide := compile(t, WideString(`é$`), EncodingUnspecified, SyntaxDefault)
	ws := WideString("éaéa")
	invoke(t, wide, ws, 0, -1, false)

	st = invoke(t, wide, ws, 0, 3, false)
	require.NotNil(t, st)
	assert.Equal(t, []Span{{2, 3}}, groups(t, st))
}

func TestConcurrentInvoke(t *testing.T) {
	re := compile(t, WideString(`(?<word>\w+)-(?<num>\d+)`), EncodingUnspecified, SyntaxDefault)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()

			word := strings.Repeat("x", i+1)
			subject := WideString(fmt.Sprintf("  %s-%d", word, i))

			st, err := Invoke(re, subject, 0, -1, false)
			if !assert.NoError(t, err) || !assert.NotNil(t, st) {
				return
			}

			spans, err := Groups(st)
			assert.NoError(t, err)
			assert.Equal(t, Span{2, subject.Len()}, spans[0])

			s, ok, err := ExtractGroup(st, 1)
			assert.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, word, s.String())

			s, ok, err = ExtractGroup(st, 2)
			assert.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, fmt.Sprint(i), s.String())

			names, err := GroupNames(st)
			assert.NoError(t, err)
			assert.Equal(t, map[string]int{"word": 1, "num": 2}, names)
		}()
	}

	wg.Wait()
}

func TestExtractGroup(t *testing.T) {
	re := compile(t, Bytes([]byte(`(a)|(b)()`)), EncodingUnspecified, SyntaxDefault)

	st := invoke(t, re, Bytes([]byte("xb")), 0, -1, false)
	require.NotNil(t, st)
	assert.Equal(t, 4, st.NumGroups())

	spans := groups(t, st)
	assert.Equal(t, []Span{{1, 2}, {-1, -1}, {1, 2}, {2, 2}}, spans)

	for i, span := range spans {
		s, ok, err := ExtractGroup(st, i)
		require.NoError(t, err)

		assert.Equal(t, !span.Unset(), ok, "group %d", i)
		if ok {
			assert.Equal(t, span.End-span.Begin, s.Len(), "group %d", i)
		}
	}

	s, ok, err := ExtractGroup(st, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", s.String())

	s, ok, err = ExtractGroup(st, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "", s.String())

	_, _, err = ExtractGroup(st, 4)
	assert.ErrorIs(t, err, ErrNoSuchGroup)
	assert.Equal(t, KindIndex, KindOf(err))

	_, _, err = ExtractGroup(st, -1)
	assert.ErrorIs(t, err, ErrNoSuchGroup)

	_, _, err = ExtractGroup(nil, 0)
	assert.ErrorIs(t, err, ErrMatchRequired)

	_, err = Groups(nil)
	assert.ErrorIs(t, err, ErrMatchRequired)

	_, err = GroupNames(nil)
	assert.ErrorIs(t, err, ErrMatchRequired)

	// repeated calls return the same results
	assert.Equal(t, spans, groups(t, st))
}

func TestGroupNamesEmpty(t *testing.T) {
	re := compile(t, Bytes([]byte(`(a)`)), EncodingUnspecified, SyntaxDefault)

	st := invoke(t, re, Bytes([]byte("a")), 0, -1, false)
	require.NotNil(t, st)

	names, err := GroupNames(st)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestGroupNamesMultiplex(t *testing.T) {
	re := compile(t, Bytes([]byte(`(?<n>a)|(?<n>b)`)), EncodingUnspecified, SyntaxRuby)

	st := invoke(t, re, Bytes([]byte("b")), 0, -1, false)
	require.NotNil(t, st)

	names, err := GroupNames(st)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"n": 2}, names)
}

func TestWarningHook(t *testing.T) {
	var warnings []string
	SetWarningHook(func(msg string) { warnings = append(warnings, msg) })
	t.Cleanup(func() { SetWarningHook(nil) })

	_, err := Compile(Bytes([]byte("a]")), regex.OptionNone, EncodingUnspecified, SyntaxRuby)
	require.NoError(t, err)
	assert.Equal(t, []string{"regular expression has ']' without escape: /a]/"}, warnings)

	// the derived syntax does not warn
	warnings = nil
	_, err = Compile(Bytes([]byte("a]")), regex.OptionNone, EncodingUnspecified, SyntaxDefault)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	SetWarningHook(func(string) { panic("boom") })
	assert.NotPanics(t, func() {
		_, err = Compile(Bytes([]byte("a]")), regex.OptionNone, EncodingUnspecified, SyntaxRuby)
	})
	assert.NoError(t, err)

	SetWarningHook(nil)
	assert.NotNil(t, WarningHook())
}

func TestVersion(t *testing.T) {
	major, _, _ := Version()
	assert.Equal(t, 1, major)
}
