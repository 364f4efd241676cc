package regex

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, pattern string, opt Option, enc *Encoding, syn *Syntax) *Regex {
	t.Helper()

	re, err := New([]byte(pattern), opt, enc, syn)
	require.NoError(t, err, "pattern %q", pattern)

	return re
}

// searchAll searches the whole subject forward and returns the match offset and the region.
func searchAll(t *testing.T, re *Regex, subject string, opt Option) (int, *Region) {
	t.Helper()

	region := NewRegion()
	pos, err := re.Search([]byte(subject), len(subject), 0, len(subject), region, opt)
	require.NoError(t, err)

	return pos, region
}

func TestSearch(t *testing.T) {
	tests := []struct {
		pattern string
		opt     Option
		syntax  *Syntax
		subject string
		pos     int
		beg     []int
		end     []int
	}{
		{`a(b)c`, OptionNone, nil, "xxabcx", 2, []int{2, 3}, []int{5, 4}},
		{`(a)|b`, OptionNone, nil, "b", 0, []int{0, -1}, []int{1, -1}},
		{`b`, OptionNone, nil, "äb", 2, []int{2}, []int{3}},
		{`^b`, OptionNone, nil, "a\nb", 2, []int{2}, []int{3}},
		{`a$`, OptionNone, nil, "a\nb", 0, []int{0}, []int{1}},
		{`a$`, OptionNone, SyntaxPerl, "a\nb", Mismatch, nil, nil},
		{`a\Z`, OptionNone, nil, "xa\n", 1, []int{1}, []int{2}},
		{`a*+a`, OptionNone, nil, "aaa", Mismatch, nil, nil},
		{`(a)\1`, OptionNone, nil, "xaa", 1, []int{1, 1}, []int{3, 2}},
		{`(?i)abc`, OptionNone, nil, "xABC", 1, []int{1}, []int{4}},
		{`abc`, OptionIgnoreCase, nil, "xABC", 1, []int{1}, []int{4}},
		{`a(?i:b)c`, OptionNone, nil, "aBC aBc", 4, []int{4}, []int{7}},
		{`\bfoo\b`, OptionNone, nil, "afoo foo", 5, []int{5}, []int{8}},
		{`[a-c&&b-d]+`, OptionNone, nil, "abcd", 1, []int{1}, []int{3}},
		{`[[:digit:]]+`, OptionNone, nil, "ab12", 2, []int{2}, []int{4}},
		{`(?<=a)b`, OptionNone, nil, "bab", 2, []int{2}, []int{3}},
		{`(?<!a)b`, OptionNone, nil, "abb", 2, []int{2}, []int{3}},
		{`\p{Greek}+`, OptionNone, nil, "aλμ", 1, []int{1}, []int{5}},
		{`a b # comment`, OptionExtend, nil, "xab", 1, []int{1}, []int{3}},
		{`a.c`, OptionNone, nil, "a\nc abc", 4, []int{4}, []int{7}},
		{`a.c`, OptionMultiline, nil, "a\nc", 0, []int{0}, []int{3}},
		{`(?m)a.c`, OptionNone, nil, "a\nc", 0, []int{0}, []int{3}},
		{`\Qa.b\E+`, OptionNone, SyntaxPerl, "axb a.bbb", 4, []int{4}, []int{9}},
		{`\x41B`, OptionNone, nil, "xAB", 1, []int{1}, []int{3}},
		{`\h+`, OptionNone, nil, "xyz0fG", 3, []int{3}, []int{5}},
		{`a{2}`, OptionNone, nil, "aaa", 0, []int{0}, []int{2}},
		{`a{,2}b`, OptionNone, nil, "aaab", 1, []int{1}, []int{4}},
		{`x{2,}?`, OptionNone, nil, "xxxx", 0, []int{0}, []int{2}},
		{`(?>a+)b`, OptionNone, nil, "aab", 0, []int{0}, []int{3}},
		{`\Aa`, OptionNone, nil, "ba", Mismatch, nil, nil},
		{`(?<x>a)(b)`, OptionNone, nil, "ab", 0, []int{0, 0}, []int{2, 1}},
		{`(?<x>a)(b)`, OptionCaptureGroup, nil, "ab", 0, []int{0, 0, 1}, []int{2, 1, 2}},
		{`(a)(b)`, OptionDontCaptureGroup, nil, "ab", 0, []int{0}, []int{2}},
		{`(?<n>a)|(?<n>b)\k<n>`, OptionNone, nil, "bb", 0, []int{0, -1, 0}, []int{2, -1, 1}},
	}

	for _, tt := range tests {
		re := compile(t, tt.pattern, tt.opt, EncodingUTF8, tt.syntax)

		pos, region := searchAll(t, re, tt.subject, OptionNone)
		if !assert.Equal(t, tt.pos, pos, "pattern %q", tt.pattern) || pos == Mismatch {
			continue
		}

		assert.Equal(t, tt.beg, region.Beg, "pattern %q", tt.pattern)
		assert.Equal(t, tt.end, region.End, "pattern %q", tt.pattern)
	}
}

func TestSearchRange(t *testing.T) {
	re := compile(t, `a`, OptionNone, EncodingUTF8, nil)
	subject := []byte("aaa")

	pos, err := re.Search(subject, 3, 1, 3, nil, OptionNone)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	// backward
	pos, err = re.Search(subject, 3, 3, 0, nil, OptionNone)
	require.NoError(t, err)
	assert.Equal(t, 2, pos)

	// the range limits the start of the match
	re = compile(t, `b`, OptionNone, EncodingUTF8, nil)
	pos, err = re.Search([]byte("aab"), 3, 0, 1, nil, OptionNone)
	require.NoError(t, err)
	assert.Equal(t, Mismatch, pos)

	// the subject ends at end
	pos, err = re.Search([]byte("aab"), 2, 0, 2, nil, OptionNone)
	require.NoError(t, err)
	assert.Equal(t, Mismatch, pos)

	pos, err = re.Search(subject, 3, 10, 3, nil, OptionNone)
	require.NoError(t, err)
	assert.Equal(t, Mismatch, pos)
}

func TestSearchLookbehindBeforeStart(t *testing.T) {
	re := compile(t, `(?<=a)b`, OptionNone, EncodingUTF8, nil)

	pos, err := re.Search([]byte("ab"), 2, 1, 2, nil, OptionNone)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
}

func TestSearchOptions(t *testing.T) {
	re := compile(t, `a*`, OptionFindNotEmpty, EncodingUTF8, nil)
	pos, region := searchAll(t, re, "baa", OptionNone)
	assert.Equal(t, 1, pos)
	assert.Equal(t, []int{3}, region.End)

	re = compile(t, `a|bcd`, OptionFindLongest, EncodingUTF8, nil)
	pos, region = searchAll(t, re, "abcd", OptionNone)
	assert.Equal(t, 1, pos)
	assert.Equal(t, []int{4}, region.End)

	re = compile(t, `^a`, OptionNone, EncodingUTF8, nil)
	pos, _ = searchAll(t, re, "ab", OptionNotBOL)
	assert.Equal(t, Mismatch, pos)
	pos, _ = searchAll(t, re, "ab\na", OptionNotBOL)
	assert.Equal(t, 3, pos)

	re = compile(t, `a$`, OptionNone, EncodingUTF8, nil)
	pos, _ = searchAll(t, re, "ba", OptionNotEOL)
	assert.Equal(t, Mismatch, pos)
	pos, _ = searchAll(t, re, "ba", OptionNone)
	assert.Equal(t, 1, pos)
}

func TestMatch(t *testing.T) {
	re := compile(t, `ab`, OptionNone, EncodingUTF8, nil)
	subject := []byte("xab")

	region := NewRegion()
	n, err := re.Match(subject, 3, 1, region, OptionNone)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int{1}, region.Beg)
	assert.Equal(t, []int{3}, region.End)

	n, err = re.Match(subject, 3, 0, nil, OptionNone)
	require.NoError(t, err)
	assert.Equal(t, Mismatch, n)

	re = compile(t, `x*`, OptionNone, EncodingUTF8, nil)
	n, err = re.Match(subject, 3, 1, nil, OptionNone)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestEncodings(t *testing.T) {
	tests := []struct {
		enc     *Encoding
		pattern string
		subject string
		pos     int
		end     int
	}{
		{EncodingUTF16LE, "b\x00", "a\x00b\x00", 2, 4},
		{EncodingUTF16BE, "\x00b", "\x00a\x00b", 2, 4},
		{EncodingUTF32LE, "b\x00\x00\x00", "a\x00\x00\x00b\x00\x00\x00", 4, 8},
		{EncodingISO8859_1, "\xe9", "a\xe9", 1, 2},
		{EncodingASCII, `\w+`, "-abc-", 1, 4},
		{EncodingUTF8, `\xff`, "a\xff", 1, 2},
		{EncodingUTF8, `\xe3\x81\x82`, "xあ", 1, 4},
		{EncodingEUCJP, "\xa4\xa2", "x\xa4\xa2", 1, 3},
		{EncodingSJIS, "\x82\xa0+", "x\x82\xa0\x82\xa0", 1, 5},
	}

	for _, tt := range tests {
		re := compile(t, tt.pattern, OptionNone, tt.enc, nil)

		pos, region := searchAll(t, re, tt.subject, OptionNone)
		if assert.Equal(t, tt.pos, pos, "encoding %s", tt.enc) {
			assert.Equal(t, tt.end, region.End[0], "encoding %s", tt.enc)
		}
	}
}

func TestNames(t *testing.T) {
	re := compile(t, `(?<x>a)(?<y>b)(?<x>c)`, OptionNone, EncodingUTF8, nil)

	assert.Equal(t, 3, re.NumberOfCaptures())
	assert.Equal(t, 2, re.NumberOfNames())

	var names []string
	groups := make(map[string][]int)
	re.ForEachName(func(name string, nums []int) bool {
		names = append(names, name)
		groups[name] = nums
		return true
	})

	assert.Equal(t, []string{"x", "y"}, names)
	assert.Equal(t, map[string][]int{"x": {1, 3}, "y": {2}}, groups)

	calls := 0
	re.ForEachName(func(string, []int) bool {
		calls++
		return false
	})
	assert.Equal(t, 1, calls)
}

func TestNewArguments(t *testing.T) {
	_, err := New([]byte("a"), OptionCaptureGroup|OptionDontCaptureGroup, EncodingUTF8, nil)
	assert.ErrorIs(t, err, &Error{Code: ErrInvalidCombinationOfOptions})

	_, err = New([]byte("a"), OptionNone, EncodingUndef, nil)
	assert.ErrorIs(t, err, &Error{Code: ErrDefaultEncodingIsNotSet})

	_, err = New([]byte("a"), OptionNone, nil, nil)
	assert.ErrorIs(t, err, &Error{Code: ErrDefaultEncodingIsNotSet})

	re := compile(t, "a", OptionNone, EncodingUTF8, nil)
	assert.Same(t, SyntaxDefault, re.Syntax())
	assert.Same(t, EncodingUTF8, re.Encoding())
	assert.Equal(t, []byte("a"), re.Pattern())

	re = compile(t, "a", OptionNone, EncodingUTF8, SyntaxPerl)
	assert.Equal(t, OptionSingleline, re.Options())

	re = compile(t, "a", OptionNegateSingleline, EncodingUTF8, SyntaxPerl)
	assert.Equal(t, OptionNegateSingleline, re.Options())
}

func TestRegion(t *testing.T) {
	r := NewRegion()
	assert.Equal(t, 0, r.NumRegs())

	r.resize(3)
	assert.Equal(t, 3, r.NumRegs())

	r.Clear()
	assert.Equal(t, 0, r.NumRegs())
}

func TestVersion(t *testing.T) {
	major, minor, _ := Version()
	assert.Equal(t, 1, major)
	assert.GreaterOrEqual(t, minor, 10)
}

func TestSearchInput(t *testing.T) {
	tests := []struct {
		pattern string
		subject string
		end     int
	}{
		{`b$`, "abab", 4},
		{`b$`, "abab", 2},
		{`b$`, "abab", 1},
		{`.$`, "aäb", 2},
		{`.$`, "aäb", 3},
		{`a`, "", 0},
	}

	for _, tt := range tests {
		re := compile(t, tt.pattern, OptionNone, EncodingUTF8, nil)
		str := []byte(tt.subject)
		in := NewInput(EncodingUTF8, str)

		wantRegion := NewRegion()
		want, err := re.Search(str, tt.end, 0, tt.end, wantRegion, OptionNone)
		require.NoError(t, err)

		region := NewRegion()
		got, err := re.SearchInput(in, tt.end, 0, tt.end, region, OptionNone)
		require.NoError(t, err)
		assert.Equal(t, want, got, "%q end %d", tt.pattern, tt.end)
		assert.Equal(t, wantRegion, region, "%q end %d", tt.pattern, tt.end)

		want, err = re.Match(str, tt.end, 0, nil, OptionNone)
		require.NoError(t, err)
		got, err = re.MatchInput(in, tt.end, 0, nil, OptionNone)
		require.NoError(t, err)
		assert.Equal(t, want, got, "%q end %d", tt.pattern, tt.end)
	}
}

func TestInputEncoding(t *testing.T) {
	re := compile(t, `ä`, OptionNone, EncodingUTF8, nil)
	str := []byte("xä")

	// an input of another encoding is decoded again
	in := NewInput(EncodingISO8859_1, str)
	assert.Same(t, EncodingISO8859_1, in.Encoding())
	assert.Equal(t, 3, in.Len())

	pos, err := re.SearchInput(in, in.Len(), 0, in.Len(), nil, OptionNone)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	utf8 := NewInput(EncodingUTF8, str)
	assert.Same(t, utf8, utf8.prefix(EncodingUTF8, 3))
	assert.Equal(t, []byte("x"), utf8.prefix(EncodingUTF8, 1).Bytes())
}

func BenchmarkSearchInput(b *testing.B) {
	re, err := New([]byte("a"), OptionNone, EncodingUTF8, nil)
	require.NoError(b, err)

	for _, n := range []int{1000, 4000, 16000} {
		str := []byte(strings.Repeat("a", n))

		b.Run(fmt.Sprint(n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				in := NewInput(EncodingUTF8, str)
				for pos := 0; pos < n; pos++ {
					if _, err := re.SearchInput(in, n, pos, n, nil, OptionNone); err != nil {
						b.Fatal(err)
					}
				}
			}
		})
	}
}
