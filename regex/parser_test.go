package regex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseErrors(t *testing.T) {
	noMultiplex, err := NewSyntax("NO_MULTIPLEX", SyntaxRuby)
	require.NoError(t, err)
	noMultiplex.SetBehavior(noMultiplex.Behavior() &^ SynAllowMultiplexDefinitionName)

	tests := []struct {
		pattern string
		enc     *Encoding
		syntax  *Syntax
		code    int
		msg     string
	}{
		{`a)`, nil, nil, ErrUnmatchedCloseParenthesis, "unmatched close parenthesis"},
		{`(a`, nil, nil, ErrEndPatternWithUnmatchedParen, "end pattern with unmatched parenthesis"},
		{`*a`, nil, nil, ErrTargetOfRepeatNotSpecified, "target of repeat operator is not specified"},
		{`^*`, nil, nil, ErrTargetOfRepeatInvalid, "target of repeat operator is invalid"},
		{`a{2,1}`, nil, nil, ErrUpperSmallerThanLowerInRepeat, "upper is smaller than lower in repeat range"},
		{`a{100001}`, nil, nil, ErrTooBigNumberForRepeatRange, "too big number for repeat range"},
		{`[b-a]`, nil, nil, ErrEmptyRangeInCharClass, "empty range in char class"},
		{`[a`, nil, nil, ErrPrematureEndOfCharClass, "premature end of char-class"},
		{`[]`, nil, nil, ErrEmptyCharClass, "empty char-class"},
		{`[a-\w]`, nil, nil, ErrCharClassValueAtEndOfRange, "char-class value at end of range"},
		{`a\`, nil, nil, ErrEndPatternAtEscape, "end pattern at escape"},
		{`(?<=a+)b`, nil, nil, ErrInvalidLookBehindPattern, "invalid pattern in look-behind"},
		{`(?<!(a))b`, nil, nil, ErrInvalidLookBehindPattern, "invalid pattern in look-behind"},
		{`(?<=a|bc)d`, nil, SyntaxPerl, ErrInvalidLookBehindPattern, "invalid pattern in look-behind"},
		{`(?<1a>x)`, nil, nil, ErrInvalidGroupName, "invalid group name <1a>"},
		{`(?<a-b>x)`, nil, nil, ErrInvalidCharInGroupName, "invalid char in group name <a-b>"},
		{`(?<>x)`, nil, nil, ErrEmptyGroupName, "group name is empty"},
		{`\k<nope>`, nil, nil, ErrUndefinedNameReference, "undefined name <nope> reference"},
		{`(?<n>a)(?<n>b)`, nil, noMultiplex, ErrMultiplexDefinedName, "multiplex defined name <n>"},
		{`(?z)`, nil, nil, ErrUndefinedGroupOption, "undefined group option"},
		{`(?s)`, nil, nil, ErrUndefinedGroupOption, "undefined group option"},
		{`(?i`, nil, nil, ErrEndPatternInGroup, "end pattern in group"},
		{`(?#abc`, nil, nil, ErrEndPatternInGroup, "end pattern in group"},
		{`\p{Foo}`, nil, nil, ErrInvalidCharPropertyName, "invalid character property name {Foo}"},
		{`\p{Greek}`, EncodingASCII, nil, ErrInvalidCharPropertyName, "invalid character property name {Greek}"},
		{`[[:foo:]]`, nil, nil, ErrInvalidPosixBracketType, "invalid POSIX bracket type"},
		{`\x{110000}`, nil, nil, ErrTooBigWideCharValue, "too big wide-char value"},
		{`\x{123456789}`, nil, nil, ErrTooLongWideCharValue, "too long wide-char value"},
		{`\x{12`, nil, nil, ErrInvalidCodePointValue, "invalid code point value"},
		{`(a)(?<x>b)\1`, nil, nil, ErrNumberedBackrefNotAllowed, "numbered backref/call is not allowed. (use name)"},
		{`a\2`, nil, nil, ErrInvalidBackref, "invalid backref number/name"},
		{`(a)\k<-2>`, nil, nil, ErrInvalidBackref, "invalid backref number/name"},
		{`\g<1>`, nil, nil, ErrNoSupportConfig, "no support in this configuration"},
		{`\M`, nil, nil, ErrEndPatternAtMeta, "end pattern at meta"},
		{`\Mx`, nil, nil, ErrMetaCodeSyntax, "invalid meta-code syntax"},
		{`\C-`, nil, nil, ErrEndPatternAtControl, "end pattern at control"},
		{`[a-b-c]`, nil, SyntaxGrep, ErrUnmatchedRangeSpecifierInCC, "unmatched range specifier in char-class"},
	}

	for _, tt := range tests {
		enc := tt.enc
		if enc == nil {
			enc = EncodingUTF8
		}

		_, err := New([]byte(tt.pattern), OptionNone, enc, tt.syntax)

		var e *Error
		if !assert.ErrorAs(t, err, &e, "pattern %q", tt.pattern) {
			continue
		}

		assert.Equal(t, tt.code, e.Code, "pattern %q", tt.pattern)
		if tt.msg != "" {
			assert.Equal(t, tt.msg, e.Error(), "pattern %q", tt.pattern)
		}
	}
}

func TestSyntaxDialects(t *testing.T) {
	tests := []struct {
		syntax  *Syntax
		pattern string
		subject string
		pos     int
	}{
		// literal metacharacters
		{SyntaxASIS, `a.c`, "abc a.c", 4},
		{SyntaxASIS, `\d`, `x\d`, 1},
		{SyntaxPosixBasic, `a+`, "aa a+", 3},
		{SyntaxPosixBasic, `\(a\)\{2\}`, "aa", 0},
		{SyntaxGrep, `a\+`, "xaa", 1},
		{SyntaxEmacs, `a\|b`, "b", 0},
		{SyntaxPosixExtended, `(a|b){2}`, "xab", 1},
		{SyntaxJava, `A`, "xA", 1},
		{SyntaxJava, `a++`, "aa", 0},
		{SyntaxPerl, `\Q.*\E`, "a.*", 1},
		{SyntaxPerl, `(?s)a.b`, "a\nb", 0},
		{SyntaxPerlNG, `(?<x>a)\k<x>`, "xaa", 1},
		{SyntaxRuby, `\M-a`, "á", 0},
		{SyntaxRuby, `\C-a`, "\x01", 0},
		{SyntaxRuby, `\cA`, "\x01", 0},
		{SyntaxRuby, `a{,}`, "a{,}", 0},
		{SyntaxRuby, `]`, "]", 0},
		{SyntaxRuby, `[\w-a]+`, "-a_", 0},
		{SyntaxRuby, `[^a]`, "ab", 1},
		{SyntaxRuby, `[^[:^alpha:]]+`, "1ab2", 1},
		{SyntaxRuby, `a\x{62}`, "ab", 0},
		{SyntaxRuby, `\101`, "A", 0},
		{SyntaxRuby, `(a)\k<-1>`, "aa", 0},
	}

	for _, tt := range tests {
		re := compile(t, tt.pattern, OptionNone, EncodingUTF8, tt.syntax)

		pos, _ := searchAll(t, re, tt.subject, OptionNone)
		assert.Equal(t, tt.pos, pos, "syntax %s, pattern %q", tt.syntax, tt.pattern)
	}
}

func TestQuantifierReduction(t *testing.T) {
	tests := []struct {
		pattern string
		subject string
		end     int
	}{
		{`a**`, "aaa", 3},
		{`(?:a+)?`, "aaa", 3},
		{`(?:a*)??`, "aaa", 0},
		{`(?:a+){2,3}`, "aaaa", 4},
		{`(?:a*){3}`, "aaa", 3},
	}

	for _, tt := range tests {
		re := compile(t, tt.pattern, OptionNone, EncodingUTF8, nil)

		n, err := re.Match([]byte(tt.subject), len(tt.subject), 0, nil, OptionNone)
		require.NoError(t, err)
		assert.Equal(t, tt.end, n, "pattern %q", tt.pattern)
	}
}

func captureWarnings(t *testing.T) (*[]string, *[]string) {
	t.Helper()

	var warns, verbWarns []string
	SetWarnFunc(func(msg string) { warns = append(warns, msg) })
	SetVerbWarnFunc(func(msg string) { verbWarns = append(verbWarns, msg) })

	t.Cleanup(func() {
		SetWarnFunc(nil)
		SetVerbWarnFunc(nil)
	})

	return &warns, &verbWarns
}

func TestWarnings(t *testing.T) {
	tests := []struct {
		pattern string
		warn    []string
		verb    []string
	}{
		{`a**`, nil, []string{"redundant nested repeat operator: /a**/"}},
		{`(?:a+)?`, nil, []string{"nested repeat operator + and ? was replaced with '*': /(?:a+)?/"}},
		{`a{2}*`, nil, nil},
		{`a]`, []string{"regular expression has ']' without escape: /a]/"}, nil},
		{`]`, nil, nil},
		{`[--a]`, []string{"character class has '-' without escape: /[--a]/"}, nil},
		{`[a-b-c]`, []string{"character class has '-' without escape: /[a-b-c]/"}, nil},
		{`[]a]`, []string{"character class has ']' without escape: /[]a]/"}, nil},
		{`[a[b]]`, nil, nil},
		{`a/b`, []string{}, nil},
	}

	for _, tt := range tests {
		warns, verbWarns := captureWarnings(t)

		_, err := New([]byte(tt.pattern), OptionNone, EncodingUTF8, nil)
		require.NoError(t, err, "pattern %q", tt.pattern)

		assert.ElementsMatch(t, tt.warn, *warns, "pattern %q", tt.pattern)
		assert.ElementsMatch(t, tt.verb, *verbWarns, "pattern %q", tt.pattern)
	}
}

func TestWarningFormat(t *testing.T) {
	msg := formatWithPattern([]rune("a/\x01\\/"), "test %d", 1)
	assert.Equal(t, `test 1: /a\/\x01\//`, msg)

	msg = formatWithPattern([]rune{'a', surrogateBase + 0xff}, "x")
	assert.Equal(t, `x: /a\xff/`, msg)
}

func TestWarningsDisabled(t *testing.T) {
	SetWarnFunc(nil)
	SetVerbWarnFunc(nil)

	_, err := New([]byte(`a**]`), OptionNone, EncodingUTF8, nil)
	assert.NoError(t, err)
}
