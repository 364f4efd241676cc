package onig

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"

	"github.com/magnetde/starlark-onig/lowlevel"
)

func newTestModule(t *testing.T, opts ...Option) *Module {
	t.Helper()

	m, err := NewModule(opts...)
	require.NoError(t, err)

	return m
}

// call calls a member of the module.
func call(t *testing.T, m *Module, name string, args ...starlark.Value) (starlark.Value, error) {
	t.Helper()

	fn, err := m.Attr(name)
	require.NoError(t, err)
	require.NotNil(t, fn, name)

	thread := &starlark.Thread{Name: t.Name()}
	return starlark.Call(thread, fn, args, nil)
}

func TestWarnFunc(t *testing.T) {
	m := newTestModule(t)

	var warnings []string
	collect := starlark.NewBuiltin("collect", func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, _ []starlark.Tuple) (starlark.Value, error) {
		warnings = append(warnings, string(args[0].(starlark.String)))
		return starlark.None, nil
	})
	require.NoError(t, m.SetField("warn_func", collect))

	p := strOrBytes{value: "a]", isString: true}
	ruby := optionalInt{value: lowlevel.SyntaxRuby, set: true}

	_, err := m.compile(nil, p, 0, optionalInt{}, ruby)
	require.NoError(t, err)
	assert.Equal(t, []string{"regular expression has ']' without escape: /a]/"}, warnings)

	// errors of the warning function are discarded
	failing := starlark.NewBuiltin("failing", func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
		return nil, errors.New("boom")
	})
	require.NoError(t, m.setWarnFunc(failing))

	_, err = m.compile(nil, strOrBytes{value: "b]", isString: true}, 0, optionalInt{}, ruby)
	assert.NoError(t, err)

	require.NoError(t, m.setWarnFunc(starlark.None))
	assert.Equal(t, starlark.None, m.warnFunc())

	err = m.SetField("warn_func", starlark.MakeInt(1))
	assert.EqualError(t, err, "TypeError: warn_func must be callable or None, got int")

	err = m.SetField("cache", starlark.None)
	assert.Error(t, err)
}

func TestCollectWarnings(t *testing.T) {
	installWarningHook()

	var outside []string
	prev := previousHook
	previousHook = func(msg string) { outside = append(outside, msg) }
	t.Cleanup(func() { previousHook = prev })

	_, warnings, err := collectWarnings(func() (*lowlevel.Regexp, error) {
		return lowlevel.Compile(lowlevel.Bytes([]byte("x]")), 0, lowlevel.EncodingUnspecified, lowlevel.SyntaxRuby)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"regular expression has ']' without escape: /x]/"}, warnings)
	assert.Empty(t, outside)

	// warnings outside of a module compilation go to the previous hook
	_, err = lowlevel.Compile(lowlevel.Bytes([]byte("y]")), 0, lowlevel.EncodingUnspecified, lowlevel.SyntaxRuby)
	require.NoError(t, err)
	assert.Equal(t, []string{"regular expression has ']' without escape: /y]/"}, outside)
}

func TestWarningHookInstalled(t *testing.T) {
	m := newTestModule(t)
	_, err := call(t, m, "compile", starlark.String("installed"))
	require.NoError(t, err)

	var outside []string
	prev := previousHook
	previousHook = func(msg string) { outside = append(outside, msg) }
	t.Cleanup(func() { previousHook = prev })

	// the hook of the binding is the one of the module
	lowlevel.WarningHook()("direct")
	assert.Equal(t, []string{"direct"}, outside)
}

func TestCompileWarningsOnError(t *testing.T) {
	m := newTestModule(t, WithCacheSize(0))

	var warnings []string
	require.NoError(t, m.setWarnFunc(starlark.NewBuiltin("collect", func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, _ []starlark.Tuple) (starlark.Value, error) {
		warnings = append(warnings, string(args[0].(starlark.String)))
		return starlark.None, nil
	})))

	_, err := m.compile(nil, strOrBytes{value: "a](", isString: true}, 0, optionalInt{}, optionalInt{value: lowlevel.SyntaxRuby, set: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RegexpError: ")
	assert.NotEmpty(t, warnings)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		err  error
		want string
		kind lowlevel.Kind
	}{
		{&lowlevel.UsageError{Op: "match", Err: lowlevel.ErrNegativePos}, "ValueError: pos must be >= 0", lowlevel.KindValue},
		{&lowlevel.UsageError{Op: "compile", Err: lowlevel.ErrPatternType}, "TypeError: pattern must be string or unicode", lowlevel.KindType},
		{&lowlevel.UsageError{Op: "match_extract_group", Err: lowlevel.ErrNoSuchGroup}, "IndexError: no such group", lowlevel.KindIndex},
		{&lowlevel.EncodingError{Codec: "utf-8", Op: "decode", Err: errors.New("invalid UTF-8 sequence")}, "UnicodeError: 'utf-8' codec can't decode string: invalid UTF-8 sequence", lowlevel.KindEncoding},
	}

	for _, tt := range tests {
		err := starlarkError(tt.err)

		var e *Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, tt.kind, e.Kind)
		assert.EqualError(t, err, tt.want)
		assert.ErrorIs(t, err, tt.err)

		// converting twice keeps the message
		assert.Equal(t, err, starlarkError(err))
	}

	other := errors.New("other")
	assert.Equal(t, other, starlarkError(other))
	assert.NoError(t, starlarkError(nil))

	assert.EqualError(t, runtimeError("Cannot rewind beyond start position"), "RuntimeError: Cannot rewind beyond start position")
}

func TestModuleFunctions(t *testing.T) {
	m := newTestModule(t)

	v, err := call(t, m, "findstrings", starlark.String(`\w+`), starlark.String("ab cd"))
	require.NoError(t, err)
	assert.Equal(t, `["ab", "cd"]`, v.String())

	v, err = call(t, m, "sub", starlark.String("o"), starlark.String("0"), starlark.String("foo"))
	require.NoError(t, err)
	assert.Equal(t, starlark.String("f00"), v)

	v, err = call(t, m, "split", starlark.Bytes(" "), starlark.Bytes("a b"))
	require.NoError(t, err)
	assert.Equal(t, `[b"a", b"b"]`, v.String())

	_, err = call(t, m, "compile", starlark.String("("))
	assert.ErrorContains(t, err, "RegexpError: end pattern with unmatched parenthesis")

	assert.Contains(t, m.AttrNames(), "warn_func")
	assert.Contains(t, m.AttrNames(), "ENCODING_UTF8")
}

func TestFindstringsLongSubject(t *testing.T) {
	m := newTestModule(t)

	tests := []struct {
		pattern starlark.Value
		subject starlark.Value
	}{
		{starlark.String("a"), starlark.String(strings.Repeat("a", 8000))},
		{starlark.Bytes("a"), starlark.Bytes(strings.Repeat("a", 8000))},
		{starlark.String("ä"), starlark.String(strings.Repeat("ä", 8000))},
	}

	for _, tt := range tests {
		v, err := call(t, m, "findstrings", tt.pattern, tt.subject)
		require.NoError(t, err)
		assert.Equal(t, 8000, v.(*starlark.List).Len(), tt.pattern.String())
	}
}

func BenchmarkFindstrings(b *testing.B) {
	m, err := NewModule()
	require.NoError(b, err)

	fn, err := m.Attr("findstrings")
	require.NoError(b, err)

	for _, n := range []int{2000, 4000, 8000} {
		subject := starlark.String(strings.Repeat("a", n))
		thread := &starlark.Thread{Name: "bench"}

		b.Run(fmt.Sprint(n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := starlark.Call(thread, fn, starlark.Tuple{starlark.String("a"), subject}, nil); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in   strOrBytes
		want string
	}{
		{strOrBytes{value: "abc", isString: true}, "abc"},
		{strOrBytes{value: "a.b*c", isString: true}, `a\.b\*c`},
		{strOrBytes{value: "a\tb\x00", isString: true}, `a\tb\0`},
		{strOrBytes{value: "\b", isString: true}, `[\b]`},
		{strOrBytes{value: "ä", isString: true}, `\ä`},
		{strOrBytes{value: "a\xe4", isString: false}, "a\\\xe4"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, escapePattern(tt.in), tt.in.value)
	}
}

func TestParseTemplate(t *testing.T) {
	tmpl := parseTemplate(lowlevel.WideString(`a\1b\g<name>\g<12>\x\`))

	want := []templatePart{
		{literal: lowlevel.WideString("a"), index: -1},
		{index: 1},
		{literal: lowlevel.WideString("b"), index: -1},
		{index: -1, name: "name"},
		{index: 12},
		{literal: lowlevel.WideString(`\`), index: -1},
		{literal: lowlevel.WideString(`x\`), index: -1},
	}

	assert.Equal(t, want, tmpl.parts)
}
