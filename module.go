// Package onig implements a Starlark module for regular expressions with the syntaxes, options and
// encodings of the Oniguruma engine.
package onig

import (
	"fmt"
	"sync"

	"go.starlark.net/starlark"
	"go.uber.org/zap"

	"github.com/magnetde/starlark-onig/lowlevel"
	"github.com/magnetde/starlark-onig/regex"
)

// Module is the Starlark module type.
// A new type is implemented instead of using the `starlarkstruct.Module` type,
// since the module contains a cache of compiled patterns and an assignable warning function.
type Module struct {
	members starlark.StringDict
	cache   *regexpCache

	syntax   int
	encoding int

	mu     sync.Mutex
	warnFn starlark.Value
}

// NewModule creates a new module.
func NewModule(opts ...Option) (*Module, error) {
	s := defaultSettings()
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return nil, err
		}
	}

	if s.logger != nil {
		SetLogger(s.logger)
	}
	if s.codec != "" {
		if err := lowlevel.SetDefaultCodec(s.codec); err != nil {
			return nil, err
		}
	}
	if err := lowlevel.Init(); err != nil {
		return nil, err
	}

	members := starlark.StringDict{
		"Regexp":  starlark.NewBuiltin("Regexp", moduleCompile),
		"compile": starlark.NewBuiltin("compile", moduleCompile),
		"factory": starlark.NewBuiltin("factory", moduleFactory),
		"purge":   starlark.NewBuiltin("purge", modulePurge),
		"escape":  starlark.NewBuiltin("escape", escape),
		"Scanner": starlark.NewBuiltin("Scanner", moduleScanner),
		"Match":   starlark.NewBuiltin("Match", newMatchFromState),

		"set_warn_func": starlark.NewBuiltin("set_warn_func", moduleSetWarnFunc),

		"match":       starlark.NewBuiltin("match", moduleMatch),
		"search":      starlark.NewBuiltin("search", moduleSearch),
		"find":        starlark.NewBuiltin("find", moduleFind),
		"findstrings": starlark.NewBuiltin("findstrings", moduleFindstrings),
		"sub":         starlark.NewBuiltin("sub", moduleSub),
		"subn":        starlark.NewBuiltin("subn", moduleSub),
		"split":       starlark.NewBuiltin("split", moduleSplit),

		"regexp_match":          starlark.NewBuiltin("regexp_match", rawRegexpMatch),
		"match_get_groups":      starlark.NewBuiltin("match_get_groups", rawMatchGetGroups),
		"match_get_group_names": starlark.NewBuiltin("match_get_group_names", rawMatchGetGroupNames),
		"match_extract_group":   starlark.NewBuiltin("match_extract_group", rawMatchExtractGroup),
	}

	addConstants(members)

	m := Module{
		members:  members,
		cache:    newRegexpCache(s.cacheSize),
		syntax:   s.syntax,
		encoding: s.encoding,
		warnFn:   starlark.NewBuiltin("warn_func", defaultWarnFunc),
	}

	Logger().Debug("module created",
		zap.Int("cache_size", s.cacheSize),
		zap.Int("syntax", s.syntax),
		zap.Int("encoding", s.encoding),
		zap.String("codec", lowlevel.DefaultCodec().Name()))

	return &m, nil
}

// Check, if the type satisfies the interfaces.
var (
	_ starlark.Value       = (*Module)(nil)
	_ starlark.HasAttrs    = (*Module)(nil)
	_ starlark.HasSetField = (*Module)(nil)
)

func (m *Module) Freeze()               { m.members.Freeze() }
func (m *Module) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable: %s", m.Type()) }
func (m *Module) String() string        { return "<module onig>" }
func (m *Module) Truth() starlark.Bool  { return true }
func (m *Module) Type() string          { return "module" }

func (m *Module) Attr(name string) (starlark.Value, error) {
	if name == "warn_func" {
		return m.warnFunc(), nil
	}

	if v, ok := m.members[name]; ok {
		if b, ok := v.(*starlark.Builtin); ok {
			return b.BindReceiver(m), nil
		}

		return v, nil
	}

	return nil, nil
}

func (m *Module) AttrNames() []string {
	return append(m.members.Keys(), "warn_func")
}

// SetField replaces the warning function. It is the only assignable member.
func (m *Module) SetField(name string, v starlark.Value) error {
	if name != "warn_func" {
		return starlark.NoSuchAttrError(fmt.Sprintf("cannot assign to field %s of module", name))
	}

	return m.setWarnFunc(v)
}

// compile compiles a pattern. If the pattern is already in the cache, the compiled pattern is returned from the cache.
// Warnings of the compilation are passed to the warning function of the module.
func (m *Module) compile(thread *starlark.Thread, pattern strOrBytes, flags int, encoding, syntax optionalInt) (*Regexp, error) {
	enc := lowlevel.EncodingUnspecified
	if pattern.isString {
		enc = encoding.or(enc)
	} else {
		enc = encoding.or(m.encoding)
	}

	key := cacheKey{
		pattern:  pattern.value,
		isString: pattern.isString,
		flags:    flags,
		encoding: enc,
		syntax:   syntax.or(m.syntax),
	}

	var warnings []string // set, if this call compiled the pattern

	r, err := m.cache.get(key, func() (*Regexp, error) {
		re, w, err := collectWarnings(func() (*lowlevel.Regexp, error) {
			return lowlevel.Compile(pattern.lowlevel(), regex.Option(flags), key.encoding, key.syntax)
		})

		warnings = w
		if err != nil {
			return nil, starlarkError(err)
		}

		return newRegexp(re, pattern), nil
	})

	for _, w := range warnings {
		m.warn(thread, w)
	}

	if err != nil {
		return nil, err
	}

	return r, nil
}

// purge clears the cache of compiled patterns.
func (m *Module) purge() {
	m.cache.purge()
}

// compilePattern returns a compiled pattern or compiles a pattern with the default encoding and syntax.
func compilePattern(thread *starlark.Thread, b *starlark.Builtin, p patternParam, flags int) (*Regexp, error) {
	if p.compiled != nil {
		if flags != 0 {
			return nil, typeError("cannot process flags argument with a compiled pattern")
		}

		return p.compiled, nil
	}

	return b.Receiver().(*Module).compile(thread, p.raw, flags, optionalInt{}, optionalInt{})
}

// moduleCompile compiles a pattern into a `Regexp` object.
// An encoding may only be given for byte patterns; string patterns always match code points.
func moduleCompile(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pattern          strOrBytes
		flags            int
		encoding, syntax optionalInt
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "flags?", &flags, "encoding?", &encoding, "syntax?", &syntax); err != nil {
		return nil, err
	}

	return b.Receiver().(*Module).compile(thread, pattern, flags, encoding, syntax)
}

// moduleFactory returns a function, that compiles patterns with the given flags, encoding and syntax.
func moduleFactory(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		flags            int
		encoding, syntax optionalInt
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "flags?", &flags, "encoding?", &encoding, "syntax?", &syntax); err != nil {
		return nil, err
	}

	m := b.Receiver().(*Module)

	create := func(thread *starlark.Thread, c *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var pattern strOrBytes
		if err := starlark.UnpackArgs(c.Name(), args, kwargs, "pattern", &pattern); err != nil {
			return nil, err
		}

		return m.compile(thread, pattern, flags, encoding, syntax)
	}

	return starlark.NewBuiltin("create", create), nil
}

func modulePurge(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}

	b.Receiver().(*Module).purge()
	return starlark.None, nil
}

func moduleScanner(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var str strOrBytes
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "string", &str); err != nil {
		return nil, err
	}

	return newScanner(b.Receiver().(*Module), str), nil
}

func moduleSetWarnFunc(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var fn starlark.Value
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "func", &fn); err != nil {
		return nil, err
	}

	if err := b.Receiver().(*Module).setWarnFunc(fn); err != nil {
		return nil, err
	}

	return starlark.None, nil
}

// patternArgs unpacks the common `pattern, string, flags=0, pos=0, endpos=-1` parameters and compiles the pattern.
func patternArgs(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (*Regexp, strOrBytes, int, int, error) {
	var (
		pattern patternParam
		str     strOrBytes
		flags   int
		pos     = 0
		endpos  = -1
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "string", &str, "flags?", &flags, "pos?", &pos, "endpos?", &endpos); err != nil {
		return nil, strOrBytes{}, 0, 0, err
	}

	r, err := compilePattern(thread, b, pattern, flags)
	if err != nil {
		return nil, strOrBytes{}, 0, 0, err
	}

	return r, str, pos, endpos, nil
}

// moduleMatch compiles the pattern and matches it at the beginning of the string.
func moduleMatch(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	r, str, pos, endpos, err := patternArgs(thread, b, args, kwargs)
	if err != nil {
		return nil, err
	}

	return matchOrNone(r.invoke(str.lowlevel(), str.starlark(), pos, endpos, true))
}

// moduleSearch compiles the pattern and searches the string for the first match.
func moduleSearch(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	r, str, pos, endpos, err := patternArgs(thread, b, args, kwargs)
	if err != nil {
		return nil, err
	}

	return matchOrNone(r.invoke(str.lowlevel(), str.starlark(), pos, endpos, false))
}

func moduleFind(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	r, str, pos, endpos, err := patternArgs(thread, b, args, kwargs)
	if err != nil {
		return nil, err
	}

	var l []starlark.Value

	err = r.find(str, pos, endpos, func(m *Match) bool {
		l = append(l, m)
		return true
	})
	if err != nil {
		return nil, err
	}

	return starlark.NewList(l), nil
}

func moduleFindstrings(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	r, str, pos, endpos, err := patternArgs(thread, b, args, kwargs)
	if err != nil {
		return nil, err
	}

	var l []starlark.Value

	err = r.find(str, pos, endpos, func(m *Match) bool {
		v, _ := m.groupValue(0)
		l = append(l, v)
		return true
	})
	if err != nil {
		return nil, err
	}

	return starlark.NewList(l), nil
}

// moduleSub compiles the pattern and replaces its matches. See `Regexp.sub`.
func moduleSub(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pattern      patternParam
		repl         starlark.Value
		str          strOrBytes
		count, flags int
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "repl", &repl, "string", &str, "count?", &count, "flags?", &flags); err != nil {
		return nil, err
	}

	r, err := compilePattern(thread, b, pattern, flags)
	if err != nil {
		return nil, err
	}

	return r.sub(thread, repl, str, count, 0, -1, b.Name() == "subn")
}

// moduleSplit compiles the pattern and splits the string by its matches. See `Regexp.split`.
func moduleSplit(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		pattern         patternParam
		str             strOrBytes
		maxSplit, flags int
		flat            bool
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern, "string", &str, "maxsplit?", &maxSplit, "flags?", &flags, "flat?", &flat); err != nil {
		return nil, err
	}

	r, err := compilePattern(thread, b, pattern, flags)
	if err != nil {
		return nil, err
	}

	return r.split(str, maxSplit, 0, -1, flat)
}
