package onig

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magnetde/starlark-onig/lowlevel"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(`
cache_size: 8
syntax: perl-ng
encoding: iso-8859-1
default_codec: utf-8
log_level: info
`))
	require.NoError(t, err)

	require.NotNil(t, cfg.CacheSize)
	assert.Equal(t, 8, *cfg.CacheSize)
	assert.Equal(t, "perl-ng", cfg.Syntax.Name)
	assert.True(t, cfg.Syntax.IsSet())
	assert.Equal(t, "iso-8859-1", cfg.Encoding.Name)
	assert.Equal(t, "utf-8", cfg.DefaultCodec)
	assert.Equal(t, "info", cfg.LogLevel)

	s := defaultSettings()
	s.logger = Logger() // keep the logger of the tests
	require.NoError(t, cfg.apply(&s))

	assert.Equal(t, 8, s.cacheSize)
	assert.Equal(t, lowlevel.SyntaxPerlNG, s.syntax)
	assert.Equal(t, lowlevel.EncodingISO8859_1, s.encoding)
	assert.Equal(t, "utf-8", s.codec)
}

func TestLoadConfigCodes(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader("syntax: 9\nencoding: 17\n"))
	require.NoError(t, err)

	assert.Equal(t, Code{Value: lowlevel.SyntaxRuby, set: true}, cfg.Syntax)
	assert.Equal(t, Code{Value: lowlevel.EncodingUTF8, set: true}, cfg.Encoding)
	assert.Nil(t, cfg.CacheSize)
}

func TestLoadConfigEmpty(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(""))
	require.NoError(t, err)

	assert.Equal(t, &Config{}, cfg)

	s := defaultSettings()
	require.NoError(t, cfg.apply(&s))
	assert.Equal(t, defaultSettings(), s)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		err  string
	}{
		{"unknown key", "cache: 1\n", "field cache not found"},
		{"negative cache size", "cache_size: -1\n", "cache_size must be >= 0"},
		{"unknown syntax", "syntax: tcl\n", `unknown syntax "tcl"`},
		{"unknown encoding", "encoding: ebcdic\n", `unknown encoding "ebcdic"`},
		{"unknown codec", "default_codec: no-such-codec\n", "no-such-codec"},
		{"invalid level", "log_level: loud\n", "loud"},
		{"sequence", "syntax: [ruby]\n", "expected a name or a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.err)
		})
	}
}

func TestLookupNames(t *testing.T) {
	for name, want := range map[string]int{
		"ruby":        lowlevel.SyntaxRuby,
		"SYNTAX_PERL": lowlevel.SyntaxPerl,
		"gnu-regex":   lowlevel.SyntaxGnuRegex,
		"default":     lowlevel.SyntaxDefault,
	} {
		code, err := lookupSyntax(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, code, name)
	}

	for name, want := range map[string]int{
		"utf8":           lowlevel.EncodingUTF8,
		"UTF-8":          lowlevel.EncodingUTF8,
		"utf-16le":       lowlevel.EncodingUTF16LE,
		"ENCODING_SJIS":  lowlevel.EncodingSJIS,
		" iso-8859-15 ":  lowlevel.EncodingISO8859_15,
		"koi8-r":         lowlevel.EncodingKOI8R,
		"encoding_ascii": lowlevel.EncodingASCII,
	} {
		code, err := lookupEncoding(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, code, name)
	}
}

func TestOptions(t *testing.T) {
	_, err := NewModule(WithCacheSize(-1))
	assert.ErrorContains(t, err, "cache size must be >= 0")

	_, err = NewModule(WithDefaultCodec("no-such-codec"))
	assert.Error(t, err)

	m, err := NewModule(WithConfig(nil), WithCacheSize(0), WithDefaultSyntax(lowlevel.SyntaxPerl))
	require.NoError(t, err)

	assert.Equal(t, 0, m.cache.size)
	assert.Equal(t, lowlevel.SyntaxPerl, m.syntax)
	assert.Equal(t, lowlevel.EncodingUnspecified, m.encoding)
}
