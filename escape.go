package onig

import (
	"strings"

	"go.starlark.net/starlark"
)

// specialEscapes are the replacements of control characters, that cannot be escaped with a backslash.
var specialEscapes = map[rune]string{
	'\r': `\r`,
	'\n': `\n`,
	'\t': `\t`,
	'\b': `[\b]`,
	'\v': `\v`,
	'\f': `\f`,
	0:    `\0`,
}

func isAlnum(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// escapePattern escapes all non-alphanumeric characters of the pattern, so the returned string
// is a regular expression matching the literal text.
// Byte patterns are escaped byte by byte, string patterns character by character.
func escapePattern(s strOrBytes) string {
	var b strings.Builder
	b.Grow(2 * len(s.value))

	write := func(c rune) {
		if isAlnum(c) {
			b.WriteRune(c)
			return
		}

		if e, ok := specialEscapes[c]; ok {
			b.WriteString(e)
			return
		}

		b.WriteByte('\\')
		b.WriteRune(c)
	}

	if s.isString {
		for _, c := range s.value {
			write(c)
		}

		return b.String()
	}

	for i := 0; i < len(s.value); i++ {
		c := s.value[i]

		if c >= 0x80 { // not a character; copy the raw byte
			b.WriteByte('\\')
			b.WriteByte(c)
			continue
		}

		write(rune(c))
	}

	return b.String()
}

// escape escapes all non-alphanumeric characters in the pattern.
func escape(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var pattern strOrBytes
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pattern", &pattern); err != nil {
		return nil, err
	}

	pattern.value = escapePattern(pattern)
	return pattern.starlark(), nil
}
