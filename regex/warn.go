package regex

import (
	"fmt"
	"strings"
	"sync/atomic"
	"unicode"
)

// WarnFunc receives a warning message of the compiler.
type WarnFunc func(msg string)

var (
	warnFunc     atomic.Pointer[WarnFunc]
	verbWarnFunc atomic.Pointer[WarnFunc]
)

// SetWarnFunc sets the receiver of warnings. A nil function disables warnings.
func SetWarnFunc(f WarnFunc) {
	storeWarn(&warnFunc, f)
}

// SetVerbWarnFunc sets the receiver of verbose warnings. A nil function disables them.
func SetVerbWarnFunc(f WarnFunc) {
	storeWarn(&verbWarnFunc, f)
}

func storeWarn(p *atomic.Pointer[WarnFunc], f WarnFunc) {
	if f == nil {
		p.Store(nil)
	} else {
		p.Store(&f)
	}
}

func loadWarn(p *atomic.Pointer[WarnFunc]) WarnFunc {
	if f := p.Load(); f != nil {
		return *f
	}
	return nil
}

// warn sends a warning about the pattern to the warning receiver.
func (p *parser) warn(format string, args ...any) {
	if f := loadWarn(&warnFunc); f != nil {
		f(formatWithPattern(p.src.orig, format, args...))
	}
}

// verbWarn sends a verbose warning about the pattern to the verbose warning receiver.
func (p *parser) verbWarn(format string, args ...any) {
	if f := loadWarn(&verbWarnFunc); f != nil {
		f(formatWithPattern(p.src.orig, format, args...))
	}
}

// formatWithPattern formats a message and appends the pattern in the form ": /pattern/".
// Slashes are escaped, non-printable characters are written as hex escapes.
func formatWithPattern(pattern []rune, format string, args ...any) string {
	var b strings.Builder
	fmt.Fprintf(&b, format, args...)
	b.WriteString(": /")

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]

		switch {
		case c == '\\':
			b.WriteRune(c)
			if i+1 < len(pattern) {
				i++
				b.WriteRune(pattern[i])
			}
		case c == '/':
			b.WriteString(`\/`)
		case isSurrogateEscape(c):
			fmt.Fprintf(&b, `\x%02x`, c-surrogateBase)
		case unicode.IsPrint(c) || unicode.IsSpace(c):
			b.WriteRune(c)
		case c < 0x100:
			fmt.Fprintf(&b, `\x%02x`, c)
		default:
			fmt.Fprintf(&b, `\x{%x}`, c)
		}
	}

	b.WriteByte('/')
	return b.String()
}
