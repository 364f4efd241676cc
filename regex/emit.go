package regex

import (
	"strconv"
	"strings"
	"sync"
)

// variant describes the search dependent parts of a translated pattern.
type variant struct {
	anchored bool // the match must start at the search position
	notEmpty bool // the match must not be empty
	notBOL   bool
	notEOL   bool
}

// writer converts a parsed tree into a pattern of the backtracking engine.
// Every capture group is written as the named group "g<num>", so group numbers are
// independent of the numbering of the engine.
type writer struct {
	strings.Builder
	v    variant
	word string // class of word characters
}

// wordPatterns caches the written word classes of the encodings.
var wordPatterns sync.Map // map[*Encoding]string

// wordPattern returns the character class of word characters of the encoding.
func wordPattern(enc *Encoding) string {
	if w, ok := wordPatterns.Load(enc); ok {
		return w.(string)
	}

	var w writer
	w.writeClass(enc.ctypeClass(ctWord))

	s, _ := wordPatterns.LoadOrStore(enc, w.String())
	return s.(string)
}

// translate writes the full pattern of the tree for the given variant.
func translate(t *tree, enc *Encoding, v variant) string {
	w := writer{
		v:    v,
		word: wordPattern(enc),
	}

	if v.anchored || v.notEmpty {
		w.WriteString(`\G(?:`)
		w.writeNode(t.root)
		w.WriteByte(')')
		if v.notEmpty {
			w.WriteString(`(?!\G)`)
		}
	} else {
		w.writeNode(t.root)
	}

	return w.String()
}

// captureName returns the name of the capture group with the given number.
func captureName(num int) string {
	return "g" + strconv.Itoa(num)
}

// writeNode writes the regex node.
func (w *writer) writeNode(n *regexNode) {
	switch n.opcode {
	case opEmpty:
	case opLiteral:
		w.writeLiteral(n.c)
	case opSet:
		w.writeClass(n.params.([]rune))
	case opAnchor:
		w.writeAnchor(n.params.(anchor))
	case opBackref:
		p := n.params.(*backrefParams)

		if len(p.groups) == 1 {
			w.writeBackref(p.groups[0])
			break
		}

		// the group defined last is tried first
		w.WriteString("(?:")
		for i := len(p.groups) - 1; i >= 0; i-- {
			w.writeBackref(p.groups[i])
			if i > 0 {
				w.WriteByte('|')
			}
		}
		w.WriteByte(')')
	case opCapture:
		p := n.params.(captureParams)

		if p.g.num > 0 {
			w.WriteString("(?<")
			w.WriteString(captureName(p.g.num))
			w.WriteByte('>')
		} else {
			w.WriteString("(?:")
		}
		w.writeNode(p.body)
		w.WriteByte(')')
	case opOption:
		p := n.params.(optionParams)

		if p.ignoreCase {
			w.WriteString("(?i:")
		} else {
			w.WriteString("(?-i:")
		}
		w.writeNode(p.body)
		w.WriteByte(')')
	case opLook:
		p := n.params.(lookParams)

		w.WriteString("(?")
		if p.behind {
			w.WriteByte('<')
		}
		if p.negative {
			w.WriteByte('!')
		} else {
			w.WriteByte('=')
		}
		w.writeNode(p.body)
		w.WriteByte(')')
	case opAtomic:
		w.WriteString("(?>")
		w.writeNode(n.params.(*regexNode))
		w.WriteByte(')')
	case opRepeat:
		w.writeRepeat(n.params.(*repeatParams))
	case opConcat:
		for _, item := range n.params.([]*regexNode) {
			w.writeNode(item)
		}
	case opAlt:
		w.WriteString("(?:")
		for i, item := range n.params.([]*regexNode) {
			if i > 0 {
				w.WriteByte('|')
			}
			w.writeNode(item)
		}
		w.WriteByte(')')
	}
}

// writeBackref writes a reference to a single group.
func (w *writer) writeBackref(g *group) {
	w.WriteString(`\k<`)
	w.WriteString(captureName(g.num))
	w.WriteByte('>')
}

// writeRepeat writes a repetition.
func (w *writer) writeRepeat(q *repeatParams) {
	w.WriteString("(?:")
	w.writeNode(q.body)
	w.WriteByte(')')

	switch {
	case q.min == 0 && q.max == 1:
		w.WriteByte('?')
	case q.min == 0 && q.max == repeatInfinite:
		w.WriteByte('*')
	case q.min == 1 && q.max == repeatInfinite:
		w.WriteByte('+')
	default:
		w.WriteByte('{')
		w.WriteString(strconv.Itoa(q.min))
		if q.max != q.min {
			w.WriteByte(',')
			if q.max != repeatInfinite {
				w.WriteString(strconv.Itoa(q.max))
			}
		}
		w.WriteByte('}')
	}

	if !q.greedy {
		w.WriteByte('?')
	}
}

// writeAnchor writes an anchor.
// Line anchors only know `\n` as line separator; word anchors use the word class of the encoding.
func (w *writer) writeAnchor(a anchor) {
	switch a {
	case anchorBeginBuf:
		w.WriteString(`\A`)
	case anchorEndBuf:
		w.WriteString(`\z`)
	case anchorSemiEndBuf:
		if w.v.notEOL {
			w.WriteString(`(?=\n\z)`)
		} else {
			w.WriteString(`(?=\n?\z)`)
		}
	case anchorBeginLine:
		if w.v.notBOL {
			w.WriteString(`(?<=\n)(?!\z)`)
		} else {
			w.WriteString(`(?:\A|(?<=\n)(?!\z))`)
		}
	case anchorEndLine:
		if w.v.notEOL {
			w.WriteString(`(?=\n)`)
		} else {
			w.WriteString(`(?=\n|\z)`)
		}
	case anchorBeginPosition:
		w.WriteString(`\G`)
	case anchorWordBound:
		w.WriteString("(?:(?<=" + w.word + ")(?!" + w.word + ")|(?<!" + w.word + ")(?=" + w.word + "))")
	case anchorNotWordBound:
		w.WriteString("(?:(?<=" + w.word + ")(?=" + w.word + ")|(?<!" + w.word + ")(?!" + w.word + "))")
	case anchorWordBegin:
		w.WriteString("(?<!" + w.word + ")(?=" + w.word + ")")
	case anchorWordEnd:
		w.WriteString("(?<=" + w.word + ")(?!" + w.word + ")")
	}
}

// writeClass writes a clean character class.
// If the complement of the class has fewer ranges, the class is written negated.
func (w *writer) writeClass(class []rune) {
	if len(class) == 0 {
		w.WriteString("(?!)")
		return
	}

	w.WriteByte('[')

	if neg := negateClass(class); len(neg) > 0 && len(neg) < len(class) {
		w.WriteByte('^')
		class = neg
	}

	for i := 0; i < len(class); i += 2 {
		lo, hi := class[i], class[i+1]

		w.writeLiteral(lo)
		if hi > lo {
			if hi > lo+1 {
				w.WriteByte('-')
			}
			w.writeLiteral(hi)
		}
	}

	w.WriteByte(']')
}

// writeLiteral writes the literal to the writer.
// Letters, digits and the underscore are written as they are; other ASCII characters are
// escaped with a backslash. All other characters of the basic multilingual plane are
// written in the format "\uHHHH", so that undecodable bytes survive the conversion into a string.
func (w *writer) writeLiteral(c rune) {
	switch {
	case isASCIIWord(c):
		w.WriteRune(c)
	case c > ' ' && c < 0x7f:
		w.WriteByte('\\')
		w.WriteRune(c)
	case c <= 0xffff:
		s := strconv.FormatInt(int64(c), 16)

		w.WriteString(`\u`)
		w.WriteString(strings.Repeat("0", 4-len(s)))
		w.WriteString(s)
	default:
		w.WriteRune(c)
	}
}
