package regex

// ccTokenKind is the type of a token inside of a character class.
type ccTokenKind int

const (
	ccEOT   ccTokenKind = iota // end of the pattern
	ccChar                     // character
	ccRaw                      // raw byte
	ccClass                    // \w, \p{...}, ...
	ccPosix                    // [:
	ccRange                    // -
	ccAnd                      // &&
	ccOpen                     // nested [
	ccClose                    // ]
)

// ccToken is a token inside of a character class.
type ccToken struct {
	kind    ccTokenKind
	c       rune
	escaped bool
	class   []rune
}

// posixBracketOrder is the order, in which POSIX bracket names are compared.
var posixBracketOrder = []string{
	"alnum", "alpha", "blank", "cntrl", "digit", "graph", "lower",
	"print", "punct", "space", "upper", "xdigit", "word", "ascii",
}

// fetchTokenInCC reads the next token inside of a character class.
func (p *parser) fetchTokenInCC() (ccToken, error) {
	s := &p.src
	syn := p.syntax

	c, ok := s.read()
	if !ok {
		return ccToken{kind: ccEOT}, nil
	}

	tok := ccToken{kind: ccChar, c: c}

	switch c {
	case ']':
		tok.kind = ccClose
	case '-':
		tok.kind = ccRange
	case '\\':
		if !syn.isBv(SynBackslashEscapeInCC) {
			break
		}

		c, ok = s.read()
		if !ok {
			return tok, newError(ErrEndPatternAtEscape)
		}

		tok.c = c
		tok.escaped = true

		switch c {
		case 'w', 'W':
			tok.kind = ccClass
			tok.class = p.ctypeClass(ctWord, c == 'W')
		case 'd', 'D':
			tok.kind = ccClass
			tok.class = p.ctypeClass(ctDigit, c == 'D')
		case 's', 'S':
			tok.kind = ccClass
			tok.class = p.ctypeClass(ctSpace, c == 'S')
		case 'h', 'H':
			if syn.isOp2(SynOp2EscHXDigit) {
				tok.kind = ccClass
				tok.class = p.ctypeClass(ctXDigit, c == 'H')
			}
		case 'p', 'P':
			if s.peekIs('{') && syn.isOp2(SynOp2EscPBraceCharProperty) {
				s.read()
				class, err := p.fetchProperty(c == 'P')
				if err != nil {
					return tok, err
				}
				tok.kind = ccClass
				tok.class = class
			}
		case 'x':
			v, raw, ok, err := p.scanHex()
			if err != nil {
				return tok, err
			}
			if ok {
				tok.c = v
				if raw {
					tok.kind = ccRaw
				}
			}
		case 'u':
			if syn.isOp2(SynOp2EscUHex4) {
				v, _ := s.nextHex(4)
				c, err := p.codePoint(v)
				if err != nil {
					return tok, err
				}
				tok.c = c
			}
		case '0', '1', '2', '3', '4', '5', '6', '7':
			if syn.isOp(SynOpEscOctal3) {
				s.unread()
				v, _ := s.nextOct(3)
				tok.kind = ccRaw
				tok.c = rune(v & 0xff)
			}
		default:
			s.unread()
			v, err := p.escapedValue()
			if err != nil {
				return tok, err
			}
			if v != c {
				c, err := p.codePoint(int64(v))
				if err != nil {
					return tok, err
				}
				tok.c = c
			}
		}

	case '[':
		if syn.isOp(SynOpPosixBracket) && s.peekIs(':') {
			s.read()
			if s.containsBefore(":]", ']') {
				tok.kind = ccPosix
				break
			}
			s.unread()
		}

		if syn.isOp2(SynOp2CClassSetOp) {
			tok.kind = ccOpen
		} else {
			p.ccEscWarn("[")
		}

	case '&':
		if syn.isOp2(SynOp2CClassSetOp) && s.match('&') {
			tok.kind = ccAnd
		}
	}

	return tok, nil
}

// parsePosixBracket reads a POSIX bracket like `[:alpha:]`; the `[:` is already read.
// If the text is no POSIX bracket, false is returned.
func (p *parser) parsePosixBracket() ([]rune, bool, error) {
	s := &p.src

	negative := s.match('^')

	if len(s.orig)-s.tell() >= posixBracketNameMinLen+3 {
		for _, name := range posixBracketOrder {
			if !s.hasPrefix(name) {
				continue
			}

			s.seek(s.tell() + len(name))
			if !s.hasPrefix(":]") {
				return nil, false, newError(ErrInvalidPosixBracketType)
			}
			s.seek(s.tell() + 2)

			return p.ctypeClass(posixBracketNames[name], negative), true, nil
		}
	}

	// detect invalid names like `[:foo:]`
	i := 0
	var c rune
	for !s.eof() {
		c, _ = s.peek()
		if c == ':' || c == ']' {
			break
		}
		s.read()
		if i++; i > posixBracketCheckLimit {
			break
		}
	}

	if c == ':' && !s.eof() {
		s.read()
		if c, ok := s.read(); ok && c == ']' {
			return nil, false, newError(ErrInvalidPosixBracketType)
		}
	}

	return nil, false, nil
}

// ccState is the state of the character class parser.
type ccState int

const (
	ccsStart    ccState = iota // no value was read
	ccsValue                   // a single value is pending
	ccsRange                   // a value and `-` were read
	ccsComplete                // the last item is complete
)

// classBuilder collects the items of a character class.
type classBuilder struct {
	p     *parser
	r     []rune // unclean ranges of the current operand
	left  []rune // clean left operand of `&&`
	and   bool   // at least one `&&` was read
	state ccState
	v     rune // pending value
}

// value adds a single character.
func (b *classBuilder) value(c rune) error {
	switch b.state {
	case ccsValue:
		b.r = appendRange(b.r, b.v, b.v)
	case ccsRange:
		if b.v > c {
			if !b.p.syntax.isBv(SynAllowEmptyRangeInCC) {
				return newError(ErrEmptyRangeInCharClass)
			}
		} else {
			b.r = appendRange(b.r, b.v, c)
		}
		b.state = ccsComplete
		b.v = c
		return nil
	default:
		b.state = ccsValue
	}

	b.v = c
	return nil
}

// flush adds the pending value.
func (b *classBuilder) flush() {
	if b.state == ccsValue {
		b.r = appendRange(b.r, b.v, b.v)
		b.state = ccsComplete
	}
}

// class adds a character type or a nested class.
func (b *classBuilder) class(x []rune) error {
	if b.state == ccsRange {
		return newError(ErrCharClassValueAtEndOfRange)
	}

	b.flush()
	b.r = append(b.r, x...)
	b.state = ccsComplete

	return nil
}

// intersect starts a new operand of `&&`.
func (b *classBuilder) intersect() {
	b.flush()

	c := cleanClass(&b.r)
	if b.and {
		b.left = intersectClass(b.left, c)
	} else {
		b.left = append([]rune(nil), c...)
		b.and = true
	}

	b.r = nil
	b.state = ccsStart
}

// result returns the clean class.
func (b *classBuilder) result() []rune {
	b.flush()

	c := cleanClass(&b.r)
	if b.and {
		c = intersectClass(b.left, c)
	}

	return c
}

// parseCharClass parses a character class; the opening bracket is already read.
func (p *parser) parseCharClass() ([]rune, error) {
	s := &p.src

	tok, err := p.fetchTokenInCC()
	if err != nil {
		return nil, err
	}

	negative := false
	if tok.kind == ccChar && tok.c == '^' && !tok.escaped {
		negative = true
		if tok, err = p.fetchTokenInCC(); err != nil {
			return nil, err
		}
	}

	if tok.kind == ccClose {
		if !s.containsUnescaped(']') {
			return nil, newError(ErrEmptyCharClass)
		}
		p.ccEscWarn("]")
		tok.kind = ccChar // allow []...]
	}

	b := &classBuilder{p: p}
	andStart := false

	for tok.kind != ccClose {
		fetched := false

		switch tok.kind {
		case ccChar:
			err = b.value(tok.c)

		case ccRaw:
			buf := []byte{byte(tok.c)}
			for {
				if tok, err = p.fetchTokenInCC(); err != nil {
					return nil, err
				}
				if tok.kind != ccRaw {
					break
				}
				buf = append(buf, byte(tok.c))
			}
			fetched = true

			for _, c := range p.decodeRaw(buf) {
				if err = b.value(c); err != nil {
					break
				}
			}

		case ccClass:
			err = b.class(tok.class)

		case ccPosix:
			start := s.tell()

			class, ok, perr := p.parsePosixBracket()
			if perr != nil {
				return nil, perr
			}

			if ok {
				err = b.class(class)
			} else {
				p.ccEscWarn("[")
				s.seek(start - 1) // continue after the bracket
				err = b.value('[')
			}

		case ccRange:
			switch b.state {
			case ccsValue:
				if tok, err = p.fetchTokenInCC(); err != nil {
					return nil, err
				}
				fetched = true

				switch tok.kind {
				case ccClose: // allow [x-]
					err = b.value('-')
				case ccAnd:
					p.ccEscWarn("-")
					err = b.value('-')
				default:
					b.state = ccsRange
				}

			case ccsStart: // [-xa] is allowed
				c := tok.c
				if tok, err = p.fetchTokenInCC(); err != nil {
					return nil, err
				}
				fetched = true

				if tok.kind == ccRange || andStart {
					p.ccEscWarn("-")
				}
				err = b.value(c)

			case ccsRange: // [!--x] is allowed
				p.ccEscWarn("-")
				err = b.value(tok.c)

			case ccsComplete:
				if tok, err = p.fetchTokenInCC(); err != nil {
					return nil, err
				}
				fetched = true

				switch {
				case tok.kind == ccClose: // allow [a-b-]
					err = b.value('-')
				case tok.kind == ccAnd:
					p.ccEscWarn("-")
					err = b.value('-')
				case p.syntax.isBv(SynAllowDoubleRangeOpInCC): // [0-9-a] is [0-9\-a]
					p.ccEscWarn("-")
					err = b.value('-')
				default:
					return nil, newError(ErrUnmatchedRangeSpecifierInCC)
				}
			}

		case ccOpen:
			nested, nerr := p.parseCharClass()
			if nerr != nil {
				return nil, nerr
			}
			err = b.class(nested)

		case ccAnd:
			b.intersect()
			andStart = true

		case ccEOT:
			return nil, newError(ErrPrematureEndOfCharClass)

		default:
			return nil, newError(ErrParserBug)
		}

		if err != nil {
			return nil, err
		}

		if !fetched {
			if tok, err = p.fetchTokenInCC(); err != nil {
				return nil, err
			}
		}
	}

	class := b.result()

	if negative {
		if len(class) > 0 && p.syntax.isBv(SynNotNewlineInNegativeCC) {
			class = append(class, '\n', '\n')
			class = cleanClass(&class)
		}
		class = negateClass(class)
	}

	return class, nil
}

// ccEscWarn warns about an unescaped operator character inside of a character class.
func (p *parser) ccEscWarn(c string) {
	if p.syntax.isBv(SynWarnCCOpNotEscaped) && p.syntax.isBv(SynBackslashEscapeInCC) {
		p.warn("character class has '%s' without escape", c)
	}
}

// closeBracketWarn warns about an unescaped closing bracket outside of a character class.
func (p *parser) closeBracketWarn(c string) {
	if p.syntax.isBv(SynWarnCCOpNotEscaped) {
		p.warn("regular expression has '%s' without escape", c)
	}
}
