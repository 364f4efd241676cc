package regex

import "unicode"

// tokenKind is the type of a pattern token.
type tokenKind int

const (
	tkEOT       tokenKind = iota // end of the pattern
	tkChar                       // literal character
	tkRawByte                    // byte given by an octal or hexadecimal escape
	tkAnychar                    // .
	tkRepeat                     // ?, *, +
	tkInterval                   // {n,m}
	tkAlt                        // |
	tkOpen                       // (
	tkClose                      // )
	tkAnchor                     // ^, $, \A, \b, ...
	tkClass                      // \w, \d, \p{...}, ...
	tkBackref                    // \1, \k<name>
	tkCCOpen                     // [
	tkQuoteOpen                  // \Q
)

// token is a token of the pattern outside of character classes.
type token struct {
	kind    tokenKind
	start   int // position of the token in the pattern
	c       rune
	escaped bool

	// repetitions
	lower, upper int
	greedy       bool
	possessive   bool

	anchor anchor
	class  []rune

	// backreferences
	refs   []int
	byName bool
}

// fetch reads the next token of the pattern into `p.tok`.
func (p *parser) fetch() error {
	s := &p.src
	syn := p.syntax

	for {
		p.tok = token{start: s.tell(), greedy: true}
		tok := &p.tok

		c, ok := s.read()
		if !ok {
			tok.kind = tkEOT
			return nil
		}

		tok.kind = tkChar
		tok.c = c

		if c == '\\' && !syn.isOp2(SynOp2IneffectiveEscape) {
			return p.fetchEscape()
		}

		switch c {
		case '.':
			if syn.isOp(SynOpDotAnychar) {
				tok.kind = tkAnychar
			}
		case '*':
			if syn.isOp(SynOpAsteriskZeroInf) {
				p.setRepeat(0, repeatInfinite)
			}
		case '+':
			if syn.isOp(SynOpPlusOneInf) {
				p.setRepeat(1, repeatInfinite)
			}
		case '?':
			if syn.isOp(SynOpQmarkZeroOne) {
				p.setRepeat(0, 1)
			}
		case '{':
			if syn.isOp(SynOpBraceInterval) {
				return p.fetchInterval()
			}
		case '|':
			if syn.isOp(SynOpVbarAlt) {
				tok.kind = tkAlt
			}
		case '(':
			if s.peekIs('?') && syn.isOp2(SynOp2QmarkGroupEffect) {
				s.read()
				if s.match('#') {
					if err := p.skipComment(); err != nil {
						return err
					}
					continue
				}
				s.unread()
			}
			if syn.isOp(SynOpLparenSubexp) {
				tok.kind = tkOpen
			}
		case ')':
			if syn.isOp(SynOpLparenSubexp) {
				tok.kind = tkClose
			}
		case '^':
			if syn.isOp(SynOpLineAnchor) {
				tok.kind = tkAnchor
				if p.options.has(OptionSingleline) {
					tok.anchor = anchorBeginBuf
				} else {
					tok.anchor = anchorBeginLine
				}
			}
		case '$':
			if syn.isOp(SynOpLineAnchor) {
				tok.kind = tkAnchor
				if p.options.has(OptionSingleline) {
					tok.anchor = anchorSemiEndBuf
				} else {
					tok.anchor = anchorEndLine
				}
			}
		case '[':
			if syn.isOp(SynOpBracketCC) {
				tok.kind = tkCCOpen
			}
		case ']':
			if tok.start > 0 { // /].../ is allowed
				p.closeBracketWarn("]")
			}
		case '#':
			if p.options.has(OptionExtend) {
				for {
					c, ok := s.read()
					if !ok || c == '\n' {
						break
					}
				}
				continue
			}
		default:
			if isExtendSpace(c) && p.options.has(OptionExtend) {
				continue
			}
		}

		return nil
	}
}

// skipComment skips a comment group `(?#...)`; the leading `(?#` is already read.
func (p *parser) skipComment() error {
	s := &p.src
	for {
		c, ok := s.read()
		if !ok {
			return newError(ErrEndPatternInGroup)
		}

		if c == '\\' {
			s.read()
		} else if c == ')' {
			return nil
		}
	}
}

// fetchEscape reads an escape sequence; the backslash is already read.
func (p *parser) fetchEscape() error {
	s := &p.src
	syn := p.syntax
	tok := &p.tok

	c, ok := s.read()
	if !ok {
		return newError(ErrEndPatternAtEscape)
	}

	tok.c = c
	tok.escaped = true

	switch c {
	case '*':
		if syn.isOp(SynOpEscAsteriskZeroInf) {
			p.setRepeat(0, repeatInfinite)
		}
	case '+':
		if syn.isOp(SynOpEscPlusOneInf) {
			p.setRepeat(1, repeatInfinite)
		}
	case '?':
		if syn.isOp(SynOpEscQmarkZeroOne) {
			p.setRepeat(0, 1)
		}
	case '{':
		if syn.isOp(SynOpEscBraceInterval) {
			return p.fetchInterval()
		}
	case '|':
		if syn.isOp(SynOpEscVbarAlt) {
			tok.kind = tkAlt
		}
	case '(':
		if syn.isOp(SynOpEscLparenSubexp) {
			tok.kind = tkOpen
		}
	case ')':
		if syn.isOp(SynOpEscLparenSubexp) {
			tok.kind = tkClose
		}
	case 'w', 'W':
		if syn.isOp(SynOpEscWWord) {
			p.setClass(ctWord, c == 'W')
		}
	case 's', 'S':
		if syn.isOp(SynOpEscSWhiteSpace) {
			p.setClass(ctSpace, c == 'S')
		}
	case 'd', 'D':
		if syn.isOp(SynOpEscDDigit) {
			p.setClass(ctDigit, c == 'D')
		}
	case 'h', 'H':
		if syn.isOp2(SynOp2EscHXDigit) {
			p.setClass(ctXDigit, c == 'H')
		}
	case 'b':
		if syn.isOp(SynOpEscBWordBound) {
			p.setAnchor(anchorWordBound)
		} else {
			return p.fetchEscapedValue()
		}
	case 'B':
		if syn.isOp(SynOpEscBWordBound) {
			p.setAnchor(anchorNotWordBound)
		}
	case '<':
		if syn.isOp(SynOpEscLtGtWordBeginEnd) {
			p.setAnchor(anchorWordBegin)
		}
	case '>':
		if syn.isOp(SynOpEscLtGtWordBeginEnd) {
			p.setAnchor(anchorWordEnd)
		}
	case 'A':
		if syn.isOp(SynOpEscAZBufAnchor) {
			p.setAnchor(anchorBeginBuf)
		}
	case 'Z':
		if syn.isOp(SynOpEscAZBufAnchor) {
			p.setAnchor(anchorSemiEndBuf)
		}
	case 'z':
		if syn.isOp(SynOpEscAZBufAnchor) {
			p.setAnchor(anchorEndBuf)
		}
	case 'G':
		if syn.isOp(SynOpEscCapitalGBeginAnchor) {
			p.setAnchor(anchorBeginPosition)
		}
	case '`':
		if syn.isOp2(SynOp2EscGnuBufAnchor) {
			p.setAnchor(anchorBeginBuf)
		}
	case '\'':
		if syn.isOp2(SynOp2EscGnuBufAnchor) {
			p.setAnchor(anchorEndBuf)
		}
	case 'x':
		return p.fetchHex()
	case 'u':
		if syn.isOp2(SynOp2EscUHex4) {
			v, _ := s.nextHex(4)
			return p.setCodePoint(v)
		}
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return p.fetchDecimal(c)
	case '0':
		if syn.isOp(SynOpEscOctal3) {
			v, _ := s.nextOct(2)
			tok.kind = tkRawByte
			tok.c = rune(v)
		}
	case 'k':
		if syn.isOp2(SynOp2EscKNamedBackref) && (s.peekIs('<') || s.peekIs('\'')) {
			return p.fetchNamedBackref()
		}
	case 'g':
		if syn.isOp2(SynOp2EscGSubexpCall) && (s.peekIs('<') || s.peekIs('\'')) {
			return newError(ErrNoSupportConfig)
		}
	case 'Q':
		if syn.isOp2(SynOp2EscCapitalQQuote) {
			tok.kind = tkQuoteOpen
		}
	case 'p', 'P':
		if s.peekIs('{') && syn.isOp2(SynOp2EscPBraceCharProperty) {
			s.read()
			class, err := p.fetchProperty(c == 'P')
			if err != nil {
				return err
			}
			tok.kind = tkClass
			tok.class = class
		}
	default:
		return p.fetchEscapedValue()
	}

	return nil
}

// fetchEscapedValue converts the escaped character at the position before the read position
// into a code point. Control and meta escapes are resolved.
func (p *parser) fetchEscapedValue() error {
	p.src.unread()

	v, err := p.escapedValue()
	if err != nil {
		return err
	}

	if v != p.tok.c {
		return p.setCodePoint(int64(v))
	}

	return nil
}

// escapedValue returns the value of the escaped character at the read position.
// The backslash is already read.
func (p *parser) escapedValue() (rune, error) {
	s := &p.src
	syn := p.syntax

	c, ok := s.read()
	if !ok {
		return 0, newError(ErrEndPatternAtEscape)
	}

	switch c {
	case 'M':
		if !syn.isOp2(SynOp2EscCapitalMBarMeta) {
			break
		}

		c, ok = s.read()
		if !ok {
			return 0, newError(ErrEndPatternAtMeta)
		}
		if c != '-' {
			return 0, newError(ErrMetaCodeSyntax)
		}

		c, ok = s.read()
		if !ok {
			return 0, newError(ErrEndPatternAtMeta)
		}
		if c == '\\' {
			v, err := p.escapedValue()
			if err != nil {
				return 0, err
			}
			c = v
		}

		return (c & 0xff) | 0x80, nil

	case 'C':
		if !syn.isOp2(SynOp2EscCapitalCBarControl) {
			break
		}

		c, ok = s.read()
		if !ok {
			return 0, newError(ErrEndPatternAtControl)
		}
		if c != '-' {
			return 0, newError(ErrControlCodeSyntax)
		}
		return p.controlValue()

	case 'c':
		if syn.isOp(SynOpEscCControl) {
			return p.controlValue()
		}
	}

	return p.backslashValue(c), nil
}

// controlValue returns the value of a control escape like `\cX`; the leading part is already read.
func (p *parser) controlValue() (rune, error) {
	c, ok := p.src.read()
	if !ok {
		return 0, newError(ErrEndPatternAtControl)
	}

	if c == '?' {
		return 0177, nil
	}

	if c == '\\' {
		v, err := p.escapedValue()
		if err != nil {
			return 0, err
		}
		c = v
	}

	return c & 0x9f, nil
}

// backslashValue converts the escaped character into the control character it represents.
func (p *parser) backslashValue(c rune) rune {
	if p.syntax.isOp(SynOpEscControlChars) {
		switch c {
		case 'n':
			return '\n'
		case 't':
			return '\t'
		case 'r':
			return '\r'
		case 'f':
			return '\f'
		case 'a':
			return '\a'
		case 'b':
			return '\b'
		case 'e':
			return 033
		case 'v':
			if p.syntax.isOp2(SynOp2EscVVtab) {
				return '\v'
			}
		}
	}

	return c
}

// fetchHex reads a hexadecimal escape `\xHH` or `\x{H...}`; the `\x` is already read.
func (p *parser) fetchHex() error {
	c, raw, ok, err := p.scanHex()
	if err != nil || !ok {
		return err
	}

	p.tok.c = c
	if raw {
		p.tok.kind = tkRawByte
	}

	return nil
}

// scanHex reads the value of a hexadecimal escape; the `\x` is already read.
// The second return value is true for a raw byte `\xHH`. The third return value is false,
// if the syntax does not support hexadecimal escapes.
func (p *parser) scanHex() (rune, bool, bool, error) {
	s := &p.src
	syn := p.syntax

	if s.peekIs('{') && syn.isOp(SynOpEscXBraceHex8) {
		s.read()

		v, n := s.nextHex(8)
		if c, ok := s.peek(); ok {
			if _, isHex := hexValue(c); isHex {
				return 0, false, false, newError(ErrTooLongWideCharValue)
			}
		}
		if v > 0x7fffffff {
			return 0, false, false, newError(ErrTooBigWideCharValue)
		}
		if n == 0 || !s.match('}') {
			return 0, false, false, newError(ErrInvalidCodePointValue)
		}

		c, err := p.codePoint(v)
		if err != nil {
			return 0, false, false, err
		}

		return c, false, true, nil
	}

	if syn.isOp(SynOpEscXHex2) {
		v, _ := s.nextHex(2)
		return rune(v), true, true, nil
	}

	return 0, false, false, nil
}

// fetchDecimal reads a decimal backreference or an octal escape; the backslash and the
// first digit c are already read.
func (p *parser) fetchDecimal(c rune) error {
	s := &p.src
	syn := p.syntax
	tok := &p.tok

	s.unread()
	prev := s.tell()

	num, _, overflow := s.nextInt()
	if !overflow && num <= maxBackref && syn.isOp(SynOpDecimalBackref) && (num <= len(p.groups) || num <= 9) {
		if syn.isBv(SynStrictCheckBackref) && (num > len(p.groups) || !p.groups[num-1].closed) {
			return newError(ErrInvalidBackref)
		}

		tok.kind = tkBackref
		tok.refs = []int{num}
		return nil
	}

	s.seek(prev)
	if c == '8' || c == '9' {
		s.read()
		return nil
	}

	if syn.isOp(SynOpEscOctal3) {
		v, _ := s.nextOct(3)
		tok.kind = tkRawByte
		tok.c = rune(v & 0xff)
	} else {
		s.read()
	}

	return nil
}

// fetchNamedBackref reads a backreference `\k<name>`, `\k<n>` or `\k<-n>`; the `\k` is already read.
func (p *parser) fetchNamedBackref() error {
	s := &p.src
	tok := &p.tok

	open, _ := s.read()
	endCode := '>'
	if open == '\'' {
		endCode = '\''
	}

	name, num, isNum, err := p.fetchName(endCode, true)
	if err != nil {
		return err
	}

	tok.kind = tkBackref

	if isNum {
		if num < 0 {
			num = len(p.groups) + 1 + num
			if num <= 0 {
				return newError(ErrInvalidBackref)
			}
		}
		if p.syntax.isBv(SynStrictCheckBackref) && (num > len(p.groups) || !p.groups[num-1].closed) {
			return newError(ErrInvalidBackref)
		}

		tok.refs = []int{num}
		return nil
	}

	nums, ok := p.nameNums[name]
	if !ok {
		return newNameError(ErrUndefinedNameReference, name)
	}
	if p.syntax.isBv(SynStrictCheckBackref) {
		for _, n := range nums {
			if !p.groups[n-1].closed {
				return newError(ErrInvalidBackref)
			}
		}
	}

	tok.refs = append([]int(nil), nums...)
	tok.byName = true

	return nil
}

// fetchName reads a group name up to endCode. If ref is true, the name may also be a
// group number or a relative group number, which is then returned as int value.
func (p *parser) fetchName(endCode rune, ref bool) (string, int, bool, error) {
	s := &p.src
	start := s.tell()

	c, ok := s.read()
	if !ok || c == endCode {
		return "", 0, false, newError(ErrEmptyGroupName)
	}

	var errCode int
	isNum, sign := 0, 1

	switch {
	case isDigit(c):
		if ref {
			isNum = 1
		} else {
			errCode = ErrInvalidGroupName
		}
	case c == '-':
		if ref {
			isNum = 2
			sign = -1
		} else {
			errCode = ErrInvalidGroupName
		}
	case !p.isWord(c):
		errCode = ErrInvalidCharInGroupName
	}

	end := s.tell()
	for errCode == 0 {
		end = s.tell()
		c, ok = s.read()
		if !ok {
			end = s.tell()
			errCode = ErrInvalidGroupName
			break
		}

		if c == endCode || c == ')' {
			if c != endCode || isNum == 2 {
				errCode = ErrInvalidGroupName
			}
			break
		}

		if isNum != 0 {
			if isDigit(c) {
				isNum = 1
			} else if !p.isWord(c) {
				errCode = ErrInvalidCharInGroupName
			} else {
				errCode = ErrInvalidGroupName
			}
		} else if !p.isWord(c) {
			errCode = ErrInvalidCharInGroupName
		}
	}

	if errCode != 0 {
		// skip the rest of the name for the error message
		for end = s.tell(); !s.eof(); end = s.tell() {
			c, _ := s.read()
			if c == endCode || c == ')' {
				break
			}
		}
		return "", 0, false, newNameError(errCode, s.text(start, end))
	}

	name := s.text(start, end)

	if isNum != 0 {
		digits := name
		if sign < 0 {
			digits = name[1:]
		}

		num := 0
		for _, d := range digits {
			num = num*10 + toDigit(d)
			if num > maxBackref*1000 {
				return "", 0, false, newError(ErrTooBigNumber)
			}
		}
		if num == 0 {
			return "", 0, false, newNameError(ErrInvalidGroupName, name)
		}

		return name, num * sign, true, nil
	}

	return name, 0, false, nil
}

// fetchProperty reads a character property `\p{...}`; the `\p{` is already read.
func (p *parser) fetchProperty(negative bool) ([]rune, error) {
	s := &p.src

	if s.peekIs('^') && p.syntax.isOp2(SynOp2EscPBraceCircumflexNot) {
		s.read()
		negative = !negative
	}

	start := s.tell()
	for {
		end := s.tell()

		c, ok := s.read()
		if !ok {
			return nil, newNameError(ErrInvalidCharPropertyName, s.text(start, end))
		}

		switch c {
		case '}':
			class, ok := p.enc.propertyClass(s.text(start, end))
			if !ok {
				return nil, newNameError(ErrInvalidCharPropertyName, s.text(start, end))
			}
			if negative {
				class = negateClass(class)
			}
			return class, nil
		case '(', ')', '{', '|':
			return nil, newNameError(ErrInvalidCharPropertyName, s.text(start, end))
		}
	}
}

// fetchInterval reads a repeat range `{n,m}`; the opening brace is already read.
// If the interval is invalid and the syntax allows invalid intervals, the brace is a literal.
func (p *parser) fetchInterval() error {
	s := &p.src
	syn := p.syntax
	allowInvalid := syn.isBv(SynAllowInvalidInterval)
	start := s.tell()

	invalid := func() error {
		if allowInvalid {
			s.seek(start)
			p.tok.kind = tkChar
			return nil
		}
		return newError(ErrInvalidRepeatRangePattern)
	}

	if s.eof() {
		if allowInvalid {
			return nil
		}
		return newError(ErrEndPatternAtLeftBrace)
	}

	if !allowInvalid {
		if c, _ := s.peek(); c == ')' || c == '(' || c == '|' {
			return newError(ErrEndPatternAtLeftBrace)
		}
	}

	low, found, overflow := s.nextInt()
	if overflow || low > maxRepeat {
		return newError(ErrTooBigNumberForRepeatRange)
	}

	nonLow := false
	if !found {
		if !syn.isBv(SynAllowIntervalLowAbbrev) {
			return invalid()
		}
		low = 0
		nonLow = true
	}

	c, ok := s.read()
	if !ok {
		return invalid()
	}

	up := low
	fixed := false
	if c == ',' {
		var found bool
		up, found, overflow = s.nextInt()
		if overflow || up > maxRepeat {
			return newError(ErrTooBigNumberForRepeatRange)
		}
		if !found {
			if nonLow {
				return invalid()
			}
			up = repeatInfinite
		}
	} else {
		if nonLow {
			return invalid()
		}
		s.unread()
		fixed = true
	}

	c, ok = s.read()
	if !ok {
		return invalid()
	}
	if syn.isOp(SynOpEscBraceInterval) {
		if c != '\\' {
			return invalid()
		}
		c, ok = s.read()
		if !ok {
			return invalid()
		}
	}
	if c != '}' {
		return invalid()
	}

	if up != repeatInfinite && low > up {
		return newError(ErrUpperSmallerThanLowerInRepeat)
	}

	p.tok.kind = tkInterval
	p.tok.lower = low
	p.tok.upper = up

	if fixed && syn.isBv(SynFixedIntervalIsGreedyOnly) {
		p.possessiveCheck()
	} else {
		p.greedyCheck()
	}

	return nil
}

// setRepeat sets the current token to a repetition and reads a lazy or possessive suffix.
func (p *parser) setRepeat(lower, upper int) {
	p.tok.kind = tkRepeat
	p.tok.lower = lower
	p.tok.upper = upper
	p.greedyCheck()
}

// greedyCheck reads the suffix `?` of a lazy repetition.
func (p *parser) greedyCheck() {
	if p.syntax.isOp(SynOpQmarkNonGreedy) && p.src.match('?') {
		p.tok.greedy = false
		return
	}

	p.possessiveCheck()
}

// possessiveCheck reads the suffix `+` of a possessive repetition.
func (p *parser) possessiveCheck() {
	syn := p.syntax
	interval := p.tok.kind == tkInterval

	if p.src.peekIs('+') &&
		((syn.isOp2(SynOp2PlusPossessiveRepeat) && !interval) ||
			(syn.isOp2(SynOp2PlusPossessiveInterval) && interval)) {
		p.src.read()
		p.tok.possessive = true
	}
}

// setClass sets the current token to a character type.
func (p *parser) setClass(t ctype, negative bool) {
	p.tok.kind = tkClass
	p.tok.class = p.ctypeClass(t, negative)
}

// setAnchor sets the current token to an anchor.
func (p *parser) setAnchor(a anchor) {
	p.tok.kind = tkAnchor
	p.tok.anchor = a
}

// setCodePoint sets the current token to the character with the code v of the encoding.
func (p *parser) setCodePoint(v int64) error {
	c, err := p.codePoint(v)
	if err != nil {
		return err
	}

	p.tok.kind = tkChar
	p.tok.c = c

	return nil
}

// codePoint converts a code of the encoding into a character.
// Codes of Unicode encodings are code points; codes of other encodings are the byte
// sequence of the character, with the first byte in the most significant position.
func (p *parser) codePoint(v int64) (rune, error) {
	if p.enc.properties {
		if v > unicode.MaxRune {
			return 0, newError(ErrTooBigWideCharValue)
		}
		return rune(v), nil
	}

	var b []byte
	for x := v; ; x >>= 8 {
		b = append([]byte{byte(x)}, b...)
		if x < 0x100 {
			break
		}
	}

	chars, _ := p.enc.Decode(b)
	if len(chars) != 1 {
		return 0, newError(ErrInvalidCodePointValue)
	}

	return chars[0], nil
}

// decodeRaw converts a sequence of raw bytes into characters.
func (p *parser) decodeRaw(b []byte) []rune {
	if p.enc.wide {
		chars := make([]rune, len(b))
		for i, x := range b {
			chars[i] = rune(x)
		}
		return chars
	}

	chars, _ := p.enc.Decode(b)
	return chars
}
