package regex

import "math"

// source represents a reader to read the decoded pattern.
// The attributes may only be changed by using its functions.
type source struct {
	orig []rune // original pattern
	pos  int    // current read position
}

// init initializes the reader.
func (s *source) init(src []rune) {
	s.orig = src
	s.pos = 0
}

// tell returns the current read position.
func (s *source) tell() int {
	return s.pos
}

// seek sets the current read position.
func (s *source) seek(pos int) {
	s.pos = pos
}

// eof reports whether the read position is at the end of the pattern.
func (s *source) eof() bool {
	return s.pos >= len(s.orig)
}

// read reads the next character.
// If the current read position is at the end of the pattern, then the second return value is false.
// After reading, the current read position is increased.
func (s *source) read() (rune, bool) {
	if s.eof() {
		return 0, false
	}

	c := s.orig[s.pos]
	s.pos++

	return c, true
}

// unread moves the read position back by one character.
func (s *source) unread() {
	if s.pos > 0 {
		s.pos--
	}
}

// peek determines the next character.
// This function is equivalent with `read()`, except, that the current read position is not increased.
func (s *source) peek() (rune, bool) {
	if s.eof() {
		return 0, false
	}

	return s.orig[s.pos], true
}

// peekIs reports whether the next character is c.
func (s *source) peekIs(c rune) bool {
	n, ok := s.peek()
	return ok && n == c
}

// match returns, whether the next character matches the given character.
// If it does, the read position is then moved to the next character.
func (s *source) match(c rune) bool {
	if s.peekIs(c) {
		s.pos++
		return true
	}

	return false
}

// hasPrefix reports whether the pattern continues with str at the current read position.
func (s *source) hasPrefix(str string) bool {
	i := s.pos
	for _, c := range str {
		if i >= len(s.orig) || s.orig[i] != c {
			return false
		}
		i++
	}

	return true
}

// nextInt returns the unsigned decimal integer at the current read position.
// If no digit exists, the second return value is false.
// The third return value is true, if the number overflows 32 bits.
// The read position is then moved to the position of the first character, that is no decimal digit.
func (s *source) nextInt() (int, bool, bool) {
	var n int
	found, overflow := false, false

	for !s.eof() {
		c := s.orig[s.pos]
		if !isDigit(c) {
			break
		}

		if n > (math.MaxInt32-toDigit(c))/10 {
			overflow = true
		} else {
			n = n*10 + toDigit(c)
		}

		found = true
		s.pos++
	}

	return n, found, overflow
}

// nextHex returns the value of the hexadecimal number at the current read position with
// a maximum length of n digits, and the number of digits read.
func (s *source) nextHex(n int) (int64, int) {
	var v int64
	i := 0

	for ; i < n && !s.eof(); i++ {
		d, ok := hexValue(s.orig[s.pos])
		if !ok {
			break
		}

		v = v<<4 | int64(d)
		s.pos++
	}

	return v, i
}

// nextOct returns the value of the octal number at the current read position with
// a maximum length of n digits, and the number of digits read.
func (s *source) nextOct(n int) (int, int) {
	v := 0
	i := 0

	for ; i < n && !s.eof(); i++ {
		c := s.orig[s.pos]
		if !isOctDigit(c) {
			break
		}

		v = v<<3 | toDigit(c)
		s.pos++
	}

	return v, i
}

// containsUnescaped reports whether the character c occurs after the read position,
// ignoring escaped occurrences.
func (s *source) containsUnescaped(c rune) bool {
	inEsc := false

	for _, x := range s.orig[s.pos:] {
		switch {
		case inEsc:
			inEsc = false
		case x == c:
			return true
		case x == '\\':
			inEsc = true
		}
	}

	return false
}

// containsBefore reports whether str occurs after the read position before the first
// unescaped occurrence of the character bad.
func (s *source) containsBefore(str string, bad rune) bool {
	saved := s.pos
	defer s.seek(saved)

	inEsc := false
	for !s.eof() {
		if !inEsc && s.hasPrefix(str) {
			return true
		}

		x, _ := s.read()
		switch {
		case inEsc:
			inEsc = false
		case x == bad:
			return false
		case x == '\\':
			inEsc = true
		}
	}

	return false
}

// text returns the pattern text between the positions start and end.
func (s *source) text(start, end int) string {
	return string(s.orig[start:end])
}
