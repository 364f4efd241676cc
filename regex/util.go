package regex

// isDigit checks if the given character is a decimal digit.
func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

// isOctDigit checks if the given character is an octal digit.
func isOctDigit(c rune) bool {
	return '0' <= c && c <= '7'
}

// toDigit returns the corresponding integer value of a character.
// The character must be a digit in the set "0123456789".
func toDigit(c rune) int {
	return int(c) - '0'
}

// hexValue returns the value of a hexadecimal digit.
func hexValue(c rune) (int, bool) {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0'), true
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10, true
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}

// isASCIIWord checks, if the character is an ASCII letter, digit or underscore.
func isASCIIWord(c rune) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || isDigit(c) || c == '_'
}

// isExtendSpace checks if a character is skipped in extended patterns.
func isExtendSpace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	default:
		return false
	}
}
