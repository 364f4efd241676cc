package lowlevel

import "github.com/magnetde/starlark-onig/regex"

// EncodingUnspecified selects the default encoding of the pattern type.
const EncodingUnspecified = -1

// Encoding codes.
const (
	EncodingASCII = iota
	EncodingISO8859_1
	EncodingISO8859_2
	EncodingISO8859_3
	EncodingISO8859_4
	EncodingISO8859_5
	EncodingISO8859_6
	EncodingISO8859_7
	EncodingISO8859_8
	EncodingISO8859_9
	EncodingISO8859_10
	EncodingISO8859_11
	EncodingISO8859_12
	EncodingISO8859_13
	EncodingISO8859_14
	EncodingISO8859_15
	EncodingISO8859_16
	EncodingUTF8
	EncodingUTF16BE
	EncodingUTF16LE
	EncodingUTF32BE
	EncodingUTF32LE
	EncodingEUCJP
	EncodingEUCTW
	EncodingEUCKR
	EncodingEUCCN
	EncodingSJIS
	EncodingKOI8
	EncodingKOI8R
	EncodingCP1251
	EncodingBig5
	EncodingGB18030
	EncodingUndef
)

// Syntax codes.
const (
	SyntaxASIS = iota
	SyntaxPosixBasic
	SyntaxPosixExtended
	SyntaxEmacs
	SyntaxGrep
	SyntaxGnuRegex
	SyntaxJava
	SyntaxPerl
	SyntaxPerlNG
	SyntaxRuby
	SyntaxPython

	SyntaxDefault = SyntaxPython
)

// encodings maps the encoding codes to the descriptors of the engine.
// Code 12 is an alias of ISO-8859-11, since there is no ISO-8859-12.
// Code 27 (KOI8) has no descriptor and resolves to the undefined encoding.
var encodings = [...]*regex.Encoding{
	EncodingASCII:      regex.EncodingASCII,
	EncodingISO8859_1:  regex.EncodingISO8859_1,
	EncodingISO8859_2:  regex.EncodingISO8859_2,
	EncodingISO8859_3:  regex.EncodingISO8859_3,
	EncodingISO8859_4:  regex.EncodingISO8859_4,
	EncodingISO8859_5:  regex.EncodingISO8859_5,
	EncodingISO8859_6:  regex.EncodingISO8859_6,
	EncodingISO8859_7:  regex.EncodingISO8859_7,
	EncodingISO8859_8:  regex.EncodingISO8859_8,
	EncodingISO8859_9:  regex.EncodingISO8859_9,
	EncodingISO8859_10: regex.EncodingISO8859_10,
	EncodingISO8859_11: regex.EncodingISO8859_11,
	EncodingISO8859_12: regex.EncodingISO8859_11,
	EncodingISO8859_13: regex.EncodingISO8859_13,
	EncodingISO8859_14: regex.EncodingISO8859_14,
	EncodingISO8859_15: regex.EncodingISO8859_15,
	EncodingISO8859_16: regex.EncodingISO8859_16,
	EncodingUTF8:       regex.EncodingUTF8,
	EncodingUTF16BE:    regex.EncodingUTF16BE,
	EncodingUTF16LE:    regex.EncodingUTF16LE,
	EncodingUTF32BE:    regex.EncodingUTF32BE,
	EncodingUTF32LE:    regex.EncodingUTF32LE,
	EncodingEUCJP:      regex.EncodingEUCJP,
	EncodingEUCTW:      regex.EncodingEUCTW,
	EncodingEUCKR:      regex.EncodingEUCKR,
	EncodingEUCCN:      regex.EncodingEUCCN,
	EncodingSJIS:       regex.EncodingSJIS,
	EncodingKOI8:       nil,
	EncodingKOI8R:      regex.EncodingKOI8R,
	EncodingCP1251:     regex.EncodingCP1251,
	EncodingBig5:       regex.EncodingBig5,
	EncodingGB18030:    regex.EncodingGB18030,
}

// syntaxes maps the codes of the built-in syntaxes to their descriptors.
var syntaxes = [...]*regex.Syntax{
	SyntaxASIS:          regex.SyntaxASIS,
	SyntaxPosixBasic:    regex.SyntaxPosixBasic,
	SyntaxPosixExtended: regex.SyntaxPosixExtended,
	SyntaxEmacs:         regex.SyntaxEmacs,
	SyntaxGrep:          regex.SyntaxGrep,
	SyntaxGnuRegex:      regex.SyntaxGnuRegex,
	SyntaxJava:          regex.SyntaxJava,
	SyntaxPerl:          regex.SyntaxPerl,
	SyntaxPerlNG:        regex.SyntaxPerlNG,
	SyntaxRuby:          regex.SyntaxRuby,
}

// ResolveEncoding returns the encoding of the code.
// Codes without encoding resolve to `regex.EncodingUndef`; compiling a pattern with it fails.
func ResolveEncoding(code int) *regex.Encoding {
	if code >= 0 && code < len(encodings) && encodings[code] != nil {
		return encodings[code]
	}

	return regex.EncodingUndef
}

// ResolveSyntax returns the syntax of the code.
// Every code except the ones of the built-in syntaxes resolves to the derived syntax.
func ResolveSyntax(code int) *regex.Syntax {
	if code >= 0 && code < len(syntaxes) {
		return syntaxes[code]
	}

	return DerivedSyntax()
}

// EncodingCode returns the code of the encoding, or `EncodingUndef` if it has none.
// For ISO-8859-11 the code 11 is returned.
func EncodingCode(enc *regex.Encoding) int {
	for code, e := range encodings {
		if e != nil && e == enc {
			return code
		}
	}

	return EncodingUndef
}

// SyntaxCode returns the code of the syntax. Syntaxes, that are not built in, have the code `SyntaxPython`.
func SyntaxCode(syn *regex.Syntax) int {
	for code, s := range syntaxes {
		if s == syn {
			return code
		}
	}

	return SyntaxPython
}
