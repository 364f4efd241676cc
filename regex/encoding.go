package regex

import (
	"encoding/binary"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// Bytes, that cannot be decoded, are mapped to the code points U+DC00 - U+DCFF.
// Each undecodable byte is a single character, so byte offsets remain exact.
const surrogateBase = 0xdc00

// isSurrogateEscape reports whether c represents an undecodable byte.
func isSurrogateEscape(c rune) bool {
	return surrogateBase <= c && c <= surrogateBase+0xff
}

// ctypeMode determines the meaning of character types like `\w` or `[:alpha:]`.
type ctypeMode int

const (
	ctypeASCII     ctypeMode = iota // only ASCII characters have types
	ctypeUnicode                    // Unicode properties of the decoded character
	ctypeMultibyte                  // ASCII types; every multibyte character is a word character
)

// Encoding describes how the bytes of patterns and subjects are split into characters.
type Encoding struct {
	name       string
	minLen     int
	maxLen     int
	wide       bool // code units are wider than a byte; escapes like `\xHH` denote code points
	ctype      ctypeMode
	properties bool // `\p{...}` accepts Unicode categories and scripts

	charLen func(b []byte) int
	decode  func(b []byte) (rune, bool)
}

// Name returns the name of the encoding.
func (e *Encoding) Name() string { return e.name }

func (e *Encoding) String() string { return e.name }

// MinLen returns the minimum number of bytes of a character.
func (e *Encoding) MinLen() int { return e.minLen }

// MaxLen returns the maximum number of bytes of a character.
func (e *Encoding) MaxLen() int { return e.maxLen }

// Decode splits b into characters.
// The second return value contains the byte offset of each character and an additional
// entry for len(b), so it always has one element more than the character slice.
func (e *Encoding) Decode(b []byte) ([]rune, []int) {
	chars := make([]rune, 0, len(b)/e.minLen)
	offsets := make([]int, 0, len(b)/e.minLen+1)

	for i := 0; i < len(b); {
		n := min(e.charLen(b[i:]), len(b)-i)

		c, ok := rune(0), false
		if n >= e.minLen {
			c, ok = e.decode(b[i : i+n])
		}

		if !ok {
			// escape the bytes of one code unit
			n = min(e.minLen, len(b)-i)
			for j := 0; j < n; j++ {
				chars = append(chars, surrogateBase+rune(b[i+j]))
				offsets = append(offsets, i+j)
			}
		} else {
			chars = append(chars, c)
			offsets = append(offsets, i)
		}

		i += n
	}

	offsets = append(offsets, len(b))
	return chars, offsets
}

// Built-in encodings.
var (
	EncodingASCII      = newSingleByte("US-ASCII", latin1Table(), ctypeASCII)
	EncodingISO8859_1  = newCharmap("ISO-8859-1", charmap.ISO8859_1)
	EncodingISO8859_2  = newCharmap("ISO-8859-2", charmap.ISO8859_2)
	EncodingISO8859_3  = newCharmap("ISO-8859-3", charmap.ISO8859_3)
	EncodingISO8859_4  = newCharmap("ISO-8859-4", charmap.ISO8859_4)
	EncodingISO8859_5  = newCharmap("ISO-8859-5", charmap.ISO8859_5)
	EncodingISO8859_6  = newCharmap("ISO-8859-6", charmap.ISO8859_6)
	EncodingISO8859_7  = newCharmap("ISO-8859-7", charmap.ISO8859_7)
	EncodingISO8859_8  = newCharmap("ISO-8859-8", charmap.ISO8859_8)
	EncodingISO8859_9  = newCharmap("ISO-8859-9", charmap.ISO8859_9)
	EncodingISO8859_10 = newCharmap("ISO-8859-10", charmap.ISO8859_10)
	EncodingISO8859_11 = newSingleByte("ISO-8859-11", iso8859_11Table(), ctypeUnicode)
	EncodingISO8859_13 = newCharmap("ISO-8859-13", charmap.ISO8859_13)
	EncodingISO8859_14 = newCharmap("ISO-8859-14", charmap.ISO8859_14)
	EncodingISO8859_15 = newCharmap("ISO-8859-15", charmap.ISO8859_15)
	EncodingISO8859_16 = newCharmap("ISO-8859-16", charmap.ISO8859_16)
	EncodingKOI8R      = newCharmap("KOI8-R", charmap.KOI8R)
	EncodingCP1251     = newCharmap("CP1251", charmap.Windows1251)

	EncodingUTF8 = &Encoding{
		name:       "UTF-8",
		minLen:     1,
		maxLen:     4,
		ctype:      ctypeUnicode,
		properties: true,
		charLen:    utf8CharLen,
		decode:     utf8Decode,
	}

	EncodingUTF16BE = newUTF16("UTF-16BE", binary.BigEndian)
	EncodingUTF16LE = newUTF16("UTF-16LE", binary.LittleEndian)
	EncodingUTF32BE = newUTF32("UTF-32BE", binary.BigEndian)
	EncodingUTF32LE = newUTF32("UTF-32LE", binary.LittleEndian)

	EncodingEUCJP = newMultibyte("EUC-JP", 3, japanese.EUCJP, func(b []byte) int {
		switch c := b[0]; {
		case c == 0x8f:
			return 3
		case c == 0x8e, 0xa1 <= c && c <= 0xfe:
			return 2
		default:
			return 1
		}
	})

	EncodingEUCKR = newMultibyte("EUC-KR", 2, korean.EUCKR, eucCharLen)
	EncodingEUCCN = newMultibyte("EUC-CN", 2, simplifiedchinese.GBK, eucCharLen)

	EncodingSJIS = newMultibyte("Shift_JIS", 2, japanese.ShiftJIS, func(b []byte) int {
		if c := b[0]; (0x81 <= c && c <= 0x9f) || (0xe0 <= c && c <= 0xfc) {
			return 2
		}
		return 1
	})

	EncodingBig5 = newMultibyte("Big5", 2, traditionalchinese.Big5, func(b []byte) int {
		if c := b[0]; 0x81 <= c && c <= 0xfe {
			return 2
		}
		return 1
	})

	EncodingGB18030 = newMultibyte("GB18030", 4, simplifiedchinese.GB18030, func(b []byte) int {
		if c := b[0]; 0x81 <= c && c <= 0xfe {
			if len(b) > 1 && '0' <= b[1] && b[1] <= '9' {
				return 4
			}
			return 2
		}
		return 1
	})

	EncodingEUCTW = &Encoding{
		name:   "EUC-TW",
		minLen: 1,
		maxLen: 4,
		ctype:  ctypeMultibyte,
		charLen: func(b []byte) int {
			switch c := b[0]; {
			case c == 0x8e:
				return 4
			case 0xa1 <= c && c <= 0xfe:
				return 2
			default:
				return 1
			}
		},
		decode: eucTWDecode,
	}

	// EncodingUndef is the sentinel for unknown encodings. Patterns cannot be compiled with it.
	EncodingUndef = &Encoding{
		name:    "undefined",
		minLen:  1,
		maxLen:  1,
		charLen: func([]byte) int { return 1 },
		decode:  func([]byte) (rune, bool) { return 0, false },
	}
)

// newSingleByte creates a single byte encoding from a decoding table.
// Negative table entries are undefined bytes.
func newSingleByte(name string, table *[256]rune, ctype ctypeMode) *Encoding {
	return &Encoding{
		name:    name,
		minLen:  1,
		maxLen:  1,
		ctype:   ctype,
		charLen: func([]byte) int { return 1 },
		decode: func(b []byte) (rune, bool) {
			c := table[b[0]]
			return c, c >= 0
		},
	}
}

func newCharmap(name string, cm *charmap.Charmap) *Encoding {
	var table [256]rune
	for i := range table {
		c := cm.DecodeByte(byte(i))
		if c == utf8.RuneError {
			c = -1
		}
		table[i] = c
	}

	return newSingleByte(name, &table, ctypeUnicode)
}

// latin1Table maps every byte to the code point of the same value.
func latin1Table() *[256]rune {
	var table [256]rune
	for i := range table {
		table[i] = rune(i)
	}
	return &table
}

// iso8859_11Table returns the table of ISO-8859-11 (TIS-620 with no-break space).
// It equals Windows-874 except for the C1 control characters at 0x80 - 0x9f.
func iso8859_11Table() *[256]rune {
	var table [256]rune
	for i := range table {
		if i < 0xa0 {
			table[i] = rune(i)
			continue
		}

		c := charmap.Windows874.DecodeByte(byte(i))
		if c == utf8.RuneError {
			c = -1
		}
		table[i] = c
	}
	return &table
}

// newMultibyte creates an ASCII compatible multibyte encoding, which characters are
// decoded with the given codec.
func newMultibyte(name string, maxLen int, enc encoding.Encoding, charLen func(b []byte) int) *Encoding {
	return &Encoding{
		name:    name,
		minLen:  1,
		maxLen:  maxLen,
		ctype:   ctypeMultibyte,
		charLen: charLen,
		decode: func(b []byte) (rune, bool) {
			if len(b) == 1 && b[0] < utf8.RuneSelf {
				return rune(b[0]), true
			}
			return decodeWith(enc, b)
		},
	}
}

// decodeWith decodes exactly one character with the codec.
func decodeWith(enc encoding.Encoding, b []byte) (rune, bool) {
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return 0, false
	}

	c, size := utf8.DecodeRune(out)
	if c == utf8.RuneError || size != len(out) {
		return 0, false
	}

	return c, true
}

func eucCharLen(b []byte) int {
	if c := b[0]; 0xa1 <= c && c <= 0xfe {
		return 2
	}
	return 1
}

func utf8CharLen(b []byte) int {
	switch c := b[0]; {
	case c < 0xc2:
		return 1
	case c < 0xe0:
		return 2
	case c < 0xf0:
		return 3
	case c < 0xf5:
		return 4
	default:
		return 1
	}
}

func utf8Decode(b []byte) (rune, bool) {
	c, size := utf8.DecodeRune(b)
	if size != len(b) || (c == utf8.RuneError && size <= 1) {
		return 0, false
	}
	return c, true
}

func newUTF16(name string, order binary.ByteOrder) *Encoding {
	return &Encoding{
		name:       name,
		minLen:     2,
		maxLen:     4,
		wide:       true,
		ctype:      ctypeUnicode,
		properties: true,
		charLen: func(b []byte) int {
			if len(b) >= 2 && utf16.IsSurrogate(rune(order.Uint16(b))) && order.Uint16(b) < 0xdc00 {
				return 4
			}
			return 2
		},
		decode: func(b []byte) (rune, bool) {
			u1 := rune(order.Uint16(b))
			if len(b) == 2 {
				return u1, true
			}

			c := utf16.DecodeRune(u1, rune(order.Uint16(b[2:])))
			return c, c != utf8.RuneError
		},
	}
}

func newUTF32(name string, order binary.ByteOrder) *Encoding {
	return &Encoding{
		name:       name,
		minLen:     4,
		maxLen:     4,
		wide:       true,
		ctype:      ctypeUnicode,
		properties: true,
		charLen:    func([]byte) int { return 4 },
		decode: func(b []byte) (rune, bool) {
			c := order.Uint32(b)
			return rune(c), c <= utf8.MaxRune
		},
	}
}

// EUC-TW has no codec. Plane 1 and 2 byte characters share the code points starting
// at U+F0000, planes 2 to 14 follow in blocks of 94*94 code points.
const (
	eucTWBase      = 0xf0000
	eucTWPlaneSize = 94 * 94
	eucTWMaxPlane  = 14
)

func eucTWDecode(b []byte) (rune, bool) {
	inRow := func(c byte) bool { return 0xa1 <= c && c <= 0xfe }

	switch len(b) {
	case 1:
		return rune(b[0]), b[0] < utf8.RuneSelf
	case 2:
		if !inRow(b[0]) || !inRow(b[1]) {
			return 0, false
		}
		return eucTWBase + rune(b[0]-0xa1)*94 + rune(b[1]-0xa1), true
	case 4:
		plane := int(b[1]) - 0xa0
		if b[0] != 0x8e || plane < 1 || plane > eucTWMaxPlane || !inRow(b[2]) || !inRow(b[3]) {
			return 0, false
		}
		return eucTWBase + rune(plane-1)*eucTWPlaneSize + rune(b[2]-0xa1)*94 + rune(b[3]-0xa1), true
	default:
		return 0, false
	}
}
