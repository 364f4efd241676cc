package lowlevel

import (
	"encoding/binary"
	"slices"
	"sync/atomic"

	"github.com/magnetde/starlark-onig/regex"
	"golang.org/x/sys/cpu"
)

// wideSize is the size of one element of a wide string in bytes.
const wideSize = 4

// kind is the type of a `String`.
type kind uint8

const (
	kindInvalid kind = iota
	kindBytes
	kindWide
)

// String is a pattern or a subject, which is either a byte string or a wide string.
// Offsets into a byte string count bytes, offsets into a wide string count code points.
// The zero value is no valid string.
type String struct {
	kind  kind
	bytes []byte
	runes []rune

	// decoded subject of the last match, shared by all copies
	input *atomic.Pointer[regex.Input]
}

// Bytes returns the byte string b.
func Bytes(b []byte) String {
	return String{kind: kindBytes, bytes: b, input: new(atomic.Pointer[regex.Input])}
}

// Wide returns the wide string r.
func Wide(r []rune) String {
	return String{kind: kindWide, runes: r, input: new(atomic.Pointer[regex.Input])}
}

// WideString returns the wide string of the code points of s.
func WideString(s string) String {
	return Wide([]rune(s))
}

// AsString converts v into a `String`.
// Values of type []byte are byte strings, values of type string and []rune are wide strings.
func AsString(v any) (String, bool) {
	switch t := v.(type) {
	case String:
		return t, t.kind != kindInvalid
	case []byte:
		return Bytes(t), true
	case string:
		return WideString(t), true
	case []rune:
		return Wide(t), true
	default:
		return String{}, false
	}
}

// IsWide reports whether s is a wide string.
func (s String) IsWide() bool { return s.kind == kindWide }

// IsValid reports whether s is a byte string or a wide string.
func (s String) IsValid() bool { return s.kind != kindInvalid }

// Len returns the number of elements of s.
func (s String) Len() int {
	if s.kind == kindWide {
		return len(s.runes)
	}

	return len(s.bytes)
}

// Bytes returns the content of a byte string.
func (s String) Bytes() []byte { return s.bytes }

// Runes returns the content of a wide string.
func (s String) Runes() []rune { return s.runes }

func (s String) String() string {
	if s.kind == kindWide {
		return string(s.runes)
	}

	return string(s.bytes)
}

// Slice returns a copy of the elements [beg, end) of s.
func (s String) Slice(beg, end int) String {
	if s.kind == kindWide {
		return Wide(slices.Clone(s.runes[beg:end]))
	}

	return Bytes(slices.Clone(s.bytes[beg:end]))
}

// Equal reports whether s and t have the same type and content.
func (s String) Equal(t String) bool {
	if s.kind != t.kind {
		return false
	}
	if s.kind == kindWide {
		return slices.Equal(s.runes, t.runes)
	}

	return slices.Equal(s.bytes, t.bytes)
}

// elemSize returns the size of one element in the representation passed to the engine.
func (s String) elemSize() int {
	if s.kind == kindWide {
		return wideSize
	}

	return 1
}

// data returns the representation passed to the engine.
// Wide strings are encoded as UTF-32 in the native byte order.
func (s String) data() []byte {
	if s.kind != kindWide {
		return s.bytes
	}

	order := nativeOrder()

	b := make([]byte, 0, len(s.runes)*wideSize)
	for _, r := range s.runes {
		b = order.AppendUint32(b, uint32(r))
	}

	return b
}

// decoded returns the subject decoded with enc for the engine.
// The input is built once and reused by later matches with the same encoding.
func (s String) decoded(enc *regex.Encoding) *regex.Input {
	if s.input != nil {
		if in := s.input.Load(); in != nil && in.Encoding() == enc {
			return in
		}
	}

	in := regex.NewInput(enc, s.data())
	if s.input != nil {
		s.input.Store(in)
	}

	return in
}

// nativeOrder returns the byte order of the machine.
func nativeOrder() binary.AppendByteOrder {
	if cpu.IsBigEndian {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// wideEncoding returns the engine encoding of wide strings.
func wideEncoding() *regex.Encoding {
	if cpu.IsBigEndian {
		return regex.EncodingUTF32BE
	}

	return regex.EncodingUTF32LE
}
