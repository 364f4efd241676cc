package lowlevel

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultCodecName is the name of the codec used, until another one is set.
const DefaultCodecName = "utf-8"

// Codec converts between byte strings and wide strings. It is used, if the subject of a match
// has another type than the pattern.
type Codec struct {
	name string
	enc  encoding.Encoding
	utf8 bool // decoding and encoding are strict
}

var (
	errInvalidUTF8 = errors.New("invalid UTF-8 sequence")
	errInvalidRune = errors.New("invalid code point")
)

var utf8Codec = &Codec{
	name: DefaultCodecName,
	enc:  unicode.UTF8,
	utf8: true,
}

var defaultCodec atomic.Pointer[Codec]

// LookupCodec returns the codec of the IANA name.
func LookupCodec(name string) (*Codec, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown codec %q", name)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported codec %q", name)
	}

	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = name
	}

	if enc == unicode.UTF8 || strings.EqualFold(canonical, DefaultCodecName) {
		return utf8Codec, nil
	}

	return &Codec{
		name: strings.ToLower(canonical),
		enc:  enc,
	}, nil
}

// DefaultCodec returns the codec used for converting subjects.
func DefaultCodec() *Codec {
	if c := defaultCodec.Load(); c != nil {
		return c
	}

	return utf8Codec
}

// SetDefaultCodec replaces the codec used for converting subjects.
func SetDefaultCodec(name string) error {
	c, err := LookupCodec(name)
	if err != nil {
		return err
	}

	defaultCodec.Store(c)
	return nil
}

// Name returns the lowercase IANA name of the codec.
func (c *Codec) Name() string { return c.name }

// Decode converts a byte string into a wide string.
func (c *Codec) Decode(s String) (String, error) {
	b := s.Bytes()

	if c.utf8 {
		if !utf8.Valid(b) {
			return String{}, &EncodingError{Codec: c.name, Op: "decode", Err: errInvalidUTF8}
		}

		return Wide([]rune(string(b))), nil
	}

	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return String{}, &EncodingError{Codec: c.name, Op: "decode", Err: err}
	}

	return Wide([]rune(string(out))), nil
}

// Encode converts a wide string into a byte string.
func (c *Codec) Encode(s String) (String, error) {
	r := s.Runes()

	for _, ch := range r {
		if !utf8.ValidRune(ch) {
			return String{}, &EncodingError{Codec: c.name, Op: "encode", Err: errInvalidRune}
		}
	}

	if c.utf8 {
		return Bytes([]byte(string(r))), nil
	}

	out, err := c.enc.NewEncoder().Bytes([]byte(string(r)))
	if err != nil {
		return String{}, &EncodingError{Codec: c.name, Op: "encode", Err: err}
	}

	return Bytes(out), nil
}

// Convert converts s into a wide string, if wide is set, or into a byte string otherwise.
func (c *Codec) Convert(s String, wide bool) (String, error) {
	switch {
	case s.IsWide() == wide:
		return s, nil
	case wide:
		return c.Decode(s)
	default:
		return c.Encode(s)
	}
}
