package regex

// Option is a bit set of compile and search options.
// The values are identical to the ONIG_OPTION_* constants of Oniguruma.
type Option uint32

// Possible options.
//
//   - IgnoreCase: case-insensitive matching
//   - Extend: extended pattern form; whitespace and comments are ignored
//   - Multiline: '.' also matches a newline
//   - Singleline: '^' is '\A', '$' is '\Z'
//   - FindLongest: find the longest match
//   - FindNotEmpty: ignore empty matches
//   - NegateSingleline: clear the Singleline option, that is default for some syntaxes
//   - DontCaptureGroup: only named groups are captured
//   - CaptureGroup: named and plain groups are captured
//   - NotBOL: the beginning of the subject is no line beginning
//   - NotEOL: the end of the subject is no line end
//   - PosixRegion: accepted for compatibility; the region layout is always the same
const (
	OptionNone       Option = 0
	OptionIgnoreCase Option = 1 << (iota - 1)
	OptionExtend
	OptionMultiline
	OptionSingleline
	OptionFindLongest
	OptionFindNotEmpty
	OptionNegateSingleline
	OptionDontCaptureGroup
	OptionCaptureGroup
	OptionNotBOL
	OptionNotEOL
	OptionPosixRegion

	OptionMaxBit = OptionPosixRegion
)

// has reports whether all bits of f are set.
func (o Option) has(f Option) bool {
	return o&f == f
}

// onoff sets or clears the bits of f.
func (o *Option) onoff(f Option, negative bool) {
	if negative {
		*o &^= f
	} else {
		*o |= f
	}
}

// effectiveOptions combines the options given to `New` with the options of the syntax.
func effectiveOptions(o Option, syn *Syntax) Option {
	if o.has(OptionNegateSingleline) {
		o |= syn.options
		o &^= OptionSingleline
	} else {
		o |= syn.options
	}

	return o
}
