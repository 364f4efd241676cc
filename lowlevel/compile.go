package lowlevel

import "github.com/magnetde/starlark-onig/regex"

// Regexp is a compiled pattern.
// It is immutable and safe for concurrent use.
type Regexp struct {
	re      *regex.Regex
	pattern String
	unicode bool
}

// Compile compiles a pattern.
// The encoding of a byte pattern defaults to ASCII, if it is `EncodingUnspecified`.
// Wide patterns always use the UTF-32 encoding of the machine; giving an encoding for them
// is an error. Unknown syntax codes select the derived syntax.
func Compile(pattern String, options regex.Option, encoding, syntax int) (*Regexp, error) {
	if err := Init(); err != nil {
		return nil, err
	}

	var enc *regex.Encoding

	switch pattern.kind {
	case kindWide:
		if encoding != EncodingUnspecified {
			return nil, usageError("compile", ErrEncodingForWide)
		}

		enc = wideEncoding()
	case kindBytes:
		if encoding == EncodingUnspecified {
			encoding = EncodingASCII
		}

		enc = ResolveEncoding(encoding)
	default:
		return nil, usageError("compile", ErrPatternType)
	}

	re, err := regex.New(pattern.data(), options, enc, ResolveSyntax(syntax))
	if err != nil {
		return nil, newRegexpError(err)
	}

	r := Regexp{
		re:      re,
		pattern: pattern,
		unicode: pattern.kind == kindWide,
	}

	return &r, nil
}

// Pattern returns the source of the pattern.
func (r *Regexp) Pattern() String { return r.pattern }

// UnicodeMode reports whether the pattern is a wide string.
func (r *Regexp) UnicodeMode() bool { return r.unicode }

// Options returns the effective options of the pattern.
func (r *Regexp) Options() regex.Option { return r.re.Options() }

// Encoding returns the encoding of the pattern.
func (r *Regexp) Encoding() *regex.Encoding { return r.re.Encoding() }

// Syntax returns the syntax of the pattern.
func (r *Regexp) Syntax() *regex.Syntax { return r.re.Syntax() }

// NumberOfCaptures returns the number of capture groups.
func (r *Regexp) NumberOfCaptures() int { return r.re.NumberOfCaptures() }

// Names returns the group names of the pattern in the order of their definition.
// Names of multiple groups map to the number of the group defined last.
func (r *Regexp) Names() ([]string, map[string]int) {
	var names []string
	nums := make(map[string]int, r.re.NumberOfNames())

	r.re.ForEachName(func(name string, groups []int) bool {
		names = append(names, name)
		nums[name] = groups[len(groups)-1]
		return true
	})

	return names, nums
}
