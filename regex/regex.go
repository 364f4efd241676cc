package regex

import (
	"sort"
	"sync"

	"github.com/dlclark/regexp2"
)

// Regex is a compiled pattern.
// A Regex is safe for concurrent use by multiple goroutines.
type Regex struct {
	pattern []byte
	options Option
	enc     *Encoding
	syntax  *Syntax
	tree    *tree

	mu       sync.Mutex
	variants map[variant]*compiled
}

// compiled is a translated variant of the pattern.
type compiled struct {
	re     *regexp2.Regexp
	groups []int // engine group number of each capture group; index 0 is the whole match
}

// Region holds the byte offsets of the capture groups of a match.
// Index 0 is the whole match; unset groups have the offsets -1.
type Region struct {
	Beg []int
	End []int
}

// NewRegion returns an empty region.
func NewRegion() *Region {
	return &Region{}
}

// NumRegs returns the number of groups in the region, including the whole match.
func (r *Region) NumRegs() int {
	return len(r.Beg)
}

// Clear removes all groups of the region.
func (r *Region) Clear() {
	r.Beg = r.Beg[:0]
	r.End = r.End[:0]
}

func (r *Region) resize(n int) {
	r.Beg = growSlice(r.Beg, n)
	r.End = growSlice(r.End, n)
}

// New compiles a pattern, which is given in the encoding enc.
// If syntax is nil, the default syntax is used.
func New(pattern []byte, options Option, enc *Encoding, syntax *Syntax) (*Regex, error) {
	if options.has(OptionDontCaptureGroup | OptionCaptureGroup) {
		return nil, newError(ErrInvalidCombinationOfOptions)
	}
	if enc == nil || enc == EncodingUndef {
		return nil, newError(ErrDefaultEncodingIsNotSet)
	}
	if syntax == nil {
		syntax = SyntaxDefault
	}

	options = effectiveOptions(options, syntax)

	chars, _ := enc.Decode(pattern)

	t, err := parse(chars, options, syntax, enc)
	if err != nil {
		return nil, err
	}

	re := &Regex{
		pattern:  append([]byte(nil), pattern...),
		options:  options,
		enc:      enc,
		syntax:   syntax,
		tree:     t,
		variants: make(map[variant]*compiled),
	}

	// errors of the engine are reported by the compilation
	if _, err := re.variant(variant{}); err != nil {
		return nil, err
	}

	return re, nil
}

// variant returns the compiled variant of the pattern. Variants are compiled on demand.
func (r *Regex) variant(v variant) (*compiled, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.variants[v]; ok {
		return c, nil
	}

	expr := translate(r.tree, r.enc, v)

	re, err := regexp2.Compile(expr, regexp2.None)
	if err != nil {
		return nil, &Error{Code: ErrParserBug, Detail: err.Error()}
	}

	groups := make([]int, r.tree.captures+1)
	for i := 1; i < len(groups); i++ {
		groups[i] = re.GroupNumberFromName(captureName(i))
	}

	c := &compiled{
		re:     re,
		groups: groups,
	}
	r.variants[v] = c

	return c, nil
}

// Pattern returns the source of the pattern.
func (r *Regex) Pattern() []byte {
	return r.pattern
}

// Options returns the effective compile options.
func (r *Regex) Options() Option {
	return r.options
}

// Encoding returns the encoding of the pattern.
func (r *Regex) Encoding() *Encoding {
	return r.enc
}

// Syntax returns the syntax of the pattern.
func (r *Regex) Syntax() *Syntax {
	return r.syntax
}

// NumberOfCaptures returns the number of capture groups.
func (r *Regex) NumberOfCaptures() int {
	return r.tree.captures
}

// NumberOfNames returns the number of distinct group names.
func (r *Regex) NumberOfNames() int {
	return len(r.tree.names)
}

// ForEachName calls f for each group name in the order of their first definition, with the
// numbers of all groups of this name. The iteration stops if f returns false.
func (r *Regex) ForEachName(f func(name string, groups []int) bool) {
	for _, name := range r.tree.names {
		if !f(name, r.tree.nameNums[name]) {
			return
		}
	}
}

// Search searches the subject str[:end] for a match, that starts between the byte
// offsets start and rng. If rng is less than start, the search runs backward.
// The byte offset of the match is returned, or `Mismatch` if there is none.
// The groups of the match are stored into region, if it is not nil.
func (r *Regex) Search(str []byte, end, start, rng int, region *Region, opt Option) (int, error) {
	end = min(max(end, 0), len(str))
	return r.SearchInput(NewInput(r.enc, str[:end]), end, start, rng, region, opt)
}

// SearchInput is like `Search`, but searches a decoded subject.
// An input decoded with another encoding than the one of the pattern is decoded again.
func (r *Regex) SearchInput(in *Input, end, start, rng int, region *Region, opt Option) (int, error) {
	in = in.prefix(r.enc, end)
	end = in.Len()
	if start < 0 || start > end {
		return Mismatch, nil
	}
	rng = min(max(rng, 0), end)

	opt |= r.options

	v := variant{
		notEmpty: opt.has(OptionFindNotEmpty),
		notBOL:   opt.has(OptionNotBOL),
		notEOL:   opt.has(OptionNotEOL),
	}
	longest := opt.has(OptionFindLongest)

	si := in.index(start)
	ri := in.index(rng)

	if !v.notEmpty && !longest && ri >= si {
		c, err := r.variant(v)
		if err != nil {
			return Mismatch, err
		}

		m, err := c.re.FindRunesMatchStartingAt(in.chars, si)
		if err != nil {
			return Mismatch, err
		}
		if m == nil || m.Index > ri {
			return Mismatch, nil
		}

		c.fill(region, m, in.offsets)
		return in.offsets[m.Index], nil
	}

	v.anchored = true
	c, err := r.variant(v)
	if err != nil {
		return Mismatch, err
	}

	step := 1
	if ri < si {
		step = -1
	}

	var best *regexp2.Match
	for i := si; ; i += step {
		m, err := c.re.FindRunesMatchStartingAt(in.chars, i)
		if err != nil {
			return Mismatch, err
		}

		if m != nil {
			if !longest {
				best = m
				break
			}
			if best == nil || m.Length > best.Length {
				best = m
			}
		}

		if i == ri {
			break
		}
	}

	if best == nil {
		return Mismatch, nil
	}

	c.fill(region, best, in.offsets)
	return in.offsets[best.Index], nil
}

// Match matches the pattern at the byte offset at of the subject str[:end].
// The length of the match in bytes is returned, or `Mismatch` if there is none.
func (r *Regex) Match(str []byte, end, at int, region *Region, opt Option) (int, error) {
	end = min(max(end, 0), len(str))
	return r.MatchInput(NewInput(r.enc, str[:end]), end, at, region, opt)
}

// MatchInput is like `Match`, but matches a decoded subject.
func (r *Regex) MatchInput(in *Input, end, at int, region *Region, opt Option) (int, error) {
	in = in.prefix(r.enc, end)
	end = in.Len()
	if at < 0 || at > end {
		return Mismatch, nil
	}

	opt |= r.options

	c, err := r.variant(variant{
		anchored: true,
		notEmpty: opt.has(OptionFindNotEmpty),
		notBOL:   opt.has(OptionNotBOL),
		notEOL:   opt.has(OptionNotEOL),
	})
	if err != nil {
		return Mismatch, err
	}

	m, err := c.re.FindRunesMatchStartingAt(in.chars, in.index(at))
	if err != nil {
		return Mismatch, err
	}
	if m == nil {
		return Mismatch, nil
	}

	c.fill(region, m, in.offsets)
	return in.offsets[m.Index+m.Length] - at, nil
}

// fill stores the groups of the match into the region.
func (c *compiled) fill(region *Region, m *regexp2.Match, offsets []int) {
	if region == nil {
		return
	}

	region.resize(len(c.groups))

	for i, num := range c.groups {
		g := m.GroupByNumber(num)
		if g == nil || len(g.Captures) == 0 {
			region.Beg[i] = -1
			region.End[i] = -1
			continue
		}

		region.Beg[i] = offsets[g.Index]
		region.End[i] = offsets[g.Index+g.Length]
	}
}

// Input is a subject decoded with an encoding.
// It is immutable and can be used for any number of searches.
type Input struct {
	enc     *Encoding
	data    []byte
	chars   []rune
	offsets []int // byte offset of each character and of the end
}

// NewInput decodes the subject str with the encoding enc.
// The subject must not be modified while the input is in use.
func NewInput(enc *Encoding, str []byte) *Input {
	chars, offsets := enc.Decode(str)
	return &Input{
		enc:     enc,
		data:    str,
		chars:   chars,
		offsets: offsets,
	}
}

// Encoding returns the encoding of the input.
func (in *Input) Encoding() *Encoding { return in.enc }

// Bytes returns the encoded subject.
func (in *Input) Bytes() []byte { return in.data }

// Len returns the length of the subject in bytes.
func (in *Input) Len() int { return len(in.data) }

// prefix returns the input of the first end bytes of the subject, decoded with enc.
// The characters are shared, unless end splits a character.
func (in *Input) prefix(enc *Encoding, end int) *Input {
	end = min(max(end, 0), len(in.data))

	if enc != in.enc {
		return NewInput(enc, in.data[:end])
	}
	if end == len(in.data) {
		return in
	}

	k := in.index(end)
	if in.offsets[k] != end {
		return NewInput(enc, in.data[:end])
	}

	return &Input{
		enc:     enc,
		data:    in.data[:end],
		chars:   in.chars[:k],
		offsets: in.offsets[:k+1],
	}
}

// index returns the index of the first character, that starts at or after the byte offset pos.
func (in *Input) index(pos int) int {
	return sort.SearchInts(in.offsets, pos)
}

// growSlice increases the slice's size, if necessary, to guarantee a size
// of n. If the previous capacity was less than n, the slice is filled with
// elements with a value of zero.
// See also slices.Grow.
func growSlice[S ~[]E, E any](s S, n int) S {
	if cap(s) < n {
		s = append(s[:cap(s)], make([]E, n-cap(s))...)
	}

	return s[:n]
}
