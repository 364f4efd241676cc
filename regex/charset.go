package regex

import (
	"sort"
	"strings"
	"sync"
	"unicode"
)

// A character set is a sorted slice of disjoint ranges: [lo0, hi0, lo1, hi1, ...].

// appendRange returns the result of appending the range lo-hi to the class r.
// Copied from module regexp/syntax.
func appendRange(r []rune, lo, hi rune) []rune {
	// Expand last range or next to last range if it overlaps or abuts.
	// Checking two ranges helps when appending case-folded
	// alphabets, so that one range can be expanding A-Z and the
	// other expanding a-z.
	n := len(r)
	for i := 2; i <= 4; i += 2 { // twice, using i=2, i=4
		if n >= i {
			rlo, rhi := r[n-i], r[n-i+1]
			if lo <= rhi+1 && rlo <= hi+1 {
				if lo < rlo {
					r[n-i] = lo
				}
				if hi > rhi {
					r[n-i+1] = hi
				}
				return r
			}
		}
	}

	return append(r, lo, hi)
}

// appendClass appends all ranges of class x to r.
func appendClass(r []rune, x []rune) []rune {
	for i := 0; i < len(x); i += 2 {
		r = appendRange(r, x[i], x[i+1])
	}
	return r
}

// ranges implements sort.Interface on a []rune.
// The choice of receiver type definition is strange
// but avoids an allocation since we already have
// a *[]rune.
// Copied from module regexp/syntax.
type ranges struct {
	p *[]rune
}

func (ra ranges) Less(i, j int) bool {
	p := *ra.p
	i *= 2
	j *= 2
	return p[i] < p[j] || p[i] == p[j] && p[i+1] > p[j+1]
}

func (ra ranges) Len() int {
	return len(*ra.p) / 2
}

func (ra ranges) Swap(i, j int) {
	p := *ra.p
	i *= 2
	j *= 2
	p[i], p[i+1], p[j], p[j+1] = p[j], p[j+1], p[i], p[i+1]
}

// cleanClass sorts the ranges (pairs of elements of r),
// merges them, and eliminates duplicates.
// Copied from module regexp/syntax.
func cleanClass(rp *[]rune) []rune {
	// Sort by lo increasing, hi decreasing to break ties.
	sort.Sort(ranges{rp})

	r := *rp
	if len(r) < 2 {
		return r
	}

	// Merge abutting, overlapping.
	w := 2 // write index
	for i := 2; i < len(r); i += 2 {
		lo, hi := r[i], r[i+1]
		if lo <= r[w-1]+1 {
			// merge with previous range
			if hi > r[w-1] {
				r[w-1] = hi
			}
			continue
		}
		// new disjoint range
		r[w] = lo
		r[w+1] = hi
		w += 2
	}

	return r[:w]
}

// negateClass returns the complement of the clean class r in the range 0 - MaxRune.
func negateClass(r []rune) []rune {
	var res []rune

	next := rune(0)
	for i := 0; i < len(r); i += 2 {
		if r[i] > next {
			res = append(res, next, r[i]-1)
		}
		next = r[i+1] + 1
	}

	if next <= unicode.MaxRune {
		res = append(res, next, unicode.MaxRune)
	}

	return res
}

// intersectClass returns the intersection of two clean classes.
func intersectClass(x, y []rune) []rune {
	var res []rune

	for i, j := 0, 0; i < len(x) && j < len(y); {
		lo := max(x[i], y[j])
		hi := min(x[i+1], y[j+1])
		if lo <= hi {
			res = append(res, lo, hi)
		}

		if x[i+1] < y[j+1] {
			i += 2
		} else {
			j += 2
		}
	}

	return res
}

// classContains reports whether the clean class r contains c.
func classContains(r []rune, c rune) bool {
	i := sort.Search(len(r)/2, func(i int) bool { return r[2*i+1] >= c })
	return i < len(r)/2 && r[2*i] <= c
}

// tableClass converts a unicode range table into a clean class.
func tableClass(tables ...*unicode.RangeTable) []rune {
	var r []rune

	for _, t := range tables {
		for _, rg := range t.R16 {
			r = appendStride(r, rune(rg.Lo), rune(rg.Hi), rune(rg.Stride))
		}
		for _, rg := range t.R32 {
			r = appendStride(r, rune(rg.Lo), rune(rg.Hi), rune(rg.Stride))
		}
	}

	return cleanClass(&r)
}

func appendStride(r []rune, lo, hi, stride rune) []rune {
	if stride == 1 {
		return appendRange(r, lo, hi)
	}
	for c := lo; c <= hi; c += stride {
		r = appendRange(r, c, c)
	}
	return r
}

// ctype is a character type like `\w` or `[:alpha:]`.
type ctype int

const (
	ctAlnum ctype = iota
	ctAlpha
	ctASCII
	ctBlank
	ctCntrl
	ctDigit
	ctGraph
	ctLower
	ctPrint
	ctPunct
	ctSpace
	ctUpper
	ctXDigit
	ctWord
	ctAny
)

// POSIX bracket names and the corresponding character types.
var posixBracketNames = map[string]ctype{
	"alnum":  ctAlnum,
	"alpha":  ctAlpha,
	"ascii":  ctASCII,
	"blank":  ctBlank,
	"cntrl":  ctCntrl,
	"digit":  ctDigit,
	"graph":  ctGraph,
	"lower":  ctLower,
	"print":  ctPrint,
	"punct":  ctPunct,
	"space":  ctSpace,
	"upper":  ctUpper,
	"xdigit": ctXDigit,
	"word":   ctWord,
}

// ASCII classes of the character types.
var asciiClasses = map[ctype][]rune{
	ctAlnum:  {'0', '9', 'A', 'Z', 'a', 'z'},
	ctAlpha:  {'A', 'Z', 'a', 'z'},
	ctASCII:  {0, 0x7f},
	ctBlank:  {'\t', '\t', ' ', ' '},
	ctCntrl:  {0, 0x1f, 0x7f, 0x7f},
	ctDigit:  {'0', '9'},
	ctGraph:  {'!', '~'},
	ctLower:  {'a', 'z'},
	ctPrint:  {' ', '~'},
	ctPunct:  {'!', '/', ':', '@', '[', '`', '{', '~'},
	ctSpace:  {'\t', '\r', ' ', ' '},
	ctUpper:  {'A', 'Z'},
	ctXDigit: {'0', '9', 'A', 'F', 'a', 'f'},
	ctWord:   {'0', '9', 'A', 'Z', '_', '_', 'a', 'z'},
	ctAny:    {0, unicode.MaxRune},
}

var (
	unicodeClassesOnce sync.Once
	unicodeClasses     map[ctype][]rune
)

// unicodeClass returns the Unicode class of a character type.
func unicodeClass(t ctype) []rune {
	unicodeClassesOnce.Do(func() {
		graph := negateClass(tableClass(unicode.White_Space, unicode.Cc, unicode.Cs, unicode.Co))
		graph = intersectClass(graph, negateClass(unassignedClass()))

		unicodeClasses = map[ctype][]rune{
			ctAlnum:  tableClass(unicode.L, unicode.M, unicode.Nd),
			ctAlpha:  tableClass(unicode.L, unicode.M),
			ctASCII:  asciiClasses[ctASCII],
			ctBlank:  tableClass(unicode.Zs, &unicode.RangeTable{R16: []unicode.Range16{{Lo: '\t', Hi: '\t', Stride: 1}}}),
			ctCntrl:  tableClass(unicode.Cc, unicode.Cf),
			ctDigit:  tableClass(unicode.Nd),
			ctGraph:  graph,
			ctLower:  tableClass(unicode.Ll),
			ctPrint:  cleanUnion(graph, tableClass(unicode.Zs)),
			ctPunct:  tableClass(unicode.P),
			ctSpace:  tableClass(unicode.White_Space),
			ctUpper:  tableClass(unicode.Lu),
			ctXDigit: asciiClasses[ctXDigit],
			ctWord:   tableClass(unicode.L, unicode.M, unicode.Nd, unicode.Pc),
			ctAny:    asciiClasses[ctAny],
		}
	})

	return unicodeClasses[t]
}

// unassignedClass returns the class of all unassigned code points.
func unassignedClass() []rune {
	var assigned []rune
	for _, t := range unicode.Categories {
		assigned = appendClass(assigned, tableClass(t))
	}
	return negateClass(cleanClass(&assigned))
}

// cleanUnion returns the union of clean classes.
func cleanUnion(classes ...[]rune) []rune {
	var r []rune
	for _, c := range classes {
		r = append(r, c...)
	}
	return cleanClass(&r)
}

// ctypeClass returns the class of a character type for the encoding.
func (e *Encoding) ctypeClass(t ctype) []rune {
	switch e.ctype {
	case ctypeUnicode:
		return unicodeClass(t)
	case ctypeMultibyte:
		switch t {
		case ctWord, ctGraph, ctPrint:
			// every multibyte character is a word character
			return cleanUnion(asciiClasses[t], []rune{0x80, unicode.MaxRune})
		}
	}

	return asciiClasses[t]
}

var (
	propertyNamesOnce sync.Once
	propertyNames     map[string]func() []rune
)

// normalizePropertyName removes spaces, hyphens and underscores and converts the name to lowercase.
func normalizePropertyName(name string) string {
	return strings.Map(func(c rune) rune {
		switch c {
		case ' ', '-', '_':
			return -1
		default:
			return unicode.ToLower(c)
		}
	}, name)
}

// propertyClass returns the class of a character property like `\p{Alpha}`.
// POSIX names are accepted for all encodings, Unicode categories and scripts only
// for Unicode encodings.
func (e *Encoding) propertyClass(name string) ([]rune, bool) {
	n := normalizePropertyName(name)

	if t, ok := posixBracketNames[n]; ok {
		return e.ctypeClass(t), true
	}
	if n == "any" {
		return e.ctypeClass(ctAny), true
	}

	if !e.properties {
		return nil, false
	}

	propertyNamesOnce.Do(func() {
		propertyNames = make(map[string]func() []rune)

		add := func(tables map[string]*unicode.RangeTable) {
			for name, t := range tables {
				t := t
				propertyNames[normalizePropertyName(name)] = sync.OnceValue(func() []rune { return tableClass(t) })
			}
		}

		add(unicode.Scripts)
		add(unicode.Properties)
		add(unicode.Categories)
	})

	if f, ok := propertyNames[n]; ok {
		return f(), true
	}

	return nil, false
}
