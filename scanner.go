package onig

import (
	"fmt"
	"slices"

	"go.starlark.net/starlark"
)

// anyCharPattern matches one character including newlines.
const anyCharPattern = `(?:.|\n)`

// Scanner is a regular expression based scanner. It keeps track of the current position
// and continues scanning from there.
type Scanner struct {
	module *Module
	thread *starlark.Thread // thread of the current call; used for warnings

	str    strOrBytes
	pos    int
	oldPos int // -1, if there is no previous position
	end    int
	match  starlark.Value

	regexps map[strOrBytes]*Regexp
	frozen  bool
}

func newScanner(m *Module, str strOrBytes) *Scanner {
	s := Scanner{
		module:  m,
		str:     str,
		regexps: make(map[strOrBytes]*Regexp),
	}
	s.reset()

	return &s
}

// Check, if the type satisfies the interfaces.
var (
	_ starlark.Value       = (*Scanner)(nil)
	_ starlark.HasAttrs    = (*Scanner)(nil)
	_ starlark.HasSetField = (*Scanner)(nil)
)

func (s *Scanner) String() string        { return fmt.Sprintf("<Scanner %d/%d>", s.pos, s.end) }
func (s *Scanner) Type() string          { return "Scanner" }
func (s *Scanner) Freeze()               { s.frozen = true }
func (s *Scanner) Truth() starlark.Bool  { return true }
func (s *Scanner) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable: %s", s.Type()) }

// length returns the length of the string in the positions of a string pattern.
func (s *Scanner) length() int {
	return s.str.lowlevel().Len()
}

// slice returns a part of the string.
func (s *Scanner) slice(beg, end int) starlark.Value {
	l := s.str.lowlevel()
	n := l.Len()

	beg = min(max(beg, 0), n)
	end = min(max(end, beg), n)

	return fromLowlevel(l.Slice(beg, end))
}

func (s *Scanner) reset() {
	s.pos = 0
	s.oldPos = -1
	s.end = s.length()
	s.match = starlark.None
}

func (s *Scanner) checkMutable() error {
	if s.frozen {
		return fmt.Errorf("cannot modify frozen %s", s.Type())
	}

	return nil
}

// regexp compiles the pattern of a scanner operation. Compiled patterns are remembered by the scanner.
func (s *Scanner) regexp(p patternParam) (*Regexp, error) {
	if p.compiled != nil {
		return p.compiled, nil
	}

	if r, ok := s.regexps[p.raw]; ok {
		return r, nil
	}

	r, err := s.module.compile(s.thread, p.raw, 0, optionalInt{}, optionalInt{})
	if err != nil {
		return nil, err
	}

	if !s.frozen {
		s.regexps[p.raw] = r
	}

	return r, nil
}

// check matches the pattern at the current position without advancing.
func (s *Scanner) check(p patternParam) (*Match, error) {
	r, err := s.regexp(p)
	if err != nil {
		return nil, err
	}

	return r.invoke(s.str.lowlevel(), s.str.starlark(), s.pos, -1, true)
}

// scan matches the pattern at the current position and advances behind the match.
func (s *Scanner) scan(p patternParam) (*Match, error) {
	if err := s.checkMutable(); err != nil {
		return nil, err
	}

	m, err := s.check(p)
	if err != nil || m == nil {
		return nil, err
	}

	s.oldPos = s.pos
	s.pos = m.spans[0].End
	s.match = m

	return m, nil
}

// Methods of the scanner object.
var scannerMethods = map[string]*starlark.Builtin{
	"reset":  starlark.NewBuiltin("reset", scannerReset),
	"feed":   starlark.NewBuiltin("feed", scannerFeed),
	"check":  starlark.NewBuiltin("check", scannerCheck),
	"scan":   starlark.NewBuiltin("scan", scannerScan),
	"skip":   starlark.NewBuiltin("skip", scannerSkip),
	"search": starlark.NewBuiltin("search", scannerSearch),
	"getch":  starlark.NewBuiltin("getch", scannerGetch),
	"rewind": starlark.NewBuiltin("rewind", scannerRewind),
}

// scannerMembers contains members of the scanner object.
var scannerMembers = map[string]func(s *Scanner) starlark.Value{
	"string":  func(s *Scanner) starlark.Value { return s.str.starlark() },
	"pos":     func(s *Scanner) starlark.Value { return starlark.MakeInt(s.pos) },
	"end":     func(s *Scanner) starlark.Value { return starlark.MakeInt(s.end) },
	"match":   func(s *Scanner) starlark.Value { return s.match },
	"eos":     func(s *Scanner) starlark.Value { return starlark.Bool(s.pos >= s.end) },
	"rest":    func(s *Scanner) starlark.Value { return s.slice(s.pos, s.end) },
	"scanned": func(s *Scanner) starlark.Value { return s.slice(0, s.pos) },
}

// Attr gets a value for a string attribute.
func (s *Scanner) Attr(name string) (starlark.Value, error) {
	if o, ok := scannerMethods[name]; ok {
		return o.BindReceiver(s), nil
	}

	if o, ok := scannerMembers[name]; ok {
		return o(s), nil
	}

	return nil, nil
}

// AttrNames lists available dot expression strings.
func (s *Scanner) AttrNames() []string {
	names := make([]string, 0, len(scannerMethods)+len(scannerMembers))

	for name := range scannerMethods {
		names = append(names, name)
	}
	for name := range scannerMembers {
		names = append(names, name)
	}

	slices.Sort(names)
	return names
}

// SetField sets the scan position. All other members are read-only.
func (s *Scanner) SetField(name string, v starlark.Value) error {
	if name != "pos" {
		return starlark.NoSuchAttrError(fmt.Sprintf("cannot assign to field %s of %s", name, s.Type()))
	}
	if err := s.checkMutable(); err != nil {
		return err
	}

	var pos int
	if err := starlark.AsInt(v, &pos); err != nil {
		return fmt.Errorf("pos: %w", err)
	}

	s.pos = pos
	return nil
}

// receiver returns the scanner of the builtin and remembers the thread for warnings.
func receiver(thread *starlark.Thread, b *starlark.Builtin) *Scanner {
	s := b.Receiver().(*Scanner)
	s.thread = thread

	return s
}

func scannerReset(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}

	s := receiver(thread, b)
	if err := s.checkMutable(); err != nil {
		return nil, err
	}

	s.reset()
	return starlark.None, nil
}

// scannerFeed appends a string to the scanned string.
func scannerFeed(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var str strOrBytes
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "string", &str); err != nil {
		return nil, err
	}

	s := receiver(thread, b)
	if err := s.checkMutable(); err != nil {
		return nil, err
	}

	if str.isString != s.str.isString {
		return nil, typeError("got %s, want %s", str.typeString(), s.str.typeString())
	}

	s.str.value += str.value
	s.end = s.length()

	return starlark.None, nil
}

// scannerCheck returns the match at the current position without advancing.
func scannerCheck(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var p patternParam
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "regexp", &p); err != nil {
		return nil, err
	}

	return matchOrNone(receiver(thread, b).check(p))
}

// scannerScan returns the match at the current position and advances the position behind the match.
func scannerScan(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var p patternParam
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "regexp", &p); err != nil {
		return nil, err
	}

	return matchOrNone(receiver(thread, b).scan(p))
}

// scannerSkip works like `scan`, but returns whether the pattern matched.
func scannerSkip(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var p patternParam
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "regexp", &p); err != nil {
		return nil, err
	}

	m, err := receiver(thread, b).scan(p)
	if err != nil {
		return nil, err
	}

	return starlark.Bool(m != nil), nil
}

// scannerSearch searches the pattern from the current position. If it is found, the position is advanced
// behind the match and the skipped string including the match is returned. Otherwise the result is `None`.
func scannerSearch(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var p patternParam
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "regexp", &p); err != nil {
		return nil, err
	}

	s := receiver(thread, b)
	if err := s.checkMutable(); err != nil {
		return nil, err
	}

	r, err := s.regexp(p)
	if err != nil {
		return nil, err
	}

	m, err := r.invoke(s.str.lowlevel(), s.str.starlark(), s.pos, -1, false)
	if err != nil || m == nil {
		return matchOrNone(m, err)
	}

	start, end := s.pos, m.spans[0].End

	s.oldPos = start
	s.pos = end
	s.match = m

	return s.slice(start, end), nil
}

// scannerGetch returns the next character or `None`, if the end is reached.
func scannerGetch(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}

	s := receiver(thread, b)

	m, err := s.scan(patternParam{raw: strOrBytes{value: anyCharPattern, isString: s.str.isString}})
	if err != nil || m == nil {
		return matchOrNone(m, err)
	}

	return m.groupValue(0)
}

// scannerRewind goes back to the previous position. Only one step back is possible.
func scannerRewind(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}

	s := receiver(thread, b)
	if err := s.checkMutable(); err != nil {
		return nil, err
	}

	if s.oldPos < 0 {
		if s.pos == 0 {
			return nil, runtimeError("Cannot rewind beyond start position")
		}

		return nil, runtimeError("Cannot rewind more than one position back")
	}

	s.pos = s.oldPos
	s.oldPos = -1

	return starlark.None, nil
}
