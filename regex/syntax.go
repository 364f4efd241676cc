package regex

// Syntax operators (ONIG_SYN_OP_*).
const (
	SynOpVariableMetaCharacters   uint32 = 1 << 0  // not supported
	SynOpDotAnychar               uint32 = 1 << 1  // .
	SynOpAsteriskZeroInf          uint32 = 1 << 2  // *
	SynOpEscAsteriskZeroInf       uint32 = 1 << 3  // \*
	SynOpPlusOneInf               uint32 = 1 << 4  // +
	SynOpEscPlusOneInf            uint32 = 1 << 5  // \+
	SynOpQmarkZeroOne             uint32 = 1 << 6  // ?
	SynOpEscQmarkZeroOne          uint32 = 1 << 7  // \?
	SynOpBraceInterval            uint32 = 1 << 8  // {lower,upper}
	SynOpEscBraceInterval         uint32 = 1 << 9  // \{lower,upper\}
	SynOpVbarAlt                  uint32 = 1 << 10 // |
	SynOpEscVbarAlt               uint32 = 1 << 11 // \|
	SynOpLparenSubexp             uint32 = 1 << 12 // (...)
	SynOpEscLparenSubexp          uint32 = 1 << 13 // \(...\)
	SynOpEscAZBufAnchor           uint32 = 1 << 14 // \A, \Z, \z
	SynOpEscCapitalGBeginAnchor   uint32 = 1 << 15 // \G
	SynOpDecimalBackref           uint32 = 1 << 16 // \num
	SynOpBracketCC                uint32 = 1 << 17 // [...]
	SynOpEscWWord                 uint32 = 1 << 18 // \w, \W
	SynOpEscLtGtWordBeginEnd      uint32 = 1 << 19 // \<, \>
	SynOpEscBWordBound            uint32 = 1 << 20 // \b, \B
	SynOpEscSWhiteSpace           uint32 = 1 << 21 // \s, \S
	SynOpEscDDigit                uint32 = 1 << 22 // \d, \D
	SynOpLineAnchor               uint32 = 1 << 23 // ^, $
	SynOpPosixBracket             uint32 = 1 << 24 // [:xxxx:]
	SynOpQmarkNonGreedy           uint32 = 1 << 25 // ??, *?, +?, {n,m}?
	SynOpEscControlChars          uint32 = 1 << 26 // \n, \r, \t, \a, ...
	SynOpEscCControl              uint32 = 1 << 27 // \cx
	SynOpEscOctal3                uint32 = 1 << 28 // \OOO
	SynOpEscXHex2                 uint32 = 1 << 29 // \xHH
	SynOpEscXBraceHex8            uint32 = 1 << 30 // \x{7HHHHHHH}
)

// Extended syntax operators (ONIG_SYN_OP2_*).
const (
	SynOp2EscCapitalQQuote       uint32 = 1 << 0  // \Q...\E
	SynOp2QmarkGroupEffect       uint32 = 1 << 1  // (?...)
	SynOp2OptionPerl             uint32 = 1 << 2  // (?imsx), (?-imsx)
	SynOp2OptionRuby             uint32 = 1 << 3  // (?imx), (?-imx)
	SynOp2PlusPossessiveRepeat   uint32 = 1 << 4  // ?+, *+, ++
	SynOp2PlusPossessiveInterval uint32 = 1 << 5  // {n,m}+
	SynOp2CClassSetOp            uint32 = 1 << 6  // [...&&..[..]..]
	SynOp2QmarkLtNamedGroup      uint32 = 1 << 7  // (?<name>...)
	SynOp2EscKNamedBackref       uint32 = 1 << 8  // \k<name>
	SynOp2EscGSubexpCall         uint32 = 1 << 9  // \g<name>, \g<n>
	SynOp2AtmarkCaptureHistory   uint32 = 1 << 10 // (?@..), (?@<x>..)
	SynOp2EscCapitalCBarControl  uint32 = 1 << 11 // \C-x
	SynOp2EscCapitalMBarMeta     uint32 = 1 << 12 // \M-x
	SynOp2EscVVtab               uint32 = 1 << 13 // \v as VTAB
	SynOp2EscUHex4               uint32 = 1 << 14 // \uHHHH
	SynOp2EscGnuBufAnchor        uint32 = 1 << 15 // \`, \'
	SynOp2EscPBraceCharProperty  uint32 = 1 << 16 // \p{...}, \P{...}
	SynOp2EscPBraceCircumflexNot uint32 = 1 << 17 // \p{^..}, \P{^..}
	SynOp2EscHXDigit             uint32 = 1 << 19 // \h, \H
	SynOp2IneffectiveEscape      uint32 = 1 << 20 // \
)

// Syntax behaviors (ONIG_SYN_*).
const (
	SynContextIndepRepeatOps        uint32 = 1 << 0  // ?, *, +, {n,m}
	SynContextInvalidRepeatOps      uint32 = 1 << 1  // error or ignore
	SynAllowUnmatchedCloseSubexp    uint32 = 1 << 2  // ...)...
	SynAllowInvalidInterval         uint32 = 1 << 3  // {???
	SynAllowIntervalLowAbbrev       uint32 = 1 << 4  // {,n} => {0,n}
	SynStrictCheckBackref           uint32 = 1 << 5  // /(\1)/,/\1()/ ..
	SynDifferentLenAltLookBehind    uint32 = 1 << 6  // (?<=a|bc)
	SynCaptureOnlyNamedGroup        uint32 = 1 << 7  // see doc/RE
	SynAllowMultiplexDefinitionName uint32 = 1 << 8  // (?<x>)(?<x>)
	SynFixedIntervalIsGreedyOnly    uint32 = 1 << 9  // a{n}?=(?:a{n})?
	SynNotNewlineInNegativeCC       uint32 = 1 << 20 // [^...]
	SynBackslashEscapeInCC          uint32 = 1 << 21 // [..\w..] etc..
	SynAllowEmptyRangeInCC          uint32 = 1 << 22
	SynAllowDoubleRangeOpInCC       uint32 = 1 << 23 // [0-9-a]=[0-9\-a]
	SynWarnCCOpNotEscaped           uint32 = 1 << 24 // [,-,]
	SynWarnRedundantNestedRepeat    uint32 = 1 << 25 // (?:a*)+
	SynContextIndepAnchors          uint32 = 1 << 31 // not implemented
)

// Syntax describes the dialect of a pattern.
// The operator and behavior bits decide which constructs the parser accepts,
// the options are merged into the options of every pattern compiled with it.
type Syntax struct {
	name     string
	op       uint32
	op2      uint32
	behavior uint32
	options  Option
}

const (
	synPosixCommonOp = SynOpDotAnychar | SynOpPosixBracket | SynOpDecimalBackref |
		SynOpBracketCC | SynOpAsteriskZeroInf | SynOpLineAnchor | SynOpEscControlChars

	synGnuRegexOp = SynOpDotAnychar | SynOpBracketCC | SynOpPosixBracket | SynOpDecimalBackref |
		SynOpBraceInterval | SynOpLparenSubexp | SynOpVbarAlt | SynOpAsteriskZeroInf |
		SynOpPlusOneInf | SynOpQmarkZeroOne | SynOpEscAZBufAnchor | SynOpEscCapitalGBeginAnchor |
		SynOpEscWWord | SynOpEscBWordBound | SynOpEscLtGtWordBeginEnd | SynOpEscSWhiteSpace |
		SynOpEscDDigit | SynOpLineAnchor

	synGnuRegexBv = SynContextIndepAnchors | SynContextIndepRepeatOps | SynContextInvalidRepeatOps |
		SynAllowInvalidInterval | SynBackslashEscapeInCC | SynAllowDoubleRangeOpInCC

	synPerlOp = (synGnuRegexOp | SynOpQmarkNonGreedy | SynOpEscOctal3 | SynOpEscXHex2 |
		SynOpEscXBraceHex8 | SynOpEscControlChars | SynOpEscCControl) &^ SynOpEscLtGtWordBeginEnd

	synPerlOp2 = SynOp2EscCapitalQQuote | SynOp2QmarkGroupEffect | SynOp2OptionPerl |
		SynOp2EscPBraceCharProperty | SynOp2EscPBraceCircumflexNot
)

// Built-in syntaxes.
var (
	SyntaxASIS = &Syntax{
		name: "ASIS",
		op2:  SynOp2IneffectiveEscape,
	}

	SyntaxPosixBasic = &Syntax{
		name:    "POSIX_BASIC",
		op:      synPosixCommonOp | SynOpEscLparenSubexp | SynOpEscBraceInterval,
		options: OptionSingleline,
	}

	SyntaxPosixExtended = &Syntax{
		name: "POSIX_EXTENDED",
		op: synPosixCommonOp | SynOpLparenSubexp | SynOpBraceInterval |
			SynOpPlusOneInf | SynOpQmarkZeroOne | SynOpVbarAlt,
		behavior: SynContextIndepAnchors | SynContextIndepRepeatOps | SynContextInvalidRepeatOps |
			SynAllowUnmatchedCloseSubexp | SynAllowDoubleRangeOpInCC,
		options: OptionSingleline,
	}

	SyntaxEmacs = &Syntax{
		name: "EMACS",
		op: SynOpDotAnychar | SynOpBracketCC | SynOpEscBraceInterval | SynOpEscLparenSubexp |
			SynOpEscVbarAlt | SynOpAsteriskZeroInf | SynOpPlusOneInf | SynOpQmarkZeroOne |
			SynOpDecimalBackref | SynOpLineAnchor | SynOpEscControlChars,
		op2:      SynOp2EscGnuBufAnchor,
		behavior: SynAllowEmptyRangeInCC,
	}

	SyntaxGrep = &Syntax{
		name: "GREP",
		op: SynOpDotAnychar | SynOpBracketCC | SynOpPosixBracket | SynOpEscBraceInterval |
			SynOpEscLparenSubexp | SynOpEscVbarAlt | SynOpAsteriskZeroInf | SynOpEscPlusOneInf |
			SynOpEscQmarkZeroOne | SynOpLineAnchor | SynOpEscWWord | SynOpEscBWordBound |
			SynOpEscLtGtWordBeginEnd | SynOpDecimalBackref,
		behavior: SynAllowEmptyRangeInCC | SynNotNewlineInNegativeCC,
	}

	SyntaxGnuRegex = &Syntax{
		name:     "GNU_REGEX",
		op:       synGnuRegexOp,
		behavior: synGnuRegexBv,
	}

	SyntaxJava = &Syntax{
		name: "JAVA",
		op: (synGnuRegexOp | SynOpQmarkNonGreedy |
			SynOpEscControlChars | SynOpEscCControl | SynOpEscOctal3 | SynOpEscXHex2) &^ SynOpEscLtGtWordBeginEnd,
		op2: SynOp2EscCapitalQQuote | SynOp2QmarkGroupEffect | SynOp2OptionPerl |
			SynOp2PlusPossessiveRepeat | SynOp2PlusPossessiveInterval | SynOp2CClassSetOp |
			SynOp2EscVVtab | SynOp2EscUHex4 | SynOp2EscPBraceCharProperty,
		behavior: synGnuRegexBv,
		options:  OptionSingleline,
	}

	SyntaxPerl = &Syntax{
		name:     "PERL",
		op:       synPerlOp,
		op2:      synPerlOp2,
		behavior: synGnuRegexBv,
		options:  OptionSingleline,
	}

	SyntaxPerlNG = &Syntax{
		name: "PERL_NG",
		op:   synPerlOp,
		op2: synPerlOp2 | SynOp2PlusPossessiveRepeat | SynOp2PlusPossessiveInterval |
			SynOp2QmarkLtNamedGroup | SynOp2EscKNamedBackref | SynOp2EscGSubexpCall,
		behavior: synGnuRegexBv | SynCaptureOnlyNamedGroup | SynAllowMultiplexDefinitionName,
		options:  OptionSingleline,
	}

	SyntaxRuby = &Syntax{
		name: "RUBY",
		op:   synPerlOp,
		op2: SynOp2QmarkGroupEffect | SynOp2OptionRuby | SynOp2QmarkLtNamedGroup |
			SynOp2EscKNamedBackref | SynOp2EscGSubexpCall | SynOp2EscPBraceCharProperty |
			SynOp2EscPBraceCircumflexNot | SynOp2PlusPossessiveRepeat | SynOp2CClassSetOp |
			SynOp2EscCapitalCBarControl | SynOp2EscCapitalMBarMeta | SynOp2EscVVtab |
			SynOp2EscHXDigit,
		behavior: synGnuRegexBv | SynAllowIntervalLowAbbrev | SynDifferentLenAltLookBehind |
			SynCaptureOnlyNamedGroup | SynAllowMultiplexDefinitionName | SynFixedIntervalIsGreedyOnly |
			SynWarnCCOpNotEscaped | SynWarnRedundantNestedRepeat,
	}

	// SyntaxDefault is the syntax used by `New` when no syntax is given.
	SyntaxDefault = SyntaxRuby
)

// CopySyntax copies all operator, behavior and option bits of src into dst.
// The name of dst is kept, if it already has one.
func CopySyntax(dst, src *Syntax) error {
	if dst == nil || src == nil {
		return &Error{Code: ErrInvalidArgument}
	}

	name := dst.name
	*dst = *src
	if name != "" {
		dst.name = name
	}

	return nil
}

// NewSyntax returns a named copy of the syntax base.
func NewSyntax(name string, base *Syntax) (*Syntax, error) {
	s := &Syntax{name: name}
	if err := CopySyntax(s, base); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Syntax) Name() string { return s.name }

func (s *Syntax) String() string { return s.name }

func (s *Syntax) Op() uint32 { return s.op }

func (s *Syntax) SetOp(op uint32) { s.op = op }

func (s *Syntax) Op2() uint32 { return s.op2 }

func (s *Syntax) SetOp2(op2 uint32) { s.op2 = op2 }

func (s *Syntax) Behavior() uint32 { return s.behavior }

func (s *Syntax) SetBehavior(b uint32) { s.behavior = b }

func (s *Syntax) Options() Option { return s.options }

func (s *Syntax) SetOptions(o Option) { s.options = o }

func (s *Syntax) isOp(f uint32) bool  { return s.op&f != 0 }
func (s *Syntax) isOp2(f uint32) bool { return s.op2&f != 0 }
func (s *Syntax) isBv(f uint32) bool  { return s.behavior&f != 0 }
