package regex

const (
	// maxRepeat is the maximum count of a repeat range.
	maxRepeat = 100000

	// maxBackref is the maximum number of a decimal backreference.
	maxBackref = 1000

	// maxCode is the largest character value.
	maxCode = 0x10ffff

	// repeatInfinite is the upper bound of unbounded repetitions.
	repeatInfinite = -1

	// posixBracketCheckLimit is the number of characters inspected to detect invalid POSIX brackets.
	posixBracketCheckLimit = 20

	// posixBracketNameMinLen is the length of the shortest POSIX bracket name.
	posixBracketNameMinLen = 4
)

// opcode is the type used for regex operators.
type opcode uint32

// The following operators exists (ordered by opcode value):
//
//   - EMPTY: matches the empty string
//   - LITERAL: literal character
//   - SET: set of characters; `.`, `[...]`, `\w`, `\p{...}`
//   - ANCHOR: positional matches; `^`, `$`, `\A`, `\Z`, `\z`, `\G`, `\b`, `\B`, `\<`, `\>`
//   - BACKREF: backreference to one or more groups; `\1`, `\k<name>`
//   - CAPTURE: capture group; `(...)`, `(?<name>...)`
//   - OPTION: subpattern with changed case sensitivity; `(?i:...)`, `(?-i)...`
//   - LOOK: lookahead or lookbehind; `(?=...)`, `(?!...)`, `(?<=...)`, `(?<!...)`
//   - ATOMIC: atomic group or possessive repeat; `(?>...)`, `a*+`
//   - REPEAT: greedy or lazy repetition; `?`, `*`, `+`, `{n,m}`
//   - CONCAT: sequence of nodes
//   - ALT: alternatives separated by `|`
const (
	opEmpty   opcode = iota // EMPTY
	opLiteral               // LITERAL
	opSet                   // SET
	opAnchor                // ANCHOR
	opBackref               // BACKREF
	opCapture               // CAPTURE
	opOption                // OPTION
	opLook                  // LOOK
	opAtomic                // ATOMIC
	opRepeat                // REPEAT
	opConcat                // CONCAT
	opAlt                   // ALT
)

// anchor is the type to specify positions.
type anchor uint32

// Available anchors.
const (
	anchorBeginBuf      anchor = iota // \A, \`
	anchorEndBuf                      // \z, \'
	anchorSemiEndBuf                  // \Z
	anchorBeginLine                   // ^
	anchorEndLine                     // $
	anchorBeginPosition               // \G
	anchorWordBound                   // \b
	anchorNotWordBound                // \B
	anchorWordBegin                   // \<
	anchorWordEnd                     // \>
)
