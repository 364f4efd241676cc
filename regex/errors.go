package regex

import (
	"fmt"
	"strings"
)

// Mismatch is returned by `Search` and `Match` if no match was found.
const Mismatch = -1

// Error codes. The values and the messages are the ones of Oniguruma.
const (
	ErrNoSupportConfig               = -2
	ErrMemory                        = -5
	ErrParserBug                     = -11
	ErrDefaultEncodingIsNotSet       = -21
	ErrInvalidArgument               = -30
	ErrEndPatternAtLeftBrace         = -100
	ErrEndPatternAtLeftBracket       = -101
	ErrEmptyCharClass                = -102
	ErrPrematureEndOfCharClass       = -103
	ErrEndPatternAtEscape            = -104
	ErrEndPatternAtMeta              = -105
	ErrEndPatternAtControl           = -106
	ErrMetaCodeSyntax                = -108
	ErrControlCodeSyntax             = -109
	ErrCharClassValueAtEndOfRange    = -110
	ErrCharClassValueAtStartOfRange  = -111
	ErrUnmatchedRangeSpecifierInCC   = -112
	ErrTargetOfRepeatNotSpecified    = -113
	ErrTargetOfRepeatInvalid         = -114
	ErrNestedRepeatOperator          = -115
	ErrUnmatchedCloseParenthesis     = -116
	ErrEndPatternWithUnmatchedParen  = -117
	ErrEndPatternInGroup             = -118
	ErrUndefinedGroupOption          = -119
	ErrInvalidPosixBracketType       = -121
	ErrInvalidLookBehindPattern      = -122
	ErrInvalidRepeatRangePattern     = -123
	ErrTooBigNumber                  = -200
	ErrTooBigNumberForRepeatRange    = -201
	ErrUpperSmallerThanLowerInRepeat = -202
	ErrEmptyRangeInCharClass         = -203
	ErrTooBigBackrefNumber           = -207
	ErrInvalidBackref                = -208
	ErrNumberedBackrefNotAllowed     = -209
	ErrTooLongWideCharValue          = -212
	ErrEmptyGroupName                = -214
	ErrInvalidGroupName              = -215
	ErrInvalidCharInGroupName        = -216
	ErrUndefinedNameReference        = -217
	ErrUndefinedGroupReference       = -218
	ErrMultiplexDefinedName          = -219
	ErrMultiplexDefinitionNameCall   = -220
	ErrNeverEndingRecursion          = -221
	ErrInvalidCharPropertyName       = -223
	ErrInvalidCodePointValue         = -400
	ErrTooBigWideCharValue           = -401
	ErrNotSupportedEncodingCombo     = -402
	ErrInvalidCombinationOfOptions   = -403
)

var errorMessages = map[int]string{
	Mismatch:                         "mismatch",
	ErrNoSupportConfig:               "no support in this configuration",
	ErrMemory:                        "fail to memory allocation",
	ErrParserBug:                     "internal parser error (bug)",
	ErrDefaultEncodingIsNotSet:       "default multibyte-encoding is not setted",
	ErrInvalidArgument:               "invalid argument",
	ErrEndPatternAtLeftBrace:         "end pattern at left brace",
	ErrEndPatternAtLeftBracket:       "end pattern at left bracket",
	ErrEmptyCharClass:                "empty char-class",
	ErrPrematureEndOfCharClass:       "premature end of char-class",
	ErrEndPatternAtEscape:            "end pattern at escape",
	ErrEndPatternAtMeta:              "end pattern at meta",
	ErrEndPatternAtControl:           "end pattern at control",
	ErrMetaCodeSyntax:                "invalid meta-code syntax",
	ErrControlCodeSyntax:             "invalid control-code syntax",
	ErrCharClassValueAtEndOfRange:    "char-class value at end of range",
	ErrCharClassValueAtStartOfRange:  "char-class value at start of range",
	ErrUnmatchedRangeSpecifierInCC:   "unmatched range specifier in char-class",
	ErrTargetOfRepeatNotSpecified:    "target of repeat operator is not specified",
	ErrTargetOfRepeatInvalid:         "target of repeat operator is invalid",
	ErrNestedRepeatOperator:          "nested repeat operator",
	ErrUnmatchedCloseParenthesis:     "unmatched close parenthesis",
	ErrEndPatternWithUnmatchedParen:  "end pattern with unmatched parenthesis",
	ErrEndPatternInGroup:             "end pattern in group",
	ErrUndefinedGroupOption:          "undefined group option",
	ErrInvalidPosixBracketType:       "invalid POSIX bracket type",
	ErrInvalidLookBehindPattern:      "invalid pattern in look-behind",
	ErrInvalidRepeatRangePattern:     "invalid repeat range {lower,upper}",
	ErrTooBigNumber:                  "too big number",
	ErrTooBigNumberForRepeatRange:    "too big number for repeat range",
	ErrUpperSmallerThanLowerInRepeat: "upper is smaller than lower in repeat range",
	ErrEmptyRangeInCharClass:         "empty range in char class",
	ErrTooBigBackrefNumber:           "too big backref number",
	ErrInvalidBackref:                "invalid backref number/name",
	ErrNumberedBackrefNotAllowed:     "numbered backref/call is not allowed. (use name)",
	ErrTooLongWideCharValue:          "too long wide-char value",
	ErrEmptyGroupName:                "group name is empty",
	ErrInvalidGroupName:              "invalid group name <%n>",
	ErrInvalidCharInGroupName:        "invalid char in group name <%n>",
	ErrUndefinedNameReference:        "undefined name <%n> reference",
	ErrUndefinedGroupReference:       "undefined group <%n> reference",
	ErrMultiplexDefinedName:          "multiplex defined name <%n>",
	ErrMultiplexDefinitionNameCall:   "multiplex definition name <%n> call",
	ErrNeverEndingRecursion:          "never ending recursion",
	ErrInvalidCharPropertyName:       "invalid character property name {%n}",
	ErrInvalidCodePointValue:         "invalid code point value",
	ErrTooBigWideCharValue:           "too big wide-char value",
	ErrNotSupportedEncodingCombo:     "not supported encoding combination",
	ErrInvalidCombinationOfOptions:   "invalid combination of options",
}

// ErrorMessage returns the message template of an error code.
// Templates may contain the placeholder "%n" for a name.
func ErrorMessage(code int) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return fmt.Sprintf("undefined error code (%d)", code)
}

// Error is an error reported by the compiler or the matcher.
// Param is the name substituted for "%n" in the message; Detail is additional
// information, that is appended to the message.
type Error struct {
	Code   int
	Param  string
	Detail string
}

func (e *Error) Error() string {
	msg := strings.ReplaceAll(ErrorMessage(e.Code), "%n", e.Param)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}

	return msg
}

// Is reports whether target is an `*Error` with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func newError(code int) *Error {
	return &Error{Code: code}
}

func newNameError(code int, name string) *Error {
	return &Error{Code: code, Param: name}
}
