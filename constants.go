package onig

import (
	"fmt"
	"strings"

	"go.starlark.net/starlark"

	"github.com/magnetde/starlark-onig/lowlevel"
	"github.com/magnetde/starlark-onig/regex"
)

// Values of the `OPTION_*` constants.
var optionConstants = []struct {
	name  string
	value regex.Option
}{
	{"OPTION_NONE", regex.OptionNone},
	{"OPTION_IGNORECASE", regex.OptionIgnoreCase},
	{"OPTION_EXTEND", regex.OptionExtend},
	{"OPTION_MULTILINE", regex.OptionMultiline},
	{"OPTION_SINGLELINE", regex.OptionSingleline},
	{"OPTION_FIND_LONGEST", regex.OptionFindLongest},
	{"OPTION_FIND_NOT_EMPTY", regex.OptionFindNotEmpty},
	{"OPTION_NEGATE_SINGLELINE", regex.OptionNegateSingleline},
	{"OPTION_DONT_CAPTURE_GROUP", regex.OptionDontCaptureGroup},
	{"OPTION_CAPTURE_GROUP", regex.OptionCaptureGroup},
	{"OPTION_NOTBOL", regex.OptionNotBOL},
	{"OPTION_NOTEOL", regex.OptionNotEOL},
	{"OPTION_POSIX_REGION", regex.OptionPosixRegion},
	{"OPTION_MAXBIT", regex.OptionPosixRegion},
	{"OPTION_DEFAULT", regex.OptionNone},

	// short aliases
	{"VERBOSE", regex.OptionExtend},
	{"X", regex.OptionExtend},
	{"DOTALL", regex.OptionMultiline},
	{"S", regex.OptionMultiline},
	{"MULTILINE", regex.OptionNegateSingleline},
	{"M", regex.OptionNegateSingleline},
	{"IGNORECASE", regex.OptionIgnoreCase},
	{"I", regex.OptionIgnoreCase},
}

var syntaxConstants = []struct {
	name string
	code int
}{
	{"ASIS", lowlevel.SyntaxASIS},
	{"POSIX_BASIC", lowlevel.SyntaxPosixBasic},
	{"POSIX_EXTENDED", lowlevel.SyntaxPosixExtended},
	{"EMACS", lowlevel.SyntaxEmacs},
	{"GREP", lowlevel.SyntaxGrep},
	{"GNU_REGEX", lowlevel.SyntaxGnuRegex},
	{"JAVA", lowlevel.SyntaxJava},
	{"PERL", lowlevel.SyntaxPerl},
	{"PERL_NG", lowlevel.SyntaxPerlNG},
	{"RUBY", lowlevel.SyntaxRuby},
	{"PYTHON", lowlevel.SyntaxPython},
	{"DEFAULT", lowlevel.SyntaxDefault},
}

var encodingConstants = []struct {
	name string
	code int
}{
	{"ASCII", lowlevel.EncodingASCII},
	{"ISO_8859_1", lowlevel.EncodingISO8859_1},
	{"ISO_8859_2", lowlevel.EncodingISO8859_2},
	{"ISO_8859_3", lowlevel.EncodingISO8859_3},
	{"ISO_8859_4", lowlevel.EncodingISO8859_4},
	{"ISO_8859_5", lowlevel.EncodingISO8859_5},
	{"ISO_8859_6", lowlevel.EncodingISO8859_6},
	{"ISO_8859_7", lowlevel.EncodingISO8859_7},
	{"ISO_8859_8", lowlevel.EncodingISO8859_8},
	{"ISO_8859_9", lowlevel.EncodingISO8859_9},
	{"ISO_8859_10", lowlevel.EncodingISO8859_10},
	{"ISO_8859_11", lowlevel.EncodingISO8859_11},
	{"ISO_8859_12", lowlevel.EncodingISO8859_12},
	{"ISO_8859_13", lowlevel.EncodingISO8859_13},
	{"ISO_8859_14", lowlevel.EncodingISO8859_14},
	{"ISO_8859_15", lowlevel.EncodingISO8859_15},
	{"ISO_8859_16", lowlevel.EncodingISO8859_16},
	{"UTF8", lowlevel.EncodingUTF8},
	{"UTF16_BE", lowlevel.EncodingUTF16BE},
	{"UTF16_LE", lowlevel.EncodingUTF16LE},
	{"UTF32_BE", lowlevel.EncodingUTF32BE},
	{"UTF32_LE", lowlevel.EncodingUTF32LE},
	{"EUC_JP", lowlevel.EncodingEUCJP},
	{"EUC_TW", lowlevel.EncodingEUCTW},
	{"EUC_KR", lowlevel.EncodingEUCKR},
	{"EUC_CN", lowlevel.EncodingEUCCN},
	{"SJIS", lowlevel.EncodingSJIS},
	{"KOI8", lowlevel.EncodingKOI8},
	{"KOI8_R", lowlevel.EncodingKOI8R},
	{"CP1251", lowlevel.EncodingCP1251},
	{"BIG5", lowlevel.EncodingBig5},
	{"GB18030", lowlevel.EncodingGB18030},
	{"UNDEF", lowlevel.EncodingUndef},
}

// addConstants adds all option, syntax and encoding constants to the member dict.
func addConstants(members starlark.StringDict) {
	for _, c := range optionConstants {
		members[c.name] = starlark.MakeUint64(uint64(c.value))
	}
	for _, c := range syntaxConstants {
		members["SYNTAX_"+c.name] = starlark.MakeInt(c.code)
	}
	for _, c := range encodingConstants {
		members["ENCODING_"+c.name] = starlark.MakeInt(c.code)
	}

	major, minor, teeny := lowlevel.Version()
	members["VERSION"] = starlark.Tuple{
		starlark.MakeInt(major),
		starlark.MakeInt(minor),
		starlark.MakeInt(teeny),
	}
}

// constantName normalizes the name of a syntax or an encoding, so it can be compared with the constant names.
// For example, "perl-ng" becomes "PERL_NG".
func constantName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "-", "_")
	return strings.ToUpper(name)
}

// lookupSyntax returns the syntax code of a name, like "ruby" or "SYNTAX_RUBY".
func lookupSyntax(name string) (int, error) {
	n := strings.TrimPrefix(constantName(name), "SYNTAX_")

	for _, c := range syntaxConstants {
		if c.name == n {
			return c.code, nil
		}
	}

	return 0, fmt.Errorf("unknown syntax %q", name)
}

// lookupEncoding returns the encoding code of a name, like "utf8", "iso-8859-1" or "ENCODING_SJIS".
func lookupEncoding(name string) (int, error) {
	n := strings.TrimPrefix(constantName(name), "ENCODING_")

	for _, c := range encodingConstants {
		if c.name == n {
			return c.code, nil
		}
	}

	// accept the common spelling of the Unicode encodings
	switch n {
	case "UTF_8":
		return lowlevel.EncodingUTF8, nil
	case "UTF_16BE", "UTF_16_BE":
		return lowlevel.EncodingUTF16BE, nil
	case "UTF_16LE", "UTF_16_LE":
		return lowlevel.EncodingUTF16LE, nil
	case "UTF_32BE", "UTF_32_BE":
		return lowlevel.EncodingUTF32BE, nil
	case "UTF_32LE", "UTF_32_LE":
		return lowlevel.EncodingUTF32LE, nil
	}

	return 0, fmt.Errorf("unknown encoding %q", name)
}
