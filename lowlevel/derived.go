package lowlevel

import (
	"fmt"
	"sync"

	"github.com/magnetde/starlark-onig/regex"
	"go.uber.org/zap"
)

// derivedBase is the syntax the derived syntax is copied from.
var derivedBase = regex.SyntaxRuby

// derivedClearedBehavior are the behavior bits of the base syntax, that are cleared
// in the derived syntax: named and plain groups both capture, a name may be used only once
// and unescaped operators in classes or nested repeats do not warn.
const derivedClearedBehavior = regex.SynCaptureOnlyNamedGroup |
	regex.SynAllowMultiplexDefinitionName |
	regex.SynWarnCCOpNotEscaped |
	regex.SynWarnRedundantNestedRepeat

var (
	initOnce sync.Once
	initErr  error

	derivedSyntax *regex.Syntax
)

// Init initializes the binding: it builds the derived syntax and installs the warning bridge
// into the engine. It may be called multiple times; only the first call has an effect.
// `Compile` and `Invoke` call it implicitly.
func Init() error {
	initOnce.Do(func() {
		syn, err := buildDerivedSyntax()
		if err != nil {
			initErr = fmt.Errorf("initializing derived syntax: %w", err)
			return
		}

		derivedSyntax = syn

		regex.SetWarnFunc(onWarning)
		regex.SetVerbWarnFunc(onWarning)

		Logger().Debug("derived syntax initialized",
			zap.Stringer("base", derivedBase),
			zap.Uint32("behavior", syn.Behavior()),
			zap.Uint32("options", uint32(syn.Options())))
	})

	return initErr
}

// buildDerivedSyntax copies the base syntax, clears the behavior bits and
// negates the singleline option.
func buildDerivedSyntax() (*regex.Syntax, error) {
	syn, err := regex.NewSyntax("PYTHON", derivedBase)
	if err != nil {
		return nil, err
	}

	syn.SetBehavior(syn.Behavior() &^ derivedClearedBehavior)
	syn.SetOptions(regex.OptionNegateSingleline)

	return syn, nil
}

// DerivedSyntax returns the syntax used for the code `SyntaxPython` and for all unknown codes.
// It panics, if the binding could not be initialized.
func DerivedSyntax() *regex.Syntax {
	if err := Init(); err != nil {
		panic(err)
	}

	return derivedSyntax
}
