package lowlevel

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// WarnFunc receives the warnings of the engine.
type WarnFunc func(message string)

var warningHook atomic.Pointer[WarnFunc]

// SetWarningHook replaces the receiver of the engine warnings.
// A nil hook restores the default hook, which logs the warnings.
// The onig module installs its own hook when it compiles its first pattern. Install a custom
// hook before that, so the module forwards the warnings outside of its compilations to it.
func SetWarningHook(f WarnFunc) {
	if f == nil {
		warningHook.Store(nil)
		return
	}

	warningHook.Store(&f)
}

// WarningHook returns the current receiver of the engine warnings.
func WarningHook() WarnFunc {
	if f := warningHook.Load(); f != nil {
		return *f
	}

	return defaultWarningHook
}

func defaultWarningHook(message string) {
	Logger().Warn("regexp warning", zap.String("message", message))
}

// onWarning forwards a warning of the engine to the hook.
// Panics of the hook are recovered and discarded.
func onWarning(message string) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Debug("warning hook panicked",
				zap.String("message", message),
				zap.Any("panic", r))
		}
	}()

	WarningHook()(message)
}
