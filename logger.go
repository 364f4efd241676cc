package onig

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/magnetde/starlark-onig/lowlevel"
)

var logger atomic.Pointer[zap.Logger]

// Logger returns the logger of the module.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}

	logger.CompareAndSwap(nil, zap.NewNop())
	return logger.Load()
}

// SetLogger configures the logger of the module and of the binding.
// A nil logger restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
	lowlevel.SetLogger(l)
}
