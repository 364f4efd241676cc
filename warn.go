package onig

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"go.starlark.net/starlark"
	"go.uber.org/zap"

	"github.com/magnetde/starlark-onig/lowlevel"
)

// warningSink collects the warnings of one compilation.
type warningSink struct {
	mu       sync.Mutex
	messages []string
}

func (s *warningSink) add(msg string) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
}

var (
	// Compilations are serialized, so the warnings of the engine can be assigned to the active compilation.
	compileMu  sync.Mutex
	activeSink atomic.Pointer[warningSink]

	hookOnce     sync.Once
	previousHook lowlevel.WarnFunc
)

// installWarningHook routes the warnings of the binding to the active compilation.
// Warnings outside of a module compilation go to the hook installed before the first compilation.
// The module owns the warning hook of the binding once it is installed: later calls of
// `lowlevel.SetWarningHook` replace it and disable the warnings of all modules.
func installWarningHook() {
	hookOnce.Do(func() {
		previousHook = lowlevel.WarningHook()
		lowlevel.SetWarningHook(collectWarning)
	})
}

func collectWarning(msg string) {
	if s := activeSink.Load(); s != nil {
		s.add(msg)
		return
	}

	previousHook(msg)
}

// collectWarnings calls fn and returns the warnings, that the engine produced meanwhile.
func collectWarnings[T any](fn func() (T, error)) (T, []string, error) {
	installWarningHook()

	compileMu.Lock()
	defer compileMu.Unlock()

	sink := &warningSink{}
	activeSink.Store(sink)
	defer activeSink.Store(nil)

	v, err := fn()

	sink.mu.Lock()
	defer sink.mu.Unlock()

	return v, sink.messages, err
}

// warn calls the warning function of the module with the message.
// Errors of the warning function are logged and discarded.
func (m *Module) warn(thread *starlark.Thread, msg string) {
	fn := m.warnFunc()
	if fn == starlark.None {
		return
	}

	if thread == nil {
		thread = &starlark.Thread{Name: "onig warning"}
	}

	_, err := starlark.Call(thread, fn, starlark.Tuple{starlark.String(msg)}, nil)
	if err != nil {
		Logger().Debug("warning function failed",
			zap.String("message", msg),
			zap.Error(err))
	}
}

func (m *Module) warnFunc() starlark.Value {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.warnFn
}

// setWarnFunc replaces the warning function. `None` discards all warnings.
func (m *Module) setWarnFunc(v starlark.Value) error {
	if _, ok := v.(starlark.Callable); !ok && v != starlark.None {
		return typeError("warn_func must be callable or None, got %s", v.Type())
	}

	m.mu.Lock()
	m.warnFn = v
	m.mu.Unlock()

	return nil
}

// defaultWarnFunc prints the warning, like the `print` builtin does.
func defaultWarnFunc(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var message string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "message", &message); err != nil {
		return nil, err
	}

	s := "RegexpWarning: " + message

	if thread.Print != nil {
		thread.Print(thread, s)
	} else {
		fmt.Fprintln(os.Stderr, s)
	}

	return starlark.None, nil
}
