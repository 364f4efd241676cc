package onig

import (
	_ "embed"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

//go:embed testdata/onig_test.star
var onigScript string

// TestOnig runs the Starlark tests of the module.
// Tests must be defined within the `testdata/onig_test.star` file and are interpreted here.
func TestOnig(t *testing.T) {
	m, err := NewModule()
	require.NoError(t, err)

	predeclared := starlark.StringDict{
		"onig": m,
	}

	helpers := map[string]func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error){
		"same":           sameHelper,
		"measure":        measureHelper,
		"eval":           evalHelper,
		"trycatch":       tryCatchHelper,
		"capture_output": captureOutput,
	}

	for name, fn := range helpers {
		predeclared[name] = starlark.NewBuiltin(name, fn)
	}

	_, prog, err := starlark.SourceProgramOptions(fileOptions(), "onig_test.star", onigScript, predeclared.Has)
	require.NoError(t, err)

	thread := &starlark.Thread{
		Name: "test onig",
		Print: func(thread *starlark.Thread, msg string) {
			fmt.Println(msg)
		},
	}

	_, err = prog.Init(thread, predeclared)
	if err != nil {
		if e, ok := err.(*starlark.EvalError); ok {
			t.Fatal(e.Backtrace())
		}

		t.Fatal(err)
	}
}

func fileOptions() *syntax.FileOptions {
	return &syntax.FileOptions{
		Set:             true,
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
		Recursion:       true,
	}
}

// sameHelper tests, whether two Starlark values are identical.
func sameHelper(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x, y starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &x, &y); err != nil {
		return nil, err
	}

	return starlark.Bool(x == y), nil
}

// measureHelper measures the duration of a call to a Starlark function in seconds.
func measureHelper(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var fn starlark.Callable
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "fn", &fn); err != nil {
		return nil, err
	}

	start := time.Now()
	if _, err := starlark.Call(thread, fn, nil, nil); err != nil {
		return nil, err
	}

	return starlark.Float(time.Since(start).Seconds()), nil
}

// evalHelper evaluates an expression with the given variables.
func evalHelper(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		code string
		vars *starlark.Dict
	)
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &code, &vars); err != nil {
		return nil, err
	}

	env := starlark.StringDict{}

	if vars != nil {
		for _, item := range vars.Items() {
			if s, ok := item[0].(starlark.String); ok {
				env[string(s)] = item[1]
			} else {
				env[item[0].String()] = item[1]
			}
		}
	}

	return starlark.EvalOptions(fileOptions(), thread, "eval", code, env)
}

// tryCatchHelper calls a function and returns the tuple `(result, error)`.
// If the call failed, the result is `None` and the error is the error message.
func tryCatchHelper(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("%s: got %d arguments, want at least 1", b.Name(), len(args))
	}

	fn, ok := args[0].(starlark.Callable)
	if !ok {
		return nil, fmt.Errorf("got %s, want callable", args[0].Type())
	}

	res, err := starlark.Call(thread, fn, args[1:], kwargs)
	if err != nil {
		msg := err.Error()
		if e, ok := err.(*starlark.EvalError); ok {
			msg = e.Msg
		}

		return starlark.Tuple{starlark.None, starlark.String(msg)}, nil
	}

	return starlark.Tuple{res, starlark.None}, nil
}

// captureOutput calls a function and returns everything it printed.
func captureOutput(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var fn starlark.Callable
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "fn", &fn); err != nil {
		return nil, err
	}

	oldPrint := thread.Print

	var output strings.Builder
	thread.Print = func(thread *starlark.Thread, msg string) {
		output.WriteString(msg)
		output.WriteByte('\n')
	}

	_, err := starlark.Call(thread, fn, nil, nil)
	thread.Print = oldPrint

	if err != nil {
		return nil, err
	}

	return starlark.String(output.String()), nil
}
