package lowlevel

import (
	"sync"
	"testing"

	"github.com/magnetde/starlark-onig/regex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	SetWarningHook(nil)

	_, err := Compile(Bytes([]byte("a]")), regex.OptionNone, EncodingUnspecified, SyntaxRuby)
	require.NoError(t, err)

	entries := logs.FilterMessage("regexp warning").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "regular expression has ']' without escape: /a]/", entries[0].ContextMap()["message"])

	SetLogger(nil)
	assert.NotNil(t, Logger())
}

func TestLoggerConcurrent(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()

			if i%2 == 0 {
				SetLogger(zap.NewNop())
			}
			assert.NotNil(t, Logger())
		}()
	}

	wg.Wait()
}
