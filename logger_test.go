package onig

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/magnetde/starlark-onig/lowlevel"
)

func TestSetLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	core, _ := observer.New(zap.DebugLevel)
	l := zap.New(core)

	SetLogger(l)
	assert.Same(t, l, Logger())
	assert.Same(t, l, lowlevel.Logger())

	SetLogger(nil)
	assert.NotNil(t, Logger())
	assert.NotSame(t, l, lowlevel.Logger())
}

func TestWithLoggerConcurrent(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	core, logs := observer.New(zap.DebugLevel)
	l := zap.New(core)

	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			m, err := NewModule(WithLogger(l))
			if assert.NoError(t, err) {
				assert.NotNil(t, m)
			}
			Logger().Debug("module in use")
		}()
	}

	wg.Wait()

	assert.Len(t, logs.FilterMessage("module in use").All(), 8)
}
