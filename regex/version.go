package regex

import (
	"runtime/debug"
	"strings"
	"sync"

	"github.com/coreos/go-semver/semver"
)

const (
	enginePath = "github.com/dlclark/regexp2"

	// engineFallbackVersion is the version required by go.mod.
	engineFallbackVersion = "1.10.0"
)

var engineVersion = sync.OnceValue(func() *semver.Version {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range info.Deps {
			if dep.Path != enginePath {
				continue
			}
			if dep.Replace != nil {
				dep = dep.Replace
			}

			if v, err := semver.NewVersion(strings.TrimPrefix(dep.Version, "v")); err == nil {
				return v
			}
		}
	}

	return semver.New(engineFallbackVersion)
})

// Version returns the version of the matching engine.
func Version() (major, minor, teeny int) {
	v := engineVersion()
	return int(v.Major), int(v.Minor), int(v.Patch)
}
