package lowlevel

import "github.com/magnetde/starlark-onig/regex"

// Version returns the version of the matching engine.
func Version() (major, minor, teeny int) {
	return regex.Version()
}
