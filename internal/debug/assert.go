//go:build ggdebug

// Package debug provides assertions for internal invariants.
//
// Assertions are compiled in only under the "ggdebug" build tag. In regular
// builds they are no-ops and violations are undefined behavior; the checks
// exist to catch caller programming errors during development, not to
// recover at runtime.
package debug

import "fmt"

// Enabled reports whether assertions are compiled into this build.
const Enabled = true

// Assert panics with a formatted message if cond is false.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("upload: assertion failed: "+format, args...))
	}
}
