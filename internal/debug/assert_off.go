//go:build !ggdebug

// Package debug provides assertions for internal invariants.
//
// Assertions are compiled in only under the "ggdebug" build tag. In regular
// builds they are no-ops and violations are undefined behavior; the checks
// exist to catch caller programming errors during development, not to
// recover at runtime.
package debug

// Enabled reports whether assertions are compiled into this build.
const Enabled = false

// Assert does nothing in regular builds.
func Assert(bool, string, ...any) {}
