//go:build !release

// Package assert holds development-time checks for conditions that can only fail because of a bug
// in this module. Release builds (-tags release) compile the checks away.
package assert

import "fmt"

// That panics with the formatted message when cond is false.
func That(cond bool, format string, args ...any) { //nolint:goprintffuncname // it's ok
	if !cond {
		panic(fmt.Sprintf("assertion failed: "+format, args...))
	}
}
