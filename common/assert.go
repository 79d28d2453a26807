// this code is adapted from https://github.com/ryogrid/SamehadaDB
// there is license and copyright notice in licenses/samehadaDB dir

package common

import (
	"runtime"

	"github.com/devlights/gomy/output"
)

// Assert panics with msg when cond is false. Reserved for internal
// programmer-error conditions (an INVALID flush target, a corrupted
// directory) rather than caller-facing failure modes, which are returned
// as explicit status values instead.
func Assert(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}

// DumpGoroutineStacks prints every goroutine's stack trace, prefixed with
// caller, to stdout. Called when the buffer pool observes an exhausted
// pool so an operator has something to look at besides a nil return.
//
// REFERENCES
//   - https://pkg.go.dev/runtime#Stack
func DumpGoroutineStacks(caller string) {
	buf := make([]byte, 1<<16)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			buf = buf[:n]
			break
		}
		buf = make([]byte, 2*len(buf))
	}
	output.Stdoutl(caller, string(buf))
}
