// this code is adapted from the testingutils.Ok/testingutils.Equals contract
// exercised by https://github.com/ryogrid/SamehadaDB's (and its ancestor
// https://github.com/brunocalza/go-bustub's) buffer_pool_manager_test.go
// and clock_replacer_test.go
// there is license and copyright notice in licenses/go-bustub dir

// Package testutil provides the small Ok/Equals assertion helpers this
// corpus's own buffer/replacer tests are written against.
package testutil

import (
	"reflect"
	"runtime"
	"testing"
)

// Ok fails the test with the caller's file/line if err is non-nil.
func Ok(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		_, file, line, _ := runtime.Caller(1)
		t.Fatalf("%s:%d: unexpected error: %s", file, line, err.Error())
	}
}

// Equals fails the test with the caller's file/line if exp and act are
// not deeply equal.
func Equals(t *testing.T, exp, act interface{}) {
	t.Helper()
	if !reflect.DeepEqual(exp, act) {
		_, file, line, _ := runtime.Caller(1)
		t.Fatalf("%s:%d:\n\n\texp: %#v\n\n\tgot: %#v\n\n", file, line, exp, act)
	}
}

// Assert fails the test with the caller's file/line if cond is false.
func Assert(t *testing.T, cond bool, msg string, args ...interface{}) {
	t.Helper()
	if !cond {
		_, file, line, _ := runtime.Caller(1)
		t.Fatalf("%s:%d: "+msg, append([]interface{}{file, line}, args...)...)
	}
}
