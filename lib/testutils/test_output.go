package testutils

import (
	"io"
	"testing"
)

type testOutput struct {
	t testing.TB
}

func (to testOutput) Write(p []byte) (n int, err error) {
	to.t.Logf("%s", p)

	return len(p), nil
}

// NewTestOutput returns a simple io.Writer implementation that uses the
// test's logger as an output.
func NewTestOutput(t testing.TB) io.Writer {
	t.Helper()
	return testOutput{t}
}
