package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/segpool/internal/logger"
)

// runCLI executes a fresh command tree with args and captures its output.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	origOut, origErr := out, errOut
	var outBuf, errBuf bytes.Buffer
	out, errOut = &outBuf, &errBuf
	t.Cleanup(func() {
		out, errOut = origOut, origErr
		logger.Init(logger.Options{})
	})

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

// decodeJSON unmarshals output into a value of type T.
func decodeJSON[T any](t *testing.T, output string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(output), &v), "output: %s", output)
	return v
}
