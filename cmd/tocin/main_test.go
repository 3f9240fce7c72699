package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunCompilesValidFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "add.to")
	require.NoError(t, os.WriteFile(src, []byte("def add(a: int, b: int) -> int:\n    return a + b\n"), 0o644))

	code := run([]string{src})
	require.Equal(t, 0, code)

	out := filepath.Join(dir, "add.ll")
	contents, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(contents), "define i64 @add")
}

func TestRunReportsParseErrors(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.to")
	require.NoError(t, os.WriteFile(src, []byte("def (((\n"), 0o644))

	code := run([]string{src})
	require.Equal(t, 1, code)
}

func TestRunRejectsMissingFile(t *testing.T) {
	code := run([]string{"no-such-file.to"})
	require.Equal(t, 1, code)
}

func TestRunRequiresFileOrREPL(t *testing.T) {
	code := run([]string{})
	require.Equal(t, 1, code)
}
