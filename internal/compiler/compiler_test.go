package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompileSessionSucceeds(t *testing.T) {
	sess := NewSession("add.to", "def add(a: int, b: int) -> int:\n    return a + b\n", DefaultOptions())
	err := sess.Compile(context.Background())
	require.NoError(t, err)
	require.False(t, sess.Sink.HasErrors())
	require.NotNil(t, sess.IR)
	require.Contains(t, sess.IR.String(), "define i64 @add")
}

func TestCompileSessionReportsParseErrors(t *testing.T) {
	sess := NewSession("broken.to", "def (((\n", DefaultOptions())
	err := sess.Compile(context.Background())
	require.Error(t, err)
	require.True(t, sess.Sink.HasErrors())
}

func TestCompileSessionHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sess := NewSession("add.to", "def add(a: int, b: int) -> int:\n    return a + b\n", DefaultOptions())
	err := sess.Compile(ctx)
	require.Error(t, err)
	require.Nil(t, sess.Module)
}

func TestCompileAllPreservesOrderAndIsolation(t *testing.T) {
	dir := t.TempDir()
	paths := make([]string, 3)
	sources := []string{
		"def one() -> int:\n    return 1\n",
		"def two() -> int:\n    return 2\n",
		"def three() -> int:\n    return 3\n",
	}
	for i, src := range sources {
		p := filepath.Join(dir, "m"+string(rune('0'+i))+".to")
		require.NoError(t, os.WriteFile(p, []byte(src), 0o644))
		paths[i] = p
	}

	opts := DefaultOptions()
	opts.Concurrency = 3
	sessions, err := CompileAll(context.Background(), paths, opts)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	for i, sess := range sessions {
		require.NotNil(t, sess)
		require.Equal(t, paths[i], sess.File)
		require.False(t, sess.Sink.HasErrors())
		require.NotSame(t, sessions[0].Sink, sess.Sink)
	}
}

func TestInitFFIRunsOnce(t *testing.T) {
	calls := 0
	InitFFI(func() { calls++ })
	InitFFI(func() { calls++ })
	require.Equal(t, 1, calls)
}
