package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tocin-lang/tocin/internal/diagnostics"
)

func TestCheckImportGraphAcceptsAcyclicImports(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.to"), []byte("import util\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util.to"), []byte("def noop():\n    return\n"), 0o644))

	sink := diagnostics.NewSink()
	err := CheckImportGraph(filepath.Join(dir, "main.to"), sink)
	require.NoError(t, err)
	require.False(t, sink.HasErrors())
}

func TestCheckImportGraphDetectsCycle(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.to"), []byte("import b\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.to"), []byte("import a\n"), 0o644))

	sink := diagnostics.NewSink()
	err := CheckImportGraph(filepath.Join(dir, "a.to"), sink)
	require.Error(t, err)
	require.True(t, sink.HasFatal())

	var sawCycle bool
	for _, r := range sink.Records() {
		if r.Code == "G001_IMPORT_CYCLE" {
			sawCycle = true
		}
	}
	require.True(t, sawCycle)
}

func TestCheckImportGraphReportsMissingModule(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.to"), []byte("import nope\n"), 0o644))

	sink := diagnostics.NewSink()
	err := CheckImportGraph(filepath.Join(dir, "main.to"), sink)
	require.NoError(t, err)
	require.True(t, sink.HasErrors())

	var sawMissing bool
	for _, r := range sink.Records() {
		if r.Code == "G002_MODULE_NOT_FOUND" {
			sawMissing = true
		}
	}
	require.True(t, sawMissing)
}

func TestCompileAllReportsPerFileReadErrors(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.to")
	require.NoError(t, os.WriteFile(good, []byte("def noop():\n    return\n"), 0o644))
	missing := filepath.Join(dir, "missing.to")

	sessions, err := CompileAll(context.Background(), []string{good, missing}, DefaultOptions())
	require.Error(t, err)
	require.Len(t, sessions, 2)
	require.NotNil(t, sessions[0])
	require.Nil(t, sessions[1])
}
