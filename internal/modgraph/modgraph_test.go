package modgraph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tocin-lang/tocin/internal/diagnostics"
)

func TestResolverFindsDirectFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util.to"), []byte("def noop():\n    return\n"), 0o644))

	r := NewResolver(dir)
	got, ok := r.Resolve([]string{"util"})
	require.True(t, ok)
	require.Equal(t, filepath.Join(dir, "util.to"), got)
}

func TestResolverFallsBackToModFile(t *testing.T) {
	dir := t.TempDir()
	pkgDir := filepath.Join(dir, "collections")
	require.NoError(t, os.MkdirAll(pkgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "mod.to"), []byte("class Stack:\n    items: int\n"), 0o644))

	r := NewResolver(dir)
	got, ok := r.Resolve([]string{"collections"})
	require.True(t, ok)
	require.Equal(t, filepath.Join(pkgDir, "mod.to"), got)
}

func TestResolverMissingModuleFails(t *testing.T) {
	r := NewResolver(t.TempDir())
	_, ok := r.Resolve([]string{"nope"})
	require.False(t, ok)
}

func TestResolverSearchesTocinModulePathRoots(t *testing.T) {
	extra := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(extra, "shared.to"), []byte("def id():\n    return\n"), 0o644))
	t.Setenv("TOCIN_MODULE_PATH", extra)

	r := NewResolver(t.TempDir())
	got, ok := r.Resolve([]string{"shared"})
	require.True(t, ok)
	require.Equal(t, filepath.Join(extra, "shared.to"), got)
}

func TestCacheRoundTrips(t *testing.T) {
	c := NewCache(0)
	require.Nil(t, c.Get("a.to"))
	c.Set("a.to", &Module{Path: "a.to"})
	require.NotNil(t, c.Get("a.to"))
	require.Equal(t, 1, c.Size())
	c.Clear()
	require.Equal(t, 0, c.Size())
}

func TestGraphWalksAcyclicImports(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.to"), []byte("import b\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.to"), []byte("def noop():\n    return\n"), 0o644))

	sink := diagnostics.NewSink()
	r := NewResolver(dir)
	load := func(path string) ([][]string, error) {
		if filepath.Base(path) == "a.to" {
			return [][]string{{"b"}}, nil
		}
		return nil, nil
	}
	g := NewGraph(r, sink, load)
	err := g.Walk(filepath.Join(dir, "a.to"))
	require.NoError(t, err)
	require.False(t, sink.HasErrors())
}

func TestGraphDetectsCycle(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.to"), []byte("import b\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.to"), []byte("import a\n"), 0o644))

	sink := diagnostics.NewSink()
	r := NewResolver(dir)
	load := func(path string) ([][]string, error) {
		switch filepath.Base(path) {
		case "a.to":
			return [][]string{{"b"}}, nil
		case "b.to":
			return [][]string{{"a"}}, nil
		}
		return nil, nil
	}
	g := NewGraph(r, sink, load)
	err := g.Walk(filepath.Join(dir, "a.to"))
	require.Error(t, err)
	require.True(t, sink.HasFatal())
	require.Contains(t, codesOf(sink), "G001_IMPORT_CYCLE")
}

func codesOf(sink *diagnostics.Sink) []string {
	recs := sink.Records()
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Code
	}
	return out
}
