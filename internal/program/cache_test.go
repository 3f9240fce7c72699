package program

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tocin-lang/tocin/internal/compiler"
)

const sampleSource = "def add(a: int, b: int) -> int:\n    return a + b\n"

func TestSessionCacheGetOrCompileCachesResult(t *testing.T) {
	cache := NewSessionCache(5 * time.Minute)
	require.Nil(t, cache.Get("add.to"))

	sess, err := cache.GetOrCompile(context.Background(), "add.to", sampleSource, compiler.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, sess)
	require.Equal(t, 1, cache.Size())

	cached := cache.Get("add.to")
	require.Same(t, sess, cached)
}

func TestSessionCacheExpires(t *testing.T) {
	cache := NewSessionCache(50 * time.Millisecond)
	_, err := cache.GetOrCompile(context.Background(), "add.to", sampleSource, compiler.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, cache.Get("add.to"))

	time.Sleep(100 * time.Millisecond)
	require.Nil(t, cache.Get("add.to"))
}

func TestSessionCacheClear(t *testing.T) {
	cache := NewSessionCache(5 * time.Minute)
	_, err := cache.GetOrCompile(context.Background(), "add.to", sampleSource, compiler.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 1, cache.Size())

	cache.Clear()
	require.Equal(t, 0, cache.Size())
	require.Nil(t, cache.Get("add.to"))
}

func TestSessionCacheCleanExpired(t *testing.T) {
	cache := NewSessionCache(50 * time.Millisecond)
	_, err := cache.GetOrCompile(context.Background(), "add.to", sampleSource, compiler.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 1, cache.Size())

	time.Sleep(100 * time.Millisecond)
	cache.CleanExpired()
	require.Equal(t, 0, cache.Size())
}
