package modgraph

import (
	"sync"
	"time"

	"github.com/tocin-lang/tocin/internal/ast"
	"github.com/tocin-lang/tocin/internal/diagnostics"
)

// Module is one compiled-so-far unit: its parsed AST plus the sink that
// collected any lexer/parser/sema diagnostics for it.
type Module struct {
	Path string
	Mod  *ast.Module
	Sink *diagnostics.Sink
}

// cachedModule wraps a Module with cache bookkeeping, mirroring
// internal/program's CachedProgram.
type cachedModule struct {
	module   *Module
	cachedAt time.Time
}

// Cache memoizes parsed+analyzed modules keyed by absolute path, so a
// module imported from several compilation units is only lexed, parsed,
// and analyzed once. Generalizes internal/program's ProgramCache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*cachedModule
	maxAge  time.Duration
}

// NewCache creates an empty Cache. maxAge of 0 disables expiration.
func NewCache(maxAge time.Duration) *Cache {
	return &Cache{entries: make(map[string]*cachedModule), maxAge: maxAge}
}

// Get returns the cached Module for path, or nil if absent or expired.
func (c *Cache) Get(path string) *Module {
	key := CanonicalKey(path)
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil
	}
	if c.maxAge > 0 && time.Since(entry.cachedAt) > c.maxAge {
		return nil
	}
	return entry.module
}

// Set stores m under path's canonical key.
func (c *Cache) Set(path string, m *Module) {
	key := CanonicalKey(path)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &cachedModule{module: m, cachedAt: time.Now()}
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cachedModule)
}

// Size reports the number of cached modules.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CleanExpired drops entries older than maxAge. A no-op when maxAge is 0.
func (c *Cache) CleanExpired() {
	if c.maxAge == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, entry := range c.entries {
		if now.Sub(entry.cachedAt) > c.maxAge {
			delete(c.entries, k)
		}
	}
}
