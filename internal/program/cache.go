package program

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/tocin-lang/tocin/internal/compiler"
)

// SessionCache caches compiled CompilationSessions keyed by absolute
// source path, so a long-running driver (an LSP, a --watch loop) does
// not re-lex/parse/analyze/lower the same path again. Entries expire
// only by age (maxAge); a change to the file's contents is not
// detected.
type SessionCache struct {
	mu      sync.RWMutex
	entries map[string]*cachedSession
	maxAge  time.Duration
}

type cachedSession struct {
	session  *compiler.CompilationSession
	cachedAt time.Time
}

// NewSessionCache creates an empty cache. A maxAge of 0 means entries
// never expire on their own (CleanExpired then becomes a no-op).
func NewSessionCache(maxAge time.Duration) *SessionCache {
	return &SessionCache{
		entries: make(map[string]*cachedSession),
		maxAge:  maxAge,
	}
}

// Get returns the cached session for path, or nil if absent or expired.
func (c *SessionCache) Get(path string) *compiler.CompilationSession {
	c.mu.RLock()
	defer c.mu.RUnlock()

	key, err := filepath.Abs(path)
	if err != nil {
		return nil
	}
	entry, ok := c.entries[key]
	if !ok {
		return nil
	}
	if c.maxAge > 0 && time.Since(entry.cachedAt) > c.maxAge {
		return nil
	}
	return entry.session
}

// Set stores sess under path's absolute form.
func (c *SessionCache) Set(path string, sess *compiler.CompilationSession) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key, err := filepath.Abs(path)
	if err != nil {
		return
	}
	c.entries[key] = &cachedSession{session: sess, cachedAt: time.Now()}
}

// Clear empties the cache.
func (c *SessionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cachedSession)
}

// CleanExpired removes every entry older than maxAge. A zero maxAge
// disables expiration entirely, so CleanExpired is a no-op.
func (c *SessionCache) CleanExpired() {
	if c.maxAge == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.entries {
		if now.Sub(entry.cachedAt) > c.maxAge {
			delete(c.entries, key)
		}
	}
}

// Size returns the number of cached entries, expired or not.
func (c *SessionCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetOrCompile returns the cached session for path if one is present
// and unexpired; otherwise it compiles source with opts (path is only
// the file name and cache key; it is not read), caches the result, and
// returns it.
func (c *SessionCache) GetOrCompile(ctx context.Context, path string, source string, opts compiler.Options) (*compiler.CompilationSession, error) {
	if cached := c.Get(path); cached != nil {
		return cached, nil
	}

	sess := compiler.NewSession(path, source, opts)
	err := sess.Compile(ctx)
	c.Set(path, sess)
	return sess, err
}

// Global is the default process-wide cache, with a 5 minute expiration,
// mirroring the teacher's package-level GlobalCache.
var Global = NewSessionCache(5 * time.Minute)
