package assets

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/Faultbox/wordsring/internal/engine/shell"
	"github.com/Faultbox/wordsring/internal/ring"
)

// CacheStats reports shell cache activity. A miss is counted only by
// Lookup; a Get that has to load shows up in Loads instead, so the usual
// Lookup-then-Get sequence counts one miss.
type CacheStats struct {
	Hits   int
	Misses int
	// Loads counts completed loader calls, successful or not.
	Loads int
}

// ShellCache holds every shell loaded this session. Entries are never
// evicted or replaced. Failed loads are not cached.
type ShellCache struct {
	loader ShellLoader
	group  singleflight.Group

	mu     sync.Mutex
	shells map[ring.ShellKey]*shell.Shell
	stats  CacheStats
}

// NewShellCache creates an empty cache over loader.
func NewShellCache(loader ShellLoader) *ShellCache {
	return &ShellCache{
		loader: loader,
		shells: make(map[ring.ShellKey]*shell.Shell),
	}
}

// Lookup returns the cached shell without doing any I/O.
func (c *ShellCache) Lookup(key ring.ShellKey) (*shell.Shell, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.shells[key]
	if ok {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	return s, ok
}

// Get returns the shell for key, loading and caching it on a miss.
// Concurrent callers for the same key share one load.
func (c *ShellCache) Get(ctx context.Context, key ring.ShellKey) (*shell.Shell, error) {
	c.mu.Lock()
	if s, ok := c.shells[key]; ok {
		c.stats.Hits++
		c.mu.Unlock()
		return s, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		// A load that finished before Do has already stored it.
		if s, ok := c.peek(key); ok {
			return s, nil
		}
		s, err := c.loader.LoadRingShell(ctx, key)
		c.mu.Lock()
		defer c.mu.Unlock()
		c.stats.Loads++
		if err != nil {
			return nil, err
		}
		if prev, ok := c.shells[key]; ok {
			return prev, nil
		}
		c.shells[key] = s
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*shell.Shell), nil
}

// Contains reports whether key is cached without touching the stats.
func (c *ShellCache) Contains(key ring.ShellKey) bool {
	_, ok := c.peek(key)
	return ok
}

// Len returns the number of cached shells.
func (c *ShellCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.shells)
}

// Stats returns a snapshot of the cache statistics.
func (c *ShellCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *ShellCache) peek(key ring.ShellKey) (*shell.Shell, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.shells[key]
	return s, ok
}
