package excel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"rankboard/domain/table"
	"rankboard/ports"
)

// Cache memoizes loaded tables keyed by the full load request. Entries never
// expire; a changed workbook is only picked up after Invalidate or Purge.
// Cached tables are shared between callers and must be treated as read-only.
type Cache struct {
	mu      sync.RWMutex
	entries map[table.LoadRequest]*table.Table

	hits   atomic.Int64
	misses atomic.Int64
}

// CacheStats is a point-in-time view of cache usage
type CacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{entries: make(map[table.LoadRequest]*table.Table)}
}

// Get returns the cached table for req
func (c *Cache) Get(req table.LoadRequest) (*table.Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.entries[req]
	return t, ok
}

func (c *Cache) put(req table.LoadRequest, t *table.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[req] = t
}

// Invalidate drops the entry for req, if any
func (c *Cache) Invalidate(req table.LoadRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, req)
}

// Purge drops every entry and returns how many were removed
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[table.LoadRequest]*table.Table)
	return n
}

// Len returns the number of cached tables
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats reports entry count and hit/miss counters
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Entries: c.Len(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

// CachedLoader serves repeated requests from a Cache and collapses concurrent
// first loads of the same request into one read. Failed loads are not cached.
type CachedLoader struct {
	next   ports.TableLoader
	cache  *Cache
	group  singleflight.Group
	logger *slog.Logger
}

// NewCachedLoader wraps next with cache. The cache is owned by the caller.
func NewCachedLoader(next ports.TableLoader, cache *Cache, logger *slog.Logger) *CachedLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedLoader{
		next:   next,
		cache:  cache,
		logger: logger.With("component", "excel.cache"),
	}
}

// Cache exposes the underlying cache for invalidation
func (l *CachedLoader) Cache() *Cache {
	return l.cache
}

// Load returns the cached table for req, reading it through next on a miss.
// A shared read runs detached from any single caller's cancellation; each
// caller stops waiting when its own ctx is done.
func (l *CachedLoader) Load(ctx context.Context, req table.LoadRequest) (*table.Table, error) {
	if t, ok := l.cache.Get(req); ok {
		l.cache.hits.Add(1)
		l.logger.Debug("cache hit", "request", req.String())
		return t, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(flightKey(req), func() (interface{}, error) {
		if t, ok := l.cache.Get(req); ok {
			return t, nil
		}
		l.cache.misses.Add(1)
		t, err := l.next.Load(loadCtx, req)
		if err != nil {
			return nil, err
		}
		l.cache.put(req, t)
		return t, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		l.logger.Debug("cache fill", "request", req.String(), "shared", res.Shared)
		return res.Val.(*table.Table), nil
	}
}

func flightKey(req table.LoadRequest) string {
	return fmt.Sprintf("%q|%q|%q|%d|%d", req.Source, req.Sheet, req.Columns, req.HeaderRow, req.MaxRows)
}
