// Package cache implements the shared bounded LRU response cache
// (component E of SPEC_FULL.md).
//
// The original (original_source/cache.c) keeps entries on an intrusive,
// manually-patched circular doubly-linked list of raw pointers — exactly
// the design spec.md §9 (O1) flags as exposed to use-after-free bugs. This
// implementation instead holds entries in an arena (a slice of pointers
// indexed by integer slot) with a companion free list, so eviction is a
// slot free plus a map delete rather than pointer surgery, and nothing is
// ever reachable through a dangling pointer.
package cache

import (
	"sync"
	"sync/atomic"

	"github.com/WhileEndless/httpcacheproxy/internal/constants"
	"github.com/WhileEndless/httpcacheproxy/internal/metrics"
	"github.com/WhileEndless/httpcacheproxy/internal/proxyerr"
)

type key struct {
	host string
	path string
}

// entry is a single cache record. useIndex is a relaxed atomic: spec.md
// §4.4 intentionally leaves touch() unsynchronized against other touches so
// that concurrent readers never block each other, weakening recency to
// "approximate, eventually unique under single-writer quiescence". Using
// atomic.Int64 gets that exact tradeoff — no torn reads/writes, no
// serialization with other touches — without a data race.
type entry struct {
	host     string
	path     string
	data     []byte
	size     int
	useIndex atomic.Int64
}

// Cache is the bounded (host, path) -> bytes store described in spec.md §4.4.
// find() takes the shared (read) lock; insert() takes the exclusive (write)
// lock; touch() is deliberately lock-free (see entry.useIndex).
type Cache struct {
	mu        sync.RWMutex
	slots     []*entry
	free      []int
	byKey     map[key]int
	totalSize int
	pc        atomic.Int64
}

// New returns an empty, ready-to-use cache with the recency clock at 0.
func New() *Cache {
	return &Cache{
		byKey: make(map[key]int, 64),
	}
}

// Find looks up (host, path) and, on a hit, returns a copy of the cached
// bytes and touches its recency. The copy is made while still holding the
// shared lock, so the returned slice is valid indefinitely and carries none
// of the borrow-lifetime bookkeeping the original's raw-pointer find()
// required (spec.md §9, O4: the original has a code path that returns
// without releasing its read lock on a first-entry hit; a single deferred
// RUnlock here makes that structurally impossible).
func (c *Cache) Find(host, path string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx, ok := c.byKey[key{host, path}]
	if !ok {
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	e := c.slots[idx]
	out := make([]byte, len(e.data))
	copy(out, e.data)
	e.useIndex.Store(c.pc.Add(1))
	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return out, true
}

// Insert stores (host, path, data) in the cache, evicting least-recently-used
// entries as needed to keep total_size under MAX_CACHE_SIZE (invariant I1).
// A second insert for an existing key replaces it outright (spec.md §9, O3:
// duplicate inserts are deduplicated rather than accumulated).
//
// Insert returns a *proxyerr.Error (KindCache) if data is at or above
// MAX_OBJECT_SIZE; per spec.md §4.4 this is the caller's precondition to
// maintain, so violating it here is treated as a caller bug, not a runtime
// condition to recover from silently.
func (c *Cache) Insert(host, path string, data []byte) error {
	if len(data) >= constants.MaxObjectSize {
		return proxyerr.NewCacheError("insert", nil)
	}

	owned := make([]byte, len(data))
	copy(owned, data)

	c.mu.Lock()
	defer c.mu.Unlock()

	k := key{host, path}
	if idx, ok := c.byKey[k]; ok {
		c.removeLocked(k, idx)
	}

	for c.totalSize+len(owned) >= constants.MaxCacheSize && len(c.byKey) > 0 {
		c.evictLRULocked()
	}

	idx := c.allocSlotLocked()
	e := &entry{host: host, path: path, data: owned, size: len(owned)}
	e.useIndex.Store(c.pc.Add(1))
	c.slots[idx] = e
	c.byKey[k] = idx
	c.totalSize += e.size

	metrics.CacheBytes.Set(float64(c.totalSize))
	metrics.CacheEntries.Set(float64(len(c.byKey)))
	return nil
}

// evictLRULocked removes the resident entry with the smallest use_index.
// Selection is a linear scan, acceptable per spec.md §4.4: cardinality is
// bounded by MAX_CACHE_SIZE/min_entry_size, in practice O(10^2) entries.
// Ties break on the lowest slot index, which is deterministic per run.
func (c *Cache) evictLRULocked() {
	var victimIdx = -1
	var victimKey key
	var min int64
	for idx, e := range c.slots {
		if e == nil {
			continue
		}
		u := e.useIndex.Load()
		if victimIdx == -1 || u < min {
			victimIdx = idx
			victimKey = key{e.host, e.path}
			min = u
		}
	}
	if victimIdx == -1 {
		return
	}
	c.removeLocked(victimKey, victimIdx)
	metrics.CacheEvictionsTotal.Inc()
}

// removeLocked frees a slot and its key, adjusting total_size. Caller must
// hold c.mu for writing.
func (c *Cache) removeLocked(k key, idx int) {
	c.totalSize -= c.slots[idx].size
	c.slots[idx] = nil
	delete(c.byKey, k)
	c.free = append(c.free, idx)
}

// allocSlotLocked returns a free arena slot index, reusing a freed one when
// available instead of growing the arena unboundedly.
func (c *Cache) allocSlotLocked() int {
	if n := len(c.free); n > 0 {
		idx := c.free[n-1]
		c.free = c.free[:n-1]
		return idx
	}
	c.slots = append(c.slots, nil)
	return len(c.slots) - 1
}

// TotalSize returns the cache's current footprint. Exposed for tests; not
// part of spec.md's public contract.
func (c *Cache) TotalSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.totalSize
}

// Len returns the number of resident entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byKey)
}
