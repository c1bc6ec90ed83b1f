// Package lock implements the per-aggregate keyed mutual exclusion chosen
// for §5's "at-most-one concurrent append per aggregate" contract (DESIGN.md
// Open Question: keyed lock map over actor-per-aggregate or pure optimistic
// CAS). It repurposes the teacher's transitive golang-lru dependency: instead
// of caching values, the LRU holds the per-aggregate mutexes that are
// currently held or awaited, and an entry is removed as soon as no caller
// holds or awaits it, so a coordinator with a long tail of rarely-touched
// aggregates does not grow this table unboundedly.
package lock

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// entry is one keyed mutex plus a reference count so the table never evicts
// (or frees) a lock while a caller is still holding or waiting on it.
type entry struct {
	mu       sync.Mutex
	refCount int
}

// Table is a bounded table of per-key mutexes whose entries are removed once
// idle. The zero value
// is not usable; construct with New.
type Table struct {
	mu      sync.Mutex // protects the LRU structure itself, not the per-key mutexes
	entries *lru.Cache[string, *entry]
}

// New constructs a Table whose LRU holds at most maxEntries keyed locks. Keys
// currently held (refCount > 0) are never evicted regardless of maxEntries.
func New(maxEntries int) *Table {
	if maxEntries <= 0 {
		maxEntries = 4096
	}
	cache, _ := lru.NewWithEvict[string, *entry](maxEntries, nil)
	return &Table{entries: cache}
}

// Acquire blocks until the exclusive lock for key is held, or ctx is
// cancelled first. The returned release function must be called exactly
// once to unlock.
func (t *Table) Acquire(ctx context.Context, key string) (release func(), err error) {
	e := t.take(key)

	acquired := make(chan struct{})
	go func() {
		e.mu.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
		return func() {
			e.mu.Unlock()
			t.release(key)
		}, nil
	case <-ctx.Done():
		// The goroutine above will still acquire the mutex eventually, and
		// nothing else would ever unlock it; so we let it finish acquiring
		// then immediately release, since no caller owns the lock after
		// this point.
		go func() {
			<-acquired
			e.mu.Unlock()
			t.release(key)
		}()
		return nil, ctx.Err()
	}
}

// take returns key's entry, creating it and bumping its reference count
// under the table lock so the entry cannot be evicted mid-use.
func (t *Table) take(key string) *entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries.Get(key); ok {
		e.refCount++
		return e
	}
	e := &entry{refCount: 1}
	t.entries.Add(key, e)
	return e
}

// release decrements key's reference count and removes the entry from the
// table once no caller holds or awaits it.
func (t *Table) release(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries.Get(key); ok {
		e.refCount--
		if e.refCount <= 0 {
			t.entries.Remove(key)
		}
	}
}

// Len reports the number of keyed locks currently resident in the table
// (each held or awaited by some caller), for internal/metrics.LockTableSize.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.entries.Len()
}
