package dataset

import (
	"log"
	"sync"
)

// Cache memoizes loaded bundles keyed by directory path. It is the only
// cross-request state in the system: loads populate it, the explicit
// reload action invalidates it wholesale. Tables inside a bundle are
// immutable, so concurrent readers share them freely.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Bundle
}

// NewCache creates an empty dataset cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Bundle)}
}

// Get returns the memoized bundle for dir, loading it on first use.
func (c *Cache) Get(dir string) (*Bundle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if b, ok := c.entries[dir]; ok {
		return b, nil
	}

	b, err := Load(dir, nil)
	if err != nil {
		return nil, err
	}
	log.Printf("Datasets loaded from %s: plants=%d env=%v companies=%v",
		dir, len(b.Plants.Rows), b.HasEnv(), b.HasCompanies())
	c.entries[dir] = b
	return b, nil
}

// Reload invalidates the memo for dir and re-reads the files. Files whose
// content is unchanged keep their parsed tables; everything else is
// reparsed. A failed reload leaves the directory unmemoized so the next
// request observes the failure too.
func (c *Cache) Reload(dir string) (*Bundle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.entries[dir]
	delete(c.entries, dir)

	b, err := Load(dir, prev)
	if err != nil {
		return nil, err
	}
	log.Printf("Datasets reloaded from %s: plants=%d env=%v companies=%v",
		dir, len(b.Plants.Rows), b.HasEnv(), b.HasCompanies())
	c.entries[dir] = b
	return b, nil
}

// Invalidate drops the memo for dir without reloading.
func (c *Cache) Invalidate(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, dir)
}

// InvalidateAll drops every memoized bundle.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Bundle)
}
