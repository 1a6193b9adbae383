package rab2html

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// StoredEntry is a rendered container together with the image paths it
// refers to, relative to the output base.
type StoredEntry struct {
	Container string   `json:"container"`
	Keep      []string `json:"keep"`
}

// Store is a second-level container cache shared between converters or
// across runs. Get reports ok=false on a miss.
type Store interface {
	Get(ctx context.Context, digest string) (entry StoredEntry, ok bool, err error)
	Put(ctx context.Context, digest string, entry StoredEntry) error
}

// renderCache maps (digest, output base) pairs to containers. Entries are
// never evicted. Renders of one pair in flight at the same time are shared.
// A lookup without an output base is served by the first container stored
// for the digest.
type renderCache struct {
	mu      sync.RWMutex
	entries map[string]string // cacheKey(digest, base) -> container
	first   map[string]string // digest -> first container stored
	group   singleflight.Group
}

func newRenderCache() *renderCache {
	return &renderCache{
		entries: make(map[string]string),
		first:   make(map[string]string),
	}
}

// cacheKey joins a digest and a cleaned output base. NUL never appears in
// either.
func cacheKey(digest, base string) string {
	return digest + "\x00" + base
}

func (c *renderCache) get(digest, base string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if base == "" {
		s, ok := c.first[digest]
		return s, ok
	}
	s, ok := c.entries[cacheKey(digest, base)]
	return s, ok
}

func (c *renderCache) put(digest, base, container string) {
	c.mu.Lock()
	c.entries[cacheKey(digest, base)] = container
	if _, ok := c.first[digest]; !ok {
		c.first[digest] = container
	}
	c.mu.Unlock()
}

func (c *renderCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// do returns the cached container for (digest, base), or runs fn once for
// all concurrent callers and caches its result on success.
func (c *renderCache) do(digest, base string, fn func() (string, error)) (string, error) {
	if s, ok := c.get(digest, base); ok {
		return s, nil
	}
	v, err, _ := c.group.Do(cacheKey(digest, base), func() (any, error) {
		if s, ok := c.get(digest, base); ok {
			return s, nil
		}
		s, err := fn()
		if err != nil {
			return "", err
		}
		c.put(digest, base, s)
		return s, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
