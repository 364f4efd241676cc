package onig

import (
	"container/list"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// cacheKey identifies a compiled pattern.
type cacheKey struct {
	pattern  string
	isString bool
	flags    int
	encoding int
	syntax   int
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%t:%d:%d:%d:%s", k.isString, k.flags, k.encoding, k.syntax, k.pattern)
}

// Is necessary, because each list element needs to store the key in the map.
type cacheValue struct {
	regexp *Regexp
	key    cacheKey
}

// regexpCache is a LRU cache of compiled patterns.
// The cache is implemented with a map and a linked list; when the cache exceeds its size, the least
// recently used element is purged. Concurrent misses of the same key compile the pattern only once.
type regexpCache struct {
	size int

	mu    sync.Mutex
	list  *list.List                 // least recently used patterns
	items map[cacheKey]*list.Element // mapping of keys to list elements

	group singleflight.Group
}

func newRegexpCache(size int) *regexpCache {
	c := regexpCache{
		size:  size,
		list:  list.New(),
		items: make(map[cacheKey]*list.Element),
	}

	return &c
}

// get returns the cached pattern of the key or compiles it with the given function.
// Errors are not cached.
func (c *regexpCache) get(key cacheKey, compile func() (*Regexp, error)) (*Regexp, error) {
	if c.size <= 0 {
		return compile()
	}

	if r := c.lookup(key); r != nil {
		return r, nil
	}

	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		if r := c.lookup(key); r != nil { // added while waiting
			return r, nil
		}

		r, err := compile()
		if err != nil {
			return nil, err
		}

		c.add(key, r)

		return r, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Regexp), nil
}

func (c *regexpCache) lookup(key cacheKey) *Regexp {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return nil
	}

	c.list.MoveToFront(e) // "refresh" the pattern in the linked list
	Logger().Debug("regexp cache hit", zap.Stringer("key", key))

	return e.Value.(*cacheValue).regexp
}

func (c *regexpCache) add(key cacheKey, r *Regexp) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; ok {
		return
	}

	Logger().Debug("regexp cache miss", zap.Stringer("key", key))

	for c.list.Len() >= c.size {
		last := c.list.Back() // determine the oldest element
		lastKey := last.Value.(*cacheValue).key

		delete(c.items, lastKey)
		c.list.Remove(last)

		Logger().Debug("regexp cache eviction", zap.Stringer("key", lastKey))
	}

	v := &cacheValue{
		regexp: r,
		key:    key,
	}

	c.items[key] = c.list.PushFront(v)
}

// len returns the number of cached patterns.
func (c *regexpCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.list.Len()
}

// purge clears the cache.
func (c *regexpCache) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.list.Init()
	clear(c.items)
}
