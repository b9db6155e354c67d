package engine

import (
	"os"
	"strconv"
)

// CacheState is the inline-cache state machine for one property-access
// call site: it starts uninitialized, becomes monomorphic once its
// first shape is recorded, widens to polymorphic as more shapes are observed (up to
// maxPolyEntries), and degrades to megamorphic beyond that, at which
// point the cache stops being useful and lookups fall back to walking
// the shape chain directly.
type CacheState uint8

const (
	CacheUninitialized CacheState = iota
	CacheMonomorphic
	CachePolymorphic
	CacheMegamorphic
)

type cacheEntry struct {
	shape  *Shape
	offset int
	isAccessor bool
}

// maxPolyEntries is the number of distinct shapes a call site tracks
// before giving up and going megamorphic. Tunable via
// ENGINE_MAX_POLY_ENTRIES for experimentation, defaulting to 4.
var maxPolyEntries = getEnvInt("ENGINE_MAX_POLY_ENTRIES", 4)

// PropertyCache memoizes (shape -> offset) for a single property-access
// call site (e.g. one `obj.x` expression location).
type PropertyCache struct {
	state   CacheState
	entries []cacheEntry
	hits    int
	misses  int
}

// Lookup returns the cached offset for shape, if any.
func (c *PropertyCache) Lookup(shape *Shape) (int, bool, bool) {
	for _, e := range c.entries {
		if e.shape == shape {
			c.hits++
			return e.offset, e.isAccessor, true
		}
	}
	c.misses++
	return 0, false, false
}

// Update records a new (shape, offset) observation, transitioning the
// cache's state per the monomorphic/polymorphic/megamorphic contract.
func (c *PropertyCache) Update(shape *Shape, offset int, isAccessor bool) {
	if c.state == CacheMegamorphic {
		return
	}
	for _, e := range c.entries {
		if e.shape == shape {
			return
		}
	}
	if len(c.entries) >= maxPolyEntries {
		c.state = CacheMegamorphic
		c.entries = nil
		return
	}
	c.entries = append(c.entries, cacheEntry{shape: shape, offset: offset, isAccessor: isAccessor})
	switch len(c.entries) {
	case 1:
		c.state = CacheMonomorphic
	default:
		c.state = CachePolymorphic
	}
}

func (c *PropertyCache) State() CacheState { return c.state }
func (c *PropertyCache) Stats() (hits, misses int) { return c.hits, c.misses }

// CachedGet performs a cached property read: on a cache hit it reads the
// slot directly by offset (skipping the shape-chain walk); on a miss it
// falls back to the full lookup and updates the cache for next time.
func CachedGet(o *Object, name string, cache *PropertyCache, call Caller) (Value, bool) {
	if offset, isAccessor, ok := cache.Lookup(o.shape); ok {
		if offset >= len(o.slots) {
			// Shape mutated out from under a stale entry; fall through.
		} else if isAccessor {
			acc := o.accessors[offset]
			if acc == nil || acc.Get.IsUndefined() {
				return Undefined, true
			}
			v, _ := call(acc.Get, ObjectValue(o), nil)
			return v, true
		} else {
			return o.slots[offset], true
		}
	}
	field, ok := o.shape.Find(name, Value{}, KeyString)
	if !ok {
		return Undefined, false
	}
	cache.Update(o.shape, field.Offset, field.IsAccessor)
	return o.GetOwnProperty(name, ObjectValue(o), call)
}

func getEnvBool(name string, def bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// DetailedCacheStats holds the ENGINE_DETAILED_CACHE_STATS flag. No code
// in this package reads it and no per-site logging exists; per-site
// hit/miss counts are available through PropertyCache.Stats.
var DetailedCacheStats = getEnvBool("ENGINE_DETAILED_CACHE_STATS", false)

// PrototypeCacheEntry caches an inherited property lookup: the depth
// walked up the prototype chain and the resolved shape/offset, so a
// repeated access to an inherited method skips re-walking the chain.
type PrototypeCacheEntry struct {
	receiverShape *Shape
	depth         int
	offset        int
	isAccessor    bool
}

// PrototypeCache is keyed per call site, same as PropertyCache, but
// records chain depth in addition to the resolving shape.
type PrototypeCache struct {
	entries []PrototypeCacheEntry
}

func (c *PrototypeCache) Lookup(shape *Shape) (PrototypeCacheEntry, bool) {
	for _, e := range c.entries {
		if e.receiverShape == shape {
			return e, true
		}
	}
	return PrototypeCacheEntry{}, false
}

func (c *PrototypeCache) Update(e PrototypeCacheEntry) {
	if len(c.entries) >= maxPolyEntries {
		c.entries = c.entries[1:]
	}
	c.entries = append(c.entries, e)
}
