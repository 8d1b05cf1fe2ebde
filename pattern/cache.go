package pattern

import (
	"regexp"
	"strings"
	"sync"
)

// DefaultCacheSize is the compiled-pattern cache capacity unless configured.
const DefaultCacheSize = 100

// regexCache is a bounded cache of compiled regexes keyed by pattern and
// flags. When full, the oldest-inserted entry is evicted first; recency of
// use is deliberately ignored. Safe for concurrent use.
type regexCache struct {
	mu       sync.Mutex
	capacity int
	compiled map[string]*regexp.Regexp
	order    []string
	hits     uint64
}

func newRegexCache(capacity int) *regexCache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &regexCache{
		capacity: capacity,
		compiled: make(map[string]*regexp.Regexp, capacity),
	}
}

// get returns the compiled regex for pattern and flags, compiling and caching
// on a miss. Invalid sources fail with a *CompileError.
func (c *regexCache) get(pattern, flags string) (*regexp.Regexp, error) {
	key := pattern + "::" + flags

	c.mu.Lock()
	defer c.mu.Unlock()

	if re, ok := c.compiled[key]; ok {
		c.hits++
		return re, nil
	}

	re, err := compileWithFlags(pattern, flags)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.compiled, oldest)
	}
	c.compiled[key] = re
	c.order = append(c.order, key)
	return re, nil
}

// hitCount returns the number of cache hits since creation or the last clear.
func (c *regexCache) hitCount() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}

// size returns the number of cached entries.
func (c *regexCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.compiled)
}

// clear drops all cached entries and resets the hit counter.
func (c *regexCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.compiled = make(map[string]*regexp.Regexp, c.capacity)
	c.order = c.order[:0]
	c.hits = 0
}

// compileWithFlags compiles a regex source with the given flag letters.
// "i", "m", and "s" map to their inline Go equivalents; other letters (such
// as a meaningless "g") are ignored since Go matching is global by default.
func compileWithFlags(pattern, flags string) (*regexp.Regexp, error) {
	var inline strings.Builder
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's':
			inline.WriteRune(f)
		}
	}
	if inline.Len() > 0 {
		pattern = "(?" + inline.String() + ")" + pattern
	}
	return regexp.Compile(pattern)
}
