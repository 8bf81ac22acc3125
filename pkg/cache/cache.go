package cache

import (
	"sync"

	"github.com/pkg/errors"
)

var ErrKeyExists = errors.New("key already exists in cache")

// Cache is a weight-budgeted LRU. Every entry carries a caller-supplied
// weight and the cache evicts least recently used entries whenever the
// total weight exceeds the budget. Safe for concurrent use.
type Cache[V any] interface {
	// Weight returns the combined weight of all cached entries.
	Weight() int

	// Budget returns the weight ceiling eviction enforces.
	Budget() int

	// Insert adds an entry. Inserting an existing key fails with
	// ErrKeyExists; entries are replaced by eviction, never in place.
	Insert(key string, value V, weight int) error

	// Retrieve returns the entry for key and marks it most recently
	// used.
	Retrieve(key string) (V, bool)

	// Clear drops every entry.
	Clear()
}

// node is one entry in the recency list, most recently used at the head.
type node[V any] struct {
	next   *node[V]
	prev   *node[V]
	key    string
	value  V
	weight int
}

type cache[V any] struct {
	mu     sync.Mutex
	head   *node[V]
	tail   *node[V]
	lookup map[string]*node[V]
	weight int
	budget int
}

// NewCache returns an empty cache enforcing the given weight budget.
func NewCache[V any](budget int) Cache[V] {
	return &cache[V]{
		lookup: make(map[string]*node[V]),
		budget: budget,
	}
}

func (c *cache[V]) Weight() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.weight
}

func (c *cache[V]) Budget() int {
	return c.budget
}

func (c *cache[V]) Insert(key string, value V, weight int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.lookup[key]; ok {
		return ErrKeyExists
	}

	entry := &node[V]{
		key:    key,
		value:  value,
		weight: weight,
		next:   c.head,
	}
	if c.head != nil {
		c.head.prev = entry
	}
	c.head = entry
	if c.tail == nil {
		c.tail = entry
	}

	c.lookup[key] = entry
	c.weight += weight

	// Evict from the tail until the budget holds again. An oversized
	// entry can empty the cache, including itself.
	for c.weight > c.budget && c.tail != nil {
		evicted := c.tail
		if evicted.prev != nil {
			evicted.prev.next = nil
		} else {
			c.head = nil
		}
		c.tail = evicted.prev

		c.weight -= evicted.weight
		delete(c.lookup, evicted.key)
	}

	return nil
}

func (c *cache[V]) Retrieve(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.lookup[key]
	if !ok {
		var zero V
		return zero, false
	}

	if entry != c.head {
		if entry.next != nil {
			entry.next.prev = entry.prev
		}
		if entry.prev != nil {
			entry.prev.next = entry.next
		}
		if entry == c.tail {
			c.tail = entry.prev
		}

		entry.next = c.head
		entry.prev = nil
		if c.head != nil {
			c.head.prev = entry
		}
		c.head = entry
	}

	return entry.value, true
}

func (c *cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.head = nil
	c.tail = nil
	c.lookup = make(map[string]*node[V])
	c.weight = 0
}
