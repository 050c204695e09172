package cache

import (
	"container/list"
	"sync"
	"time"
)

// Item represents a cached value with expiration time.
type Item struct {
	V   any
	Exp time.Time // zero = no expiry
}

// Cache is a small in-memory TTL cache with LRU eviction, safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	items    map[string]*entry
	order    *list.List // MRU at front, LRU at back
	maxItems int        // 0 = unlimited
	now      func() time.Time
}

type entry struct {
	key  string
	item Item
	elem *list.Element
}

// New returns an empty cache holding at most maxItems entries (0 = unlimited).
func New(maxItems int) *Cache {
	if maxItems < 0 {
		maxItems = 0
	}
	return &Cache{items: make(map[string]*entry), order: list.New(), maxItems: maxItems, now: time.Now}
}

// Get returns value and whether it exists and not expired.
func (c *Cache) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if c.expired(e) {
		// lazy delete
		c.removeNoLock(key)
		return nil, false
	}
	c.order.MoveToFront(e.elem)
	return e.item.V, true
}

// Set sets a value with TTL. ttl<=0 means no expiry.
func (c *Cache) Set(key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	var exp time.Time
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		e.item = Item{V: v, Exp: exp}
		c.order.MoveToFront(e.elem)
		return
	}
	e := &entry{key: key, item: Item{V: v, Exp: exp}}
	e.elem = c.order.PushFront(e)
	c.items[key] = e
	// enforce capacity
	if c.maxItems > 0 && c.order.Len() > c.maxItems {
		c.evictLRUNoLock()
	}
}

// Delete removes a key.
func (c *Cache) Delete(key string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.removeNoLock(key)
	c.mu.Unlock()
}

// Len reports the number of entries, expired ones included until swept.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Sweep removes every expired item.
func (c *Cache) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.items {
		if c.expired(e) {
			c.removeNoLock(k)
		}
	}
}

// Janitor sweeps on every tick until stop is closed.
func (c *Cache) Janitor(interval time.Duration, stop <-chan struct{}) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			c.Sweep()
		case <-stop:
			return
		}
	}
}

func (c *Cache) expired(e *entry) bool {
	return !e.item.Exp.IsZero() && c.now().After(e.item.Exp)
}

// removeNoLock removes key from map/list; caller must hold c.mu.
func (c *Cache) removeNoLock(key string) {
	if e, ok := c.items[key]; ok {
		c.order.Remove(e.elem)
		delete(c.items, key)
	}
}

// evictLRUNoLock removes one LRU entry; caller must hold c.mu.
func (c *Cache) evictLRUNoLock() {
	back := c.order.Back()
	if back == nil {
		return
	}
	if e, ok := back.Value.(*entry); ok {
		delete(c.items, e.key)
	}
	c.order.Remove(back)
}
