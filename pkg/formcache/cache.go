// Package formcache memoizes derived computations over form value
// snapshots. Entries are keyed by a deterministic hash of the values and
// evicted FIFO once the capacity is reached; the cache is purely a
// performance layer and a hit always equals a fresh computation.
package formcache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/goliatone/go-postwizard/pkg/schema"
)

const defaultCapacity = 64

// Analytics is the derived completion summary for a value snapshot.
type Analytics struct {
	CompletionPercent float64
	HasChanges        bool
	IsFormComplete    bool
}

// Option customises cache construction.
type Option func(*Cache)

// WithCapacity bounds the number of retained entries. Values below one are
// ignored.
func WithCapacity(capacity int) Option {
	return func(c *Cache) {
		if capacity >= 1 {
			c.capacity = capacity
		}
	}
}

type entry struct {
	optimized schema.FormValues
	analytics Analytics
}

// Cache is an explicitly owned memoization table. Construct one per consumer
// that needs isolation; there is no package-level instance.
type Cache struct {
	registry *schema.Registry
	capacity int

	mu      sync.Mutex
	entries map[string]entry
	order   []string
}

// New builds a cache bound to the given registry.
func New(registry *schema.Registry, opts ...Option) *Cache {
	if registry == nil {
		registry = schema.NewRegistry()
	}
	c := &Cache{
		registry: registry,
		capacity: defaultCapacity,
		entries:  make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key computes the deterministic, order-sensitive hash for a value
// snapshot. Critical fields (nickname, title, content, completion flag) are
// written first, followed by the secondary set (email halves, description,
// array lengths); every segment is length-prefixed so adjacent values cannot
// collide.
func Key(values schema.FormValues) string {
	hasher := sha256.New()

	writeSegment := func(segment string) {
		var length [4]byte
		binary.BigEndian.PutUint32(length[:], uint32(len(segment)))
		hasher.Write(length[:])
		hasher.Write([]byte(segment))
	}
	writeFlag := func(flag bool) {
		if flag {
			hasher.Write([]byte{1})
		} else {
			hasher.Write([]byte{0})
		}
	}
	writeCount := func(count int) {
		var buf [4]byte
		binary.BigEndian.PutUint32(buf[:], uint32(count))
		hasher.Write(buf[:])
	}

	// Critical subset.
	writeSegment(values.Nickname)
	writeSegment(values.Title)
	writeSegment(values.Content)
	writeFlag(values.IsEditorCompleted)

	// Secondary subset.
	local, domain, _ := strings.Cut(values.Email, "@")
	writeSegment(local)
	writeSegment(domain)
	writeSegment(values.Description)
	writeCount(len(values.Tags))
	writeCount(len(values.Media))
	writeCount(len(values.SliderImages))

	return hex.EncodeToString(hasher.Sum(nil))
}

// Optimized returns the canonical normalized form of the values, memoized by
// snapshot hash.
func (c *Cache) Optimized(values schema.FormValues) schema.FormValues {
	cached := c.lookup(values)
	return cached.optimized
}

// Analytics returns the derived completion summary for the values, memoized
// by snapshot hash.
func (c *Cache) Analytics(values schema.FormValues) Analytics {
	cached := c.lookup(values)
	return cached.analytics
}

// Len reports the number of retained entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	c.order = nil
}

func (c *Cache) lookup(values schema.FormValues) entry {
	key := Key(values)

	c.mu.Lock()
	if cached, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	computed := entry{
		optimized: schema.Normalize(values.Map()),
		analytics: Analytics{
			CompletionPercent: c.registry.CompletionPercent(values),
			HasChanges:        key != Key(schema.Defaults()),
			IsFormComplete:    c.registry.FormComplete(values),
		},
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		c.entries[key] = computed
		c.order = append(c.order, key)
		// FIFO eviction: insertion order, not recency.
		for len(c.order) > c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
	}
	return computed
}
