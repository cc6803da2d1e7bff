package chatapi

import (
	"sync"
	"time"
)

// ChannelCache is a bounded TTL cache for channel lookups. The message
// gatekeeper runs on the chat backend's synchronous hook with a hard latency
// budget, so repeated lookups for busy channels are served from memory.
// Eviction is oldest-inserted-first once maxEntries is reached.
type ChannelCache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	order      []string
	maxEntries int
	ttl        time.Duration
}

type cacheEntry struct {
	channel   *Channel
	expiresAt time.Time
}

// NewChannelCache creates a cache bounded to maxEntries entries, each valid
// for ttl.
func NewChannelCache(maxEntries int, ttl time.Duration) *ChannelCache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &ChannelCache{
		entries:    make(map[string]cacheEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

// Get returns the cached channel for cid, or nil when absent or expired.
func (c *ChannelCache) Get(cid string) *Channel {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[cid]
	if !ok {
		return nil
	}
	if time.Now().After(entry.expiresAt) {
		// Release the order slot too, so entries and order stay in
		// lockstep and TTL churn cannot grow the slice past the bound.
		delete(c.entries, cid)
		c.removeOrderLocked(cid)
		return nil
	}
	return entry.channel
}

// Set stores a channel under cid, evicting the oldest entry when full.
func (c *ChannelCache) Set(cid string, ch *Channel) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[cid]; !exists {
		for len(c.entries) >= c.maxEntries && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, cid)
	}
	c.entries[cid] = cacheEntry{channel: ch, expiresAt: time.Now().Add(c.ttl)}
}

func (c *ChannelCache) removeOrderLocked(cid string) {
	for i, key := range c.order {
		if key == cid {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// Len reports the number of live entries, expired or not.
func (c *ChannelCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
