package present

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a rendered chart stays cached.
const DefaultCacheTTL = time.Hour

const cleanupInterval = 5 * time.Minute

type cacheEntry struct {
	png       []byte
	expiresAt time.Time
}

// ChartCache keeps rendered PNGs in memory. A result never changes once
// published, so entries are only evicted by age.
type ChartCache struct {
	mu    sync.RWMutex
	store map[string]*cacheEntry
	ttl   time.Duration
	now   func() time.Time

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewChartCache creates a cache and starts its cleanup goroutine. Call Close
// to stop it. A non-positive ttl uses DefaultCacheTTL.
func NewChartCache(ttl time.Duration) *ChartCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	c := &ChartCache{
		store: make(map[string]*cacheEntry),
		ttl:   ttl,
		now:   time.Now,
		done:  make(chan struct{}),
	}
	c.wg.Add(1)
	go c.cleanup(cleanupInterval)
	return c
}

// Get returns a cached PNG if present and not expired.
func (c *ChartCache) Get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[key]
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.png, true
}

// Set stores a PNG.
func (c *ChartCache) Set(key string, png []byte) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = &cacheEntry{png: png, expiresAt: c.now().Add(c.ttl)}
}

// Len returns the number of stored entries, expired or not.
func (c *ChartCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Clear removes all entries.
func (c *ChartCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*cacheEntry)
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (c *ChartCache) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() { close(c.done) })
	c.wg.Wait()
}

func (c *ChartCache) cleanup(every time.Duration) {
	defer c.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *ChartCache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, key)
		}
	}
}

// CacheKey identifies one rendering of one chart of one run.
func CacheKey(runID, chartID string, width, height int) string {
	keyStr := fmt.Sprintf("%s:%s:%dx%d", runID, chartID, width, height)
	hash := sha256.Sum256([]byte(keyStr))
	return hex.EncodeToString(hash[:])
}
