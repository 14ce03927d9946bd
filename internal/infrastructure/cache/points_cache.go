package cache

import (
	"sync"
)

// PointsCache provides a thread-safe in-memory cache of receipt points.
// Stored receipts are immutable, so entries never go stale.
type PointsCache struct {
	cache  map[string]int64
	hits   uint64
	misses uint64
	mutex  sync.RWMutex
}

// NewPointsCache creates a new points cache
func NewPointsCache() *PointsCache {
	return &PointsCache{
		cache: make(map[string]int64),
	}
}

// Get retrieves the points for a receipt ID if they were computed before
func (c *PointsCache) Get(receiptID string) (int64, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	points, exists := c.cache[receiptID]
	if !exists {
		c.misses++
		return 0, false
	}

	c.hits++
	return points, true
}

// Put stores the points computed for a receipt ID
func (c *PointsCache) Put(receiptID string, points int64) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache[receiptID] = points
}

// Size returns the number of items in the cache
func (c *PointsCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}

// Stats returns the hit and miss counts since creation
func (c *PointsCache) Stats() (hits, misses uint64) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.hits, c.misses
}
