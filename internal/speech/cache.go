package speech

import (
	"container/list"
	"sync"
)

// ClipCache is an in-memory LRU cache for synthesized clips, bounded by the
// total PCM bytes held. Rewinding or replaying a passage hits the cache
// instead of re-synthesizing.
type ClipCache struct {
	capacity int64
	size     int64

	items    map[string]*list.Element
	eviction *list.List

	mu sync.Mutex

	hits   int64
	misses int64
}

type cacheEntry struct {
	key  string
	clip *Clip
}

// NewClipCache creates a cache bounded to capacity bytes of PCM.
func NewClipCache(capacity int64) *ClipCache {
	return &ClipCache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
	}
}

// Get returns the cached clip for key, marking it most recently used.
func (c *ClipCache) Get(key string) (*Clip, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.eviction.MoveToFront(elem)
	c.hits++
	return elem.Value.(*cacheEntry).clip, true
}

// Put stores a clip, evicting least recently used entries as needed. Clips
// larger than the whole cache are silently skipped.
func (c *ClipCache) Put(key string, clip *Clip) {
	clipSize := int64(len(clip.PCM))
	if clipSize > c.capacity {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*cacheEntry)
		c.size += clipSize - int64(len(entry.clip.PCM))
		entry.clip = clip
		c.eviction.MoveToFront(elem)
	} else {
		elem := c.eviction.PushFront(&cacheEntry{key: key, clip: clip})
		c.items[key] = elem
		c.size += clipSize
	}

	for c.size > c.capacity {
		oldest := c.eviction.Back()
		if oldest == nil {
			break
		}
		entry := oldest.Value.(*cacheEntry)
		c.eviction.Remove(oldest)
		delete(c.items, entry.key)
		c.size -= int64(len(entry.clip.PCM))
	}
}

// Len returns the number of cached clips.
func (c *ClipCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns hit and miss counts.
func (c *ClipCache) Stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
