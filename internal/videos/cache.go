package videos

import (
	"context"
	"sync"
	"time"
)

type cachedLookup struct {
	metadata Metadata
	expires  time.Time
}

// CachingProvider memoises metadata lookups per YouTube video so that the
// different URL forms of one video share a single yt-dlp invocation.
type CachingProvider struct {
	base Provider
	ttl  time.Duration
	now  func() time.Time

	mu        sync.Mutex
	entries   map[string]cachedLookup
	lastSweep time.Time
}

// NewCachingProvider wraps base; a non-positive ttl means one minute.
func NewCachingProvider(base Provider, ttl time.Duration) *CachingProvider {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachingProvider{
		base:    base,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cachedLookup),
	}
}

// Lookup serves fresh cached metadata or asks the wrapped provider. Failures are not cached.
func (c *CachingProvider) Lookup(ctx context.Context, url string) (Metadata, error) {
	if c == nil || c.base == nil {
		return Metadata{}, ErrProviderUnavailable
	}

	key := cacheKey(url)
	now := c.now()

	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && !now.Before(entry.expires) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()
	if ok {
		return entry.metadata, nil
	}

	metadata, err := c.base.Lookup(ctx, url)
	if err != nil {
		return Metadata{}, err
	}

	c.mu.Lock()
	if now.Sub(c.lastSweep) >= c.ttl {
		c.sweepLocked(now)
	}
	c.entries[key] = cachedLookup{metadata: metadata, expires: now.Add(c.ttl)}
	c.mu.Unlock()

	return metadata, nil
}

// sweepLocked drops expired entries; it runs at most once per ttl.
func (c *CachingProvider) sweepLocked(now time.Time) {
	for key, entry := range c.entries {
		if !now.Before(entry.expires) {
			delete(c.entries, key)
		}
	}
	c.lastSweep = now
}

func cacheKey(url string) string {
	if id, ok := ExtractVideoID(url); ok {
		return id
	}
	return url
}
