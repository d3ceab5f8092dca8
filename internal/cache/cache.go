package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/vzahanych/weather-dashboard/internal/config"
	"github.com/vzahanych/weather-dashboard/internal/weather"
)

// ReportCache maps query keys to fetched reports. With a zero TTL entries
// are never evicted and the cache grows for the lifetime of its owner.
type ReportCache struct {
	items *gocache.Cache
	ttl   time.Duration
}

func New(cfg config.CacheConfig) *ReportCache {
	ttl := time.Duration(cfg.TTL) * time.Second
	if ttl <= 0 {
		return &ReportCache{
			items: gocache.New(gocache.NoExpiration, 0),
		}
	}

	return &ReportCache{
		items: gocache.New(ttl, time.Duration(cfg.CleanupInterval)*time.Second),
		ttl:   ttl,
	}
}

func (c *ReportCache) Get(key string) (*weather.Report, bool) {
	v, ok := c.items.Get(key)
	if !ok {
		return nil, false
	}
	report, ok := v.(*weather.Report)
	return report, ok
}

func (c *ReportCache) Set(key string, report *weather.Report) {
	c.items.SetDefault(key, report)
}

func (c *ReportCache) Clear() {
	c.items.Flush()
}

func (c *ReportCache) Len() int {
	return c.items.ItemCount()
}

func (c *ReportCache) Stats() map[string]interface{} {
	ttl := "none"
	if c.ttl > 0 {
		ttl = c.ttl.String()
	}

	return map[string]interface{}{
		"cache_size": c.items.ItemCount(),
		"cache_ttl":  ttl,
	}
}
