package cache

import "time"

// CacheService is the shared L1+L2 cache surface the services read
// through.
type CacheService interface {
	GetCache(key string) (interface{}, bool)
	SetCache(key string, value interface{}, expiration time.Duration) error
	DelCache(key string) error
}
