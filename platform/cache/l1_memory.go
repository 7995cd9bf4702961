package cache

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// The L1 layer holds hot panel state in process memory. Entries the
// caller sets without a TTL fall back to these defaults.
const (
	l1DefaultExpiration = 5 * time.Minute
	l1CleanupInterval   = 10 * time.Minute
)

type L1CacheService struct {
	client *cache.Cache
}

func InitL1Cache() *L1CacheService {
	return &L1CacheService{
		client: cache.New(l1DefaultExpiration, l1CleanupInterval),
	}
}

func (s *L1CacheService) Get(key string) (interface{}, bool) {
	return s.client.Get(key)
}

func (s *L1CacheService) Set(key string, value interface{}, expiration time.Duration) {
	s.client.Set(key, value, expiration)
}

func (s *L1CacheService) Del(key string) {
	s.client.Delete(key)
}
