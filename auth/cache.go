package auth

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/cespare/xxhash/v2"
)

type (
	// CachedValidator remembers positive results from the wrapped
	// validator for a short window, sparing the identity provider one
	// round trip per request. Rejections and faults are never cached.
	CachedValidator struct {
		next  Validator
		cache *bigcache.BigCache
	}
)

func NewCachedValidator(next Validator, ttl time.Duration) (*CachedValidator, error) {
	cache, err := bigcache.New(context.Background(), bigcache.DefaultConfig(ttl))
	if err != nil {
		return nil, err
	}
	return &CachedValidator{next: next, cache: cache}, nil
}

// cacheKey hashes the credential so the raw token never sits in cache
// memory.
func cacheKey(cred Credential) string {
	return strconv.FormatUint(xxhash.Sum64String(cred.Source+"="+cred.Value), 16)
}

func (c *CachedValidator) Validate(ctx context.Context, cred Credential) (*Identity, error) {
	key := cacheKey(cred)
	if buf, err := c.cache.Get(key); err == nil {
		var id Identity
		if json.Unmarshal(buf, &id) == nil {
			return &id, nil
		}
	}
	id, err := c.next.Validate(ctx, cred)
	if err != nil {
		return nil, err
	}
	if buf, err := json.Marshal(id); err == nil {
		c.cache.Set(key, buf)
	}
	return id, nil
}
