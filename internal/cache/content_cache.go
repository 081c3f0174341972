// Package cache keeps public site content in Redis between writes.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lexpage/landing-service/internal/domain"
)

// ErrMiss is returned by Get when nothing is cached for the site.
var ErrMiss = errors.New("cache miss")

// setIfNotOlder writes ARGV[1] unless the cached copy carries a higher __v.
var setIfNotOlder = redis.NewScript(`
local cur = redis.call("GET", KEYS[1])
if cur then
	local ok, doc = pcall(cjson.decode, cur)
	if ok and type(doc) == "table" and tonumber(doc["__v"]) and tonumber(doc["__v"]) > tonumber(ARGV[2]) then
		return 0
	end
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[3])
return 1
`)

// ContentCache stores serialized SiteContentDocuments keyed by siteId.
type ContentCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewContentCache returns nil when ttl is not positive, which disables caching.
func NewContentCache(client redis.Cmdable, ttl time.Duration) *ContentCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &ContentCache{client: client, prefix: "content:public:", ttl: ttl}
}

func (c *ContentCache) key(siteID string) string {
	return c.prefix + siteID
}

// Get returns the cached document or ErrMiss.
func (c *ContentCache) Get(ctx context.Context, siteID string) (*domain.SiteContentDocument, error) {
	if c == nil {
		return nil, ErrMiss
	}
	raw, err := c.client.Get(ctx, c.key(siteID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("read cached content: %w", err)
	}

	var doc domain.SiteContentDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode cached content: %w", err)
	}
	return &doc, nil
}

// Set stores doc for the configured ttl. A cached copy with a higher version is
// kept, so a slow reader cannot put back a document an admin already replaced.
func (c *ContentCache) Set(ctx context.Context, doc *domain.SiteContentDocument) error {
	if c == nil || doc == nil {
		return nil
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode content: %w", err)
	}
	err = setIfNotOlder.Run(ctx, c.client, []string{c.key(doc.SiteID)},
		string(raw), doc.Version, c.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("cache content: %w", err)
	}
	return nil
}

// Invalidate drops the cached copy of siteID.
func (c *ContentCache) Invalidate(ctx context.Context, siteID string) error {
	if c == nil {
		return nil
	}
	if err := c.client.Del(ctx, c.key(siteID)).Err(); err != nil {
		return fmt.Errorf("invalidate content: %w", err)
	}
	return nil
}
