package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/redis/go-redis/v9"

	"github.com/a-deal/gym-finder/pkg/metrics"
	"github.com/a-deal/gym-finder/pkg/models"
)

const (
	// DefaultSearchTTL is how long cached search results remain valid
	DefaultSearchTTL = 15 * time.Minute

	searchKeyPrefix = "gymintel:search"
)

// SearchCache caches merged search results keyed by location and radius.
type SearchCache struct {
	client *Client
	ttl    time.Duration
	logger ectologger.Logger
}

// NewSearchCache creates a search cache backed by Redis
func NewSearchCache(client *Client, ttl time.Duration, logger ectologger.Logger) *SearchCache {
	if ttl <= 0 {
		ttl = DefaultSearchTTL
	}
	return &SearchCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Key builds the cache key for a location and radius
func (c *SearchCache) Key(location string, radiusMiles float64) string {
	normalized := strings.ToLower(strings.TrimSpace(location))
	normalized = strings.Join(strings.Fields(normalized), " ")
	return fmt.Sprintf("%s:%s:%.1f", searchKeyPrefix, normalized, radiusMiles)
}

// Get returns the cached search result, or nil on a miss.
func (c *SearchCache) Get(ctx context.Context, location string, radiusMiles float64) (*models.SearchResult, error) {
	raw, err := c.client.Get(ctx, c.Key(location, radiusMiles))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCacheOperation("get", "miss")
			return nil, nil
		}
		metrics.RecordCacheOperation("get", "error")
		return nil, fmt.Errorf("failed to read search cache: %w", err)
	}

	var result models.SearchResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		// Stale or corrupt entry, treat as a miss
		c.logger.WithContext(ctx).WithError(err).Warn("Discarding unreadable search cache entry")
		metrics.RecordCacheOperation("get", "miss")
		return nil, nil
	}

	metrics.RecordCacheOperation("get", "hit")
	return &result, nil
}

// Set stores a search result
func (c *SearchCache) Set(ctx context.Context, location string, radiusMiles float64, result *models.SearchResult) error {
	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode search result: %w", err)
	}

	if err := c.client.Set(ctx, c.Key(location, radiusMiles), encoded, c.ttl); err != nil {
		metrics.RecordCacheOperation("set", "error")
		return fmt.Errorf("failed to write search cache: %w", err)
	}

	metrics.RecordCacheOperation("set", "ok")
	return nil
}

// Invalidate removes a cached search result
func (c *SearchCache) Invalidate(ctx context.Context, location string, radiusMiles float64) error {
	return c.client.Del(ctx, c.Key(location, radiusMiles))
}
