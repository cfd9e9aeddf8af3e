// Package cache holds the Redis read-through cache for the hot post-list
// queries. A cache miss or a Redis outage degrades to the database; callers
// treat every error here as a miss.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campusconfess/backend/internal/domain"
	"github.com/campusconfess/backend/pkg/pagination"
)

const keyPrefix = "posts:page:"

// ErrMiss is returned when the requested page is not cached.
var ErrMiss = errors.New("cache miss")

// cachedPage is the stored shape for one post-list page.
type cachedPage struct {
	Posts []domain.Post `json:"posts"`
	Total int64         `json:"total"`
}

// PostCache caches paginated post lists in Redis with a short TTL.
type PostCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPostCache creates a Redis-backed post list cache.
func NewPostCache(client *redis.Client, ttl time.Duration) *PostCache {
	return &PostCache{
		client: client,
		ttl:    ttl,
	}
}

func pageKey(params pagination.Params) string {
	return fmt.Sprintf("%s%d:%d", keyPrefix, params.Page, params.PerPage)
}

// GetPage retrieves a cached post-list page. ErrMiss means the page is not
// cached; any other error means Redis itself failed.
func (c *PostCache) GetPage(ctx context.Context, params pagination.Params) ([]domain.Post, int64, error) {
	data, err := c.client.Get(ctx, pageKey(params)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, 0, ErrMiss
		}
		return nil, 0, fmt.Errorf("redis get post page: %w", err)
	}

	var page cachedPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, 0, fmt.Errorf("unmarshal post page: %w", err)
	}

	return page.Posts, page.Total, nil
}

// SetPage stores a post-list page with the configured TTL.
func (c *PostCache) SetPage(ctx context.Context, params pagination.Params, posts []domain.Post, total int64) error {
	data, err := json.Marshal(cachedPage{Posts: posts, Total: total})
	if err != nil {
		return fmt.Errorf("marshal post page: %w", err)
	}

	if err := c.client.Set(ctx, pageKey(params), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set post page: %w", err)
	}

	return nil
}

// Invalidate drops all cached post-list pages. Called on every write to the
// post or comment tables that changes list output.
func (c *PostCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan post pages: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del post pages: %w", err)
	}

	return nil
}
