package forms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("form not cached")

// Cache keeps recently used form configuration in Redis.
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewCache(client redis.Cmdable, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(formID string) string {
	return fmt.Sprintf("web2lead:form:%s", formID)
}

func (c *Cache) Get(ctx context.Context, formID string) (*Form, error) {
	data, err := c.client.Get(ctx, cacheKey(formID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var form Form
	if err := json.Unmarshal(data, &form); err != nil {
		return nil, fmt.Errorf("decoding cached form %s: %w", formID, err)
	}
	return &form, nil
}

func (c *Cache) Set(ctx context.Context, form *Form) error {
	data, err := json.Marshal(form)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(form.ID), data, c.ttl).Err()
}

func (c *Cache) Invalidate(ctx context.Context, formID string) error {
	return c.client.Del(ctx, cacheKey(formID)).Err()
}
