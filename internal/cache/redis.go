package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"seoengine/internal/domain"
	"seoengine/internal/logger"
)

const (
	suggestionKey = "seo:link_suggestions"
	suggestionTTL = time.Hour
)

// SuggestionCache stores the link-suggestion batch output in Redis so
// request handlers never pay for the quadratic scan.
type SuggestionCache struct {
	client *redis.Client
	logger *logger.Logger
}

// NewSuggestionCache creates a Redis-backed suggestion cache
func NewSuggestionCache(addr, password string, db int, log *logger.Logger) *SuggestionCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &SuggestionCache{
		client: client,
		logger: log,
	}
}

// Ping verifies the Redis connection
func (c *SuggestionCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Get returns the cached suggestion list, or (nil, nil) on a miss
func (c *SuggestionCache) Get(ctx context.Context) ([]domain.LinkSuggestion, error) {
	payload, err := c.client.Get(ctx, suggestionKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read suggestion cache: %w", err)
	}

	var suggestions []domain.LinkSuggestion
	if err := json.Unmarshal(payload, &suggestions); err != nil {
		return nil, fmt.Errorf("failed to decode suggestion cache: %w", err)
	}

	c.logger.Debug("Suggestion cache hit: %d entries", len(suggestions))
	return suggestions, nil
}

// Set replaces the cached suggestion list
func (c *SuggestionCache) Set(ctx context.Context, suggestions []domain.LinkSuggestion) error {
	payload, err := json.Marshal(suggestions)
	if err != nil {
		return fmt.Errorf("failed to encode suggestions: %w", err)
	}

	if err := c.client.Set(ctx, suggestionKey, payload, suggestionTTL).Err(); err != nil {
		return fmt.Errorf("failed to write suggestion cache: %w", err)
	}

	c.logger.Debug("Suggestion cache written: %d entries", len(suggestions))
	return nil
}

// Close releases the Redis connection
func (c *SuggestionCache) Close() error {
	return c.client.Close()
}
