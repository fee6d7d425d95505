package livedata

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/finnhub"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/newsapi"
)

const (
	quoteTTL     = 30 * time.Second
	headlinesTTL = 5 * time.Minute
)

// Cache is a Redis-backed TTL cache for live-data lookups that are both
// slow and rate-limited upstream (quotes, generic headlines). All
// methods treat Redis errors as misses: the builder falls through to
// the live fetch.
type Cache struct {
	client redis.Cmdable
}

// NewCache creates a Cache on the given Redis client.
func NewCache(client redis.Cmdable) *Cache {
	return &Cache{client: client}
}

// GetQuote returns a cached quote for the symbol, if present.
func (c *Cache) GetQuote(ctx context.Context, symbol string) (*finnhub.Quote, bool) {
	payload, err := c.client.Get(ctx, "livedata:quote:"+symbol).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Debug("livedata cache: quote get failed", "symbol", symbol, "error", err)
		}
		return nil, false
	}
	var quote finnhub.Quote
	if err := json.Unmarshal(payload, &quote); err != nil {
		return nil, false
	}
	return &quote, true
}

// SetQuote stores a quote with a short TTL.
func (c *Cache) SetQuote(ctx context.Context, symbol string, quote *finnhub.Quote) {
	payload, err := json.Marshal(quote)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, "livedata:quote:"+symbol, payload, quoteTTL).Err(); err != nil {
		slog.Debug("livedata cache: quote set failed", "symbol", symbol, "error", err)
	}
}

// GetHeadlines returns cached top headlines for a language, if present.
func (c *Cache) GetHeadlines(ctx context.Context, language string) ([]newsapi.Article, bool) {
	payload, err := c.client.Get(ctx, "livedata:headlines:"+language).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Debug("livedata cache: headlines get failed", "error", err)
		}
		return nil, false
	}
	var articles []newsapi.Article
	if err := json.Unmarshal(payload, &articles); err != nil {
		return nil, false
	}
	return articles, true
}

// SetHeadlines stores top headlines for a language.
func (c *Cache) SetHeadlines(ctx context.Context, language string, articles []newsapi.Article) {
	payload, err := json.Marshal(articles)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, "livedata:headlines:"+language, payload, headlinesTTL).Err(); err != nil {
		slog.Debug("livedata cache: headlines set failed", "error", err)
	}
}
