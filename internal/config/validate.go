package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks Config for production-critical problems.
// It collects all errors into a single joined error.
func (c *Config) Validate() error {
	var errs []string

	// Gemini is the only hard dependency of the chat pipeline.
	if c.Gemini.APIKey == "" {
		errs = append(errs, "GEMINI_API_KEY is required")
	}

	// DB password
	if c.DB.Password == "" {
		errs = append(errs, "DB_PASSWORD is required")
	}

	// Port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT must be 1-65535, got %d", c.Server.Port))
	}
	if c.DB.Port < 1 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Sprintf("DB_PORT must be 1-65535, got %d", c.DB.Port))
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		errs = append(errs, fmt.Sprintf("REDIS_PORT must be 1-65535, got %d", c.Redis.Port))
	}

	if c.Usage.CostPer1KTokens < 0 {
		errs = append(errs, fmt.Sprintf("COST_PER_1K_TOKENS must be non-negative, got %g", c.Usage.CostPer1KTokens))
	}

	// Live-data providers degrade gracefully when unconfigured: warn only.
	if c.Search.SearxURL == "" {
		slog.Warn("SEARX_URL is empty, web search context will be skipped")
	}
	if c.News.APIKey == "" {
		slog.Warn("NEWSAPI_KEY is empty, news context and news endpoints will be unavailable")
	}
	if c.Finance.FinnhubKey == "" {
		slog.Warn("FINNHUB_KEY is empty, finance context will be skipped")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
