// Package livedata turns intent tasks into a textual context block by
// querying live data sources.
package livedata

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/finnhub"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/intent"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/metrics"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/newsapi"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/searxng"
)

const maxSnippetItems = 5

// SearchClient is the web search dependency.
type SearchClient interface {
	Search(ctx context.Context, query, language string) ([]searxng.Result, error)
}

// NewsClient is the news dependency.
type NewsClient interface {
	TopHeadlines(ctx context.Context, language string, pageSize int) ([]newsapi.Article, error)
	Everything(ctx context.Context, params newsapi.EverythingParams) ([]newsapi.Article, error)
}

// FinanceClient is the stock quote dependency.
type FinanceClient interface {
	GetQuote(ctx context.Context, symbol string) (*finnhub.Quote, error)
}

// Builder executes live-data tasks and aggregates their snippets into
// one context block. Tasks run sequentially in list order: snippet
// order is what the model reads first, so it must match task order.
//
// Every task is result-or-empty: any failure in a single task yields an
// empty snippet for that task and never aborts the rest of the build.
type Builder struct {
	search  SearchClient
	news    NewsClient
	finance FinanceClient
	cache   *Cache

	now func() time.Time
}

// NewBuilder creates a Builder. Any client may be nil, in which case
// its tasks are skipped. cache may be nil to disable caching.
func NewBuilder(search SearchClient, news NewsClient, finance FinanceClient, cache *Cache) *Builder {
	return &Builder{
		search:  search,
		news:    news,
		finance: finance,
		cache:   cache,
		now:     time.Now,
	}
}

// Build executes the tasks and returns the aggregated context block.
// An empty string means "no augmentation" and is not an error.
func (b *Builder) Build(ctx context.Context, tasks []intent.Task, loc *time.Location) string {
	if len(tasks) == 0 {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}

	var sb strings.Builder
	for _, task := range tasks {
		var snippet string
		switch task.Type {
		case intent.TaskTime:
			snippet = fmt.Sprintf("Current time: %s\n\n", b.now().In(loc).Format("03:04:05 PM MST"))
		case intent.TaskDate:
			snippet = fmt.Sprintf("Current date: %s\n\n", b.now().In(loc).Format("2006-01-02"))
		case intent.TaskSearch:
			snippet = b.searchSnippet(ctx, task.Query)
		case intent.TaskNews:
			snippet = b.newsSnippet(ctx, task.Query)
		case intent.TaskFinance:
			snippet = b.financeSnippet(ctx, task.Symbol)
		}

		outcome := "ok"
		if snippet == "" {
			outcome = "skipped"
		}
		metrics.LiveDataTasksTotal.WithLabelValues(string(task.Type), outcome).Inc()
		sb.WriteString(snippet)
	}
	return sb.String()
}

func (b *Builder) searchSnippet(ctx context.Context, query string) string {
	if query == "" || b.search == nil {
		return ""
	}

	results, err := b.search.Search(ctx, query, "en")
	if err != nil {
		slog.Debug("livedata: web search failed", "query", query, "error", err)
		return ""
	}
	if len(results) > maxSnippetItems {
		results = results[:maxSnippetItems]
	}

	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, fmt.Sprintf("Title: %s\nURL: %s\nSnippet: %s", r.Title, r.URL, r.Content))
	}
	return fmt.Sprintf("Web search for \"%s\":\n%s\n\n", query, strings.Join(blocks, "\n\n"))
}

func (b *Builder) newsSnippet(ctx context.Context, query string) string {
	if b.news == nil {
		return ""
	}

	var (
		articles []newsapi.Article
		err      error
	)
	if query != "" {
		articles, err = b.news.Everything(ctx, newsapi.EverythingParams{
			Query:    query,
			SortBy:   "publishedAt",
			PageSize: maxSnippetItems,
		})
	} else {
		articles, err = b.cachedHeadlines(ctx)
	}
	if err != nil {
		slog.Debug("livedata: news fetch failed", "query", query, "error", err)
		return ""
	}
	if len(articles) > maxSnippetItems {
		articles = articles[:maxSnippetItems]
	}

	blocks := make([]string, 0, len(articles))
	for _, a := range articles {
		blocks = append(blocks, fmt.Sprintf("Title: %s\nSource: %s\nPublished: %s\nDesc: %s",
			a.Title, a.Source.Name, a.PublishedAt, a.Description))
	}

	header := "News headlines:"
	if query != "" {
		header = fmt.Sprintf("News about \"%s\":", query)
	}
	return fmt.Sprintf("%s\n%s\n\n", header, strings.Join(blocks, "\n\n"))
}

func (b *Builder) cachedHeadlines(ctx context.Context) ([]newsapi.Article, error) {
	if b.cache != nil {
		if articles, ok := b.cache.GetHeadlines(ctx, "en"); ok {
			return articles, nil
		}
	}
	articles, err := b.news.TopHeadlines(ctx, "en", maxSnippetItems)
	if err != nil {
		return nil, err
	}
	if b.cache != nil {
		b.cache.SetHeadlines(ctx, "en", articles)
	}
	return articles, nil
}

func (b *Builder) financeSnippet(ctx context.Context, symbol string) string {
	if b.finance == nil {
		return ""
	}

	quote, err := b.cachedQuote(ctx, symbol)
	if err != nil {
		slog.Debug("livedata: quote fetch failed", "symbol", symbol, "error", err)
		return ""
	}
	return fmt.Sprintf("Live price %s: ₹%s (open ₹%s, high ₹%s)\n\n",
		symbol, formatPrice(quote.Current), formatPrice(quote.Open), formatPrice(quote.High))
}

func (b *Builder) cachedQuote(ctx context.Context, symbol string) (*finnhub.Quote, error) {
	if b.cache != nil {
		if quote, ok := b.cache.GetQuote(ctx, symbol); ok {
			return quote, nil
		}
	}
	quote, err := b.finance.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if b.cache != nil {
		b.cache.SetQuote(ctx, symbol, quote)
	}
	return quote, nil
}

func formatPrice(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
