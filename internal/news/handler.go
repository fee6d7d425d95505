// Package news serves news feeds backed by NewsAPI, with brand-aware
// search and keyword category tagging.
package news

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/api"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/newsapi"
)

const (
	latestPageSize = 5
	searchPageSize = 10
	searchWindow   = 7 * 24 * time.Hour
)

// Article is the card shape served to clients.
type Article struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Summary     string  `json:"summary"`
	Content     string  `json:"content"`
	PublishedAt string  `json:"publishedAt"`
	Source      string  `json:"source"`
	Category    string  `json:"category"`
	URL         string  `json:"url"`
	ImageURL    *string `json:"imageUrl"`
	Author      string  `json:"author"`
}

// Client is the NewsAPI dependency.
type Client interface {
	TopHeadlines(ctx context.Context, language string, pageSize int) ([]newsapi.Article, error)
	Everything(ctx context.Context, params newsapi.EverythingParams) ([]newsapi.Article, error)
}

type Handler struct {
	client Client
	now    func() time.Time
}

func NewHandler(client Client) *Handler {
	return &Handler{client: client, now: time.Now}
}

// Latest handles GET /news/latest.
func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		api.JSONErrorMessage(w, http.StatusServiceUnavailable, "news feed not configured")
		return
	}

	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = "en"
	}

	articles, err := h.client.TopHeadlines(r.Context(), lang, latestPageSize)
	if err != nil {
		slog.Error("fetching headlines", "error", err)
		api.HandleError(w, api.ErrUpstream)
		return
	}
	api.JSON(w, http.StatusOK, toCards(articles))
}

// Search handles GET /news/search. The query is expanded to known brand
// aliases, searched over the last seven days, and the results are
// post-filtered so every returned article actually mentions the brand.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		api.JSONErrorMessage(w, http.StatusServiceUnavailable, "news search not configured")
		return
	}

	raw := strings.TrimSpace(r.URL.Query().Get("q"))
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = "en"
	}

	if len(raw) < 2 {
		api.JSON(w, http.StatusOK, []Article{})
		return
	}

	b := normalizeBrand(raw)

	articles, err := h.client.Everything(r.Context(), newsapi.EverythingParams{
		Query:    aliasQuery(b),
		QInTitle: b.primary,
		Language: lang,
		SearchIn: "title,description",
		From:     h.now().Add(-searchWindow).UTC().Format("2006-01-02"),
		SortBy:   "relevancy",
		PageSize: searchPageSize,
	})
	if err != nil {
		slog.Error("searching news", "error", err, "query", raw)
		api.HandleError(w, api.ErrUpstream)
		return
	}

	filtered := make([]newsapi.Article, 0, len(articles))
	for _, a := range articles {
		blob := a.Title + " " + a.Description + " " + a.Content
		if b.strict.MatchString(blob) {
			filtered = append(filtered, a)
		}
	}
	api.JSON(w, http.StatusOK, toCards(filtered))
}

// aliasQuery builds the NewsAPI q expression, quoting multi-word
// aliases and OR-ing variants.
func aliasQuery(b brand) string {
	if len(b.aliases) == 1 {
		return phrase(b.primary)
	}
	quoted := make([]string, 0, len(b.aliases))
	for _, a := range b.aliases {
		quoted = append(quoted, phrase(a))
	}
	return fmt.Sprintf("(%s)", strings.Join(quoted, " OR "))
}

func phrase(s string) string {
	if strings.ContainsAny(s, " \t") {
		return `"` + s + `"`
	}
	return s
}

func toCards(articles []newsapi.Article) []Article {
	cards := make([]Article, 0, len(articles))
	for _, a := range articles {
		content := a.Content
		if content == "" {
			content = a.Description
		}
		source := a.Source.Name
		if source == "" {
			source = "Unknown"
		}
		var image *string
		if a.URLToImage != "" {
			img := a.URLToImage
			image = &img
		}
		cards = append(cards, Article{
			ID:          uuid.New().String(),
			Title:       a.Title,
			Summary:     a.Description,
			Content:     content,
			PublishedAt: a.PublishedAt,
			Source:      source,
			Category:    inferCategoryFromTitle(a.Title),
			URL:         a.URL,
			ImageURL:    image,
			Author:      a.Author,
		})
	}
	return cards
}
