// Package search proxies web searches to a SearXNG instance.
package search

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/api"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/searxng"
)

// Result is one search hit in the shape clients expect.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Client is the SearXNG dependency.
type Client interface {
	Search(ctx context.Context, query, language string) ([]searxng.Result, error)
}

type Handler struct {
	client Client
}

func NewHandler(client Client) *Handler {
	return &Handler{client: client}
}

// Web handles GET /search/web.
func (h *Handler) Web(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		api.JSONErrorMessage(w, http.StatusServiceUnavailable, "web search not configured")
		return
	}

	q := r.URL.Query().Get("q")
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = "en"
	}

	results, err := h.client.Search(r.Context(), q, lang)
	if err != nil {
		slog.Error("searching web", "error", err, "query", q)
		api.HandleError(w, api.ErrUpstream)
		return
	}

	out := make([]Result, 0, len(results))
	for _, res := range results {
		out = append(out, Result{Title: res.Title, Link: res.URL, Snippet: res.Content})
	}
	api.JSON(w, http.StatusOK, out)
}
