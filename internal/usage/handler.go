// Package usage reports aggregate workspace consumption.
package usage

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/api"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/gemini"
)

// Report is the aggregate served at /system/usage.
type Report struct {
	TotalChats    int64   `json:"totalChats"`
	TotalTokens   int     `json:"totalTokens"`
	EstimatedCost float64 `json:"estimatedCost"`
	LastUpdated   string  `json:"lastUpdated"`
}

// SessionStats is the slice of session storage this package reads.
type SessionStats interface {
	Count(ctx context.Context) (int64, error)
	ListUsage(ctx context.Context) ([]gemini.Usage, error)
}

type Handler struct {
	stats     SessionStats
	costPer1K float64
	now       func() time.Time
}

func NewHandler(stats SessionStats, costPer1K float64) *Handler {
	return &Handler{stats: stats, costPer1K: costPer1K, now: time.Now}
}

// Get handles GET /system/usage.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	count, err := h.stats.Count(r.Context())
	if err != nil {
		slog.Error("counting sessions", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	usages, err := h.stats.ListUsage(r.Context())
	if err != nil {
		slog.Error("listing session usage", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	total := 0
	for _, u := range usages {
		if u.TotalTokens > 0 {
			total += u.TotalTokens
		} else {
			total += u.PromptTokens + u.CompletionTokens
		}
	}

	cost := math.Round(float64(total)/1000*h.costPer1K*10000) / 10000

	api.JSON(w, http.StatusOK, Report{
		TotalChats:    count,
		TotalTokens:   total,
		EstimatedCost: cost,
		LastUpdated:   h.now().UTC().Format(time.RFC3339),
	})
}
