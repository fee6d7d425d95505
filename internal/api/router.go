package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/database"
	mw "github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/middleware"
)

// HandlerSet holds handler functions injected from main.go to avoid
// import cycles.
type HandlerSet struct {
	// Chat handlers
	Complete      http.HandlerFunc
	ListSessions  http.HandlerFunc
	RenameSession http.HandlerFunc
	DeleteSession http.HandlerFunc

	// Live-data handlers
	SearchWeb  http.HandlerFunc
	NewsLatest http.HandlerFunc
	NewsSearch http.HandlerFunc

	// File handlers
	AnalyzeFile http.HandlerFunc

	// System handlers
	SystemUsage    http.HandlerFunc
	GetSettings    http.HandlerFunc
	UpdateSettings http.HandlerFunc

	// Eventing health, nil when eventing is disabled
	EventsHealthy func() bool
}

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	CORSAllowedOrigins []string
}

func NewRouter(pool *pgxpool.Pool, cfg RouterConfig, h HandlerSet) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.SecurityHeaders)
	r.Use(mw.Logging)
	r.Use(mw.Recovery)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(mw.CORS(cfg.CORSAllowedOrigins)))

	// Liveness probe, always 200 with no dependency checks
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "alive"})
	})

	// Readiness probe checks DB and, when configured, NATS
	readinessHandler := func(w http.ResponseWriter, r *http.Request) {
		health := map[string]string{
			"status":   "healthy",
			"database": "healthy",
			"nats":     "healthy",
		}

		status := http.StatusOK

		if err := database.HealthCheck(r.Context(), pool); err != nil {
			health["database"] = "unhealthy"
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}

		if h.EventsHealthy == nil {
			health["nats"] = "not configured"
		} else if !h.EventsHealthy() {
			health["nats"] = "unhealthy"
			health["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}

		JSON(w, status, health)
	}

	r.Get("/health/ready", readinessHandler)
	r.Get("/health", readinessHandler)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			JSON(w, http.StatusOK, map[string]string{"message": "AI Platform API Ready"})
		})

		r.Route("/chat", func(r chi.Router) {
			r.Post("/completions", h.Complete)
			r.Get("/sessions", h.ListSessions)
			r.Patch("/sessions/{id}", h.RenameSession)
			r.Delete("/sessions/{id}", h.DeleteSession)
		})

		r.Get("/search/web", h.SearchWeb)

		r.Route("/news", func(r chi.Router) {
			r.Get("/latest", h.NewsLatest)
			r.Get("/search", h.NewsSearch)
		})

		r.Post("/files/analyze", h.AnalyzeFile)

		r.Get("/system/usage", h.SystemUsage)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Post("/", h.UpdateSettings)
			r.Put("/", h.UpdateSettings)
			r.Patch("/", h.UpdateSettings)
		})
	})

	return r
}
