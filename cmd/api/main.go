package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/api"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/chat"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/config"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/database"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/events"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/files"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/finnhub"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/gemini"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/livedata"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/news"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/newsapi"
	iredis "github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/redis"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/search"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/searxng"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/server"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/settings"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/usage"
)

const upstreamTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// PostgreSQL
	pool, err := database.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		slog.Error("connecting to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations(cfg.DB.DSN(), cfg.DB.MigrationsPath); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	// Redis
	redisClient, err := iredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		slog.Error("connecting to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// NATS eventing is optional
	var publisher *events.Publisher
	if cfg.NATS.URL != "" {
		publisher, err = events.Connect(ctx, cfg.NATS)
		if err != nil {
			slog.Error("connecting to NATS", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
	} else {
		slog.Info("NATS_URL not set, eventing disabled")
	}

	// Upstream clients
	geminiClient := gemini.NewClient(cfg.Gemini.BaseURL, cfg.Gemini.APIKey, cfg.Gemini.Model, upstreamTimeout)

	var searchClient livedata.SearchClient
	var webSearchClient search.Client
	if cfg.Search.SearxURL != "" {
		c := searxng.NewClient(cfg.Search.SearxURL, upstreamTimeout)
		searchClient = c
		webSearchClient = c
	}

	var newsClient livedata.NewsClient
	var newsFeedClient news.Client
	if cfg.News.APIKey != "" {
		c := newsapi.NewClient("", cfg.News.APIKey, upstreamTimeout)
		newsClient = c
		newsFeedClient = c
	}

	var financeClient livedata.FinanceClient
	if cfg.Finance.FinnhubKey != "" {
		financeClient = finnhub.NewClient("", cfg.Finance.FinnhubKey, upstreamTimeout)
	}

	// Live-data context
	cache := livedata.NewCache(redisClient)
	builder := livedata.NewBuilder(searchClient, newsClient, financeClient, cache)

	// Chat
	chatRepo := chat.NewPostgresRepository(pool)
	chatSvc := chat.NewService(chatRepo, geminiClient, builder, eventsOrNil(publisher))
	chatHandler := chat.NewHandler(chatSvc)

	// Files
	filesRepo := files.NewPostgresRepository(pool)
	filesSvc := files.NewService(filesRepo, geminiClient, fileEventsOrNil(publisher))
	filesHandler := files.NewHandler(filesSvc)

	// Feeds and system handlers
	searchHandler := search.NewHandler(webSearchClient)
	newsHandler := news.NewHandler(newsFeedClient)
	usageHandler := usage.NewHandler(chatRepo, cfg.Usage.CostPer1KTokens)
	settingsHandler := settings.NewHandler(settings.NewStore())

	var eventsHealthy func() bool
	if publisher != nil {
		eventsHealthy = publisher.Healthy
	}

	// Router
	router := api.NewRouter(pool, api.RouterConfig{
		CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
	}, api.HandlerSet{
		Complete:      chatHandler.Complete,
		ListSessions:  chatHandler.ListSessions,
		RenameSession: chatHandler.RenameSession,
		DeleteSession: chatHandler.DeleteSession,

		SearchWeb:  searchHandler.Web,
		NewsLatest: newsHandler.Latest,
		NewsSearch: newsHandler.Search,

		AnalyzeFile: filesHandler.Analyze,

		SystemUsage:    usageHandler.Get,
		GetSettings:    settingsHandler.Get,
		UpdateSettings: settingsHandler.Update,

		EventsHealthy: eventsHealthy,
	})

	// Start server
	srv := server.New(cfg.Server, router)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// eventsOrNil avoids handing a typed nil pointer to an interface field.
func eventsOrNil(p *events.Publisher) chat.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}

func fileEventsOrNil(p *events.Publisher) files.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}

func setupLogger(cfg config.LogConfig) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{}
	switch cfg.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
