// Package main is the entry point for the blog API server. It loads
// configuration, connects to services, sets up routing, and starts the
// HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/ai"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/auth"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/cache"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/config"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/database"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/handlers"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/middleware"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/router"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed the default admin account (no-op if users exist).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Redis for the token revocation list.
	redisClient, err := cache.Connect(cfg.RedisAddr(), cfg.RedisPassword)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	postStore := store.NewPostStore(db)
	tagStore := store.NewTagStore(db)

	// Token issuing, verification, and revocation.
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	revoked := auth.NewRevocationList(redisClient)
	authn := middleware.NewAuthenticator(tokens, revoked, userStore)

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openai":  {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
		"mistral": {APIKey: cfg.MistralKey, Model: cfg.MistralModel, BaseURL: cfg.MistralURL},
	})

	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	// Create handler groups with their dependencies.
	h := router.Handlers{
		Auth:       handlers.NewAuth(userStore, tokens, revoked),
		Users:      handlers.NewUsers(userStore, postStore),
		Categories: handlers.NewCategories(categoryStore),
		Posts:      handlers.NewPosts(postStore, categoryStore, tagStore, userStore),
		Tags:       handlers.NewTags(tagStore),
		AI:         handlers.NewAI(ai.NewAssistant(aiRegistry)),
	}

	// Set up the Chi router with all middleware and routes.
	r := router.New(authn, h)

	// Create the HTTP server with sensible timeouts. WriteTimeout must
	// accommodate AI endpoints that wait on LLM responses.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
