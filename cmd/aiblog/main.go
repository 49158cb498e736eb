// Package main is the entry point for the blog server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aiblog/internal/ai"
	"aiblog/internal/cache"
	"aiblog/internal/config"
	"aiblog/internal/database"
	"aiblog/internal/feedback"
	"aiblog/internal/generator"
	"aiblog/internal/handlers"
	"aiblog/internal/listing"
	"aiblog/internal/render"
	"aiblog/internal/router"
	"aiblog/internal/session"
	"aiblog/internal/store"
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

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (sessions + rendered-fragment cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyAddr(), cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	sessionStore := session.NewStore(valkeyClient)
	fragments := cache.NewFragmentCache(valkeyClient, cache.DefaultFragmentTTL)

	// Initialize the HTML template renderer.
	renderer, err := render.New(cfg.Site)
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Initialize data stores.
	articleStore := store.NewArticleStore(db)
	categoryStore := store.NewCategoryStore(db)
	userStore := store.NewUserStore(db)
	profileStore := store.NewProfileStore(db)
	contactStore := store.NewContactStore(db)
	credentialStore := store.NewCredentialStore(db)

	// Initialize the AI provider registry. API keys live in the database
	// and are resolved per call by the generation client.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"gemini": {Model: cfg.AIModel},
		"openai": {Model: cfg.AIModel},
	})

	slog.Info("ai providers initialized", "active", aiRegistry.ActiveName())

	// Domain services.
	generatorClient := generator.New(aiRegistry, credentialStore)
	listingService := listing.NewService(articleStore)
	feedbackService := feedback.New(articleStore)

	// Create handler groups with their dependencies.
	publicHandlers := handlers.NewPublic(cfg.Site, renderer, articleStore, categoryStore,
		profileStore, contactStore, listingService, feedbackService, fragments)
	authHandlers := handlers.NewAuth(renderer, userStore, sessionStore)
	adminHandlers := handlers.NewAdmin(renderer, articleStore, categoryStore, contactStore,
		generatorClient, fragments)

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessionStore, publicHandlers, authHandlers, adminHandlers)

	// Create the HTTP server with sensible timeouts.
	// WriteTimeout must accommodate the generation endpoint, which waits
	// on the AI provider inline (typically 10-30s, up to 90s).
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 120 * time.Second,
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
