package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elvinq/branchfeedback/backend/internal/adapters/cache"
	"github.com/elvinq/branchfeedback/backend/internal/adapters/database"
	"github.com/elvinq/branchfeedback/backend/internal/adapters/events"
	"github.com/elvinq/branchfeedback/backend/internal/adapters/search"
	"github.com/elvinq/branchfeedback/backend/internal/api/handlers"
	"github.com/elvinq/branchfeedback/backend/internal/api/middleware"
	"github.com/elvinq/branchfeedback/backend/internal/api/routes"
	"github.com/elvinq/branchfeedback/backend/internal/application/services"
	"github.com/elvinq/branchfeedback/backend/internal/domain/providers"
	"github.com/elvinq/branchfeedback/backend/internal/domain/repositories"
	"github.com/elvinq/branchfeedback/backend/internal/infrastructure/clients/bankapi"
	"github.com/elvinq/branchfeedback/backend/internal/infrastructure/clients/postgres"
	"github.com/elvinq/branchfeedback/backend/internal/infrastructure/clients/redis"
	"github.com/elvinq/branchfeedback/backend/internal/infrastructure/clients/typesense"
	"github.com/elvinq/branchfeedback/backend/internal/infrastructure/observability"
	"github.com/elvinq/branchfeedback/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		redisClient = nil
		// Continue without Redis - the application can work without caching
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	// Initialize Typesense client
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Warning: Failed to initialize Typesense client: %v", err)
		typesenseClient = nil
	} else {
		log.Println("Typesense client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize adapters

	baseBranchAdapter := database.NewBranchAdapter(pgClient)

	// Wrap with caching if Redis is available
	var branchAdapter repositories.BranchRepository
	if cacheProvider != nil {
		branchAdapter = database.NewCachedBranchAdapter(baseBranchAdapter, cacheProvider)
		log.Println("Branch adapter wrapped with caching layer")
	} else {
		branchAdapter = baseBranchAdapter
		log.Println("Branch adapter running without cache (Redis unavailable)")
	}

	feedbackAdapter := database.NewFeedbackAdapter(pgClient)

	var searchRepo repositories.BranchSearchRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)

		// Ensure schema exists
		if err := adapter.InitSchema(context.Background()); err != nil {
			log.Printf("Warning: Failed to init Typesense schema: %v", err)
		}
		searchRepo = adapter
	}

	// Initialize event bus for real-time updates
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Println("Event bus initialized successfully")
	} else {
		log.Println("Event bus disabled (Redis not available)")
	}

	// Initialize services

	feedClient := bankapi.NewClient(cfg.BankAPI.BaseURL, cfg.BankAPI.Origin)

	syncService := services.NewBranchSyncService(feedClient, branchAdapter)
	syncService.SetMetrics(metrics)
	if searchRepo != nil {
		syncService.SetSearchRepository(searchRepo)
	}
	if eventBus != nil {
		syncService.SetEventBus(eventBus)
	}

	branchService := services.NewBranchService(branchAdapter, cfg.Public.BaseURL)
	if searchRepo != nil {
		branchService.SetSearchRepository(searchRepo)
	}

	feedbackService := services.NewFeedbackService(feedbackAdapter, branchAdapter)
	if eventBus != nil {
		feedbackService.SetEventBus(eventBus)
	}

	// Initialize handlers

	branchHandler := handlers.NewBranchHandler(branchService)
	syncHandler := handlers.NewBranchSyncHandler(syncService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService, cacheProvider)

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Println("Cache middleware initialized successfully")
	}

	// Set up router
	router := routes.NewRouter(
		branchHandler,
		syncHandler,
		feedbackHandler,
		cacheMiddleware,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Printf("Error closing event bus: %v", err)
		}
	}

	log.Println("Server stopped")
}
