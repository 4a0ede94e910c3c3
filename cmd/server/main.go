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

	"heroworld/internal/catalog"
	"heroworld/internal/config"
	"heroworld/internal/database"
	"heroworld/internal/handlers"
	"heroworld/internal/progress"
	"heroworld/internal/repository"
	"heroworld/internal/security"
	"heroworld/internal/service"
	"heroworld/internal/story"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	// Initialize repositories
	progressRepo := repository.NewProgressRepository(db)
	resultRepo := repository.NewSessionResultRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	manager := progress.NewManager(openProgressStore(ctx, cfg, progressRepo))

	var gen story.Generator
	if cfg.StoryEnabled() {
		gen = story.NewClient(cfg.StoryAPIURL, cfg.StoryAPIKey, cfg.StoryModel, cfg.StoryTimeout)
		log.Printf("Story generation enabled (model: %s)", cfg.StoryModel)
	} else {
		log.Println("STORY_API_KEY not set, story and phrase requests use built-in fallbacks")
	}

	// Initialize services
	progressService := service.NewProgressService(manager, progressRepo, settingsRepo, resultRepo, cat)
	gameService := service.NewGameService(progressService, resultRepo, gen, cfg.SessionIdleTimeout)

	if err := progressService.InitParentPIN(ctx, cfg.ParentPIN); err != nil {
		log.Printf("Warning: failed to set parent PIN: %v", err)
	}

	scheduler, err := gameService.StartSweeper(cfg.SweepInterval)
	if err != nil {
		log.Fatalf("Failed to start session sweeper: %v", err)
	}

	secret := cfg.TokenSecret
	if secret == "" {
		log.Println("Warning: TOKEN_SECRET not set, player tokens will not survive a restart")
		secret = security.NewID()
	}
	tokens := security.NewTokenIssuer(secret, cfg.TokenDuration)
	csrf := security.NewCSRFGenerator(secret)
	storyLimiter := security.NewRateLimiter(cfg.StoryRateLimit, time.Minute)

	mux := handlers.NewRouter(
		handlers.NewPlayerHandler(progressService, gameService, tokens, csrf),
		handlers.NewSessionHandler(gameService),
		handlers.NewMiddleware(tokens, csrf),
		storyLimiter,
	)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	server := &http.Server{
		Addr:    addr,
		Handler: handlers.Logging(mux),
		// No WriteTimeout: session streams stay open for the whole game
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scheduler.Stop()
	gameService.Shutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	storyLimiter.Close()

	log.Println("Server stopped")
}

// openProgressStore picks the progress backend. A redis that cannot be
// reached falls back to the SQL store.
func openProgressStore(ctx context.Context, cfg *config.Config, repo *repository.ProgressRepository) progress.Store {
	switch cfg.ProgressBackend {
	case config.BackendMemory:
		log.Println("Progress is kept in memory only")
		return nil
	case config.BackendRedis:
		client, err := progress.NewRedisClient(ctx, cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Printf("Warning: %v, falling back to the database", err)
			return progress.NewSQLStore(repo)
		}
		log.Printf("Progress stored in redis at %s", cfg.RedisAddress)
		return progress.NewRedisStore(client)
	default:
		return progress.NewSQLStore(repo)
	}
}
