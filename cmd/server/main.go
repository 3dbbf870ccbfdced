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

	"flashdeck-backend/internal/config"
	"flashdeck-backend/internal/database"
	"flashdeck-backend/internal/handlers"
	"flashdeck-backend/internal/middleware"
	"flashdeck-backend/internal/repository"
	"flashdeck-backend/internal/router"
	"flashdeck-backend/internal/services"
	"flashdeck-backend/internal/session"
)

func main() {
	log.Println("🚀 Starting Flashdeck Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize Redis ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	sessionTTL := time.Duration(cfg.SessionTTLHours) * time.Hour

	// ──── Initialize Repositories ────
	stateRepo := repository.NewStateRepo(redisClient, sessionTTL)

	// ──── Initialize Services ────
	auth := middleware.NewSessionAuth(cfg.JWTSecret, sessionTTL)
	geminiService := services.NewGeminiService(cfg.GeminiModel)
	docsService := services.NewDocsService(cfg.DocsPath, cfg.MetadataPath)
	sessions := session.NewManager(sessionTTL)
	log.Println("✓ Services initialized")

	// ──── Initialize Handlers ────
	sessionHandler := handlers.NewSessionHandler(auth, stateRepo)
	stateHandler := handlers.NewStateHandler(sessions, stateRepo, geminiService)
	importExportHandler := handlers.NewImportExportHandler(sessions, stateRepo)
	quizHandler := handlers.NewQuizHandler(sessions, stateRepo, geminiService)
	zoomHandler := handlers.NewZoomHandler(sessions, stateRepo)
	metaHandler := handlers.NewMetaHandler(docsService)

	// ──── Start HTTP Server ────
	r := router.New(
		auth,
		sessionHandler,
		stateHandler,
		importExportHandler,
		quizHandler,
		zoomHandler,
		metaHandler,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Flashdeck Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
