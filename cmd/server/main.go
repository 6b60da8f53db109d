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

	"brewhaven-backend/internal/config"
	"brewhaven-backend/internal/database"
	"brewhaven-backend/internal/handlers"
	"brewhaven-backend/internal/middleware"
	"brewhaven-backend/internal/repository"
	"brewhaven-backend/internal/router"
	"brewhaven-backend/internal/services"
)

func main() {
	log.Println("☕ Starting BrewHaven Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	roleRepo := repository.NewRoleRepo(pool)
	historyRepo := repository.NewChatHistoryRepo(pool)
	coffeeRepo := repository.NewCoffeeRepo(pool)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.FrontendURL)
	authService := services.NewAuthService(userRepo, redisClient, jwtAuth, emailService)
	geminiService := services.NewGeminiService(cfg.AIAPIKey, cfg.GeminiModel)
	if !geminiService.Configured() {
		log.Println("⚠ AI_API_KEY/GEMINI_API_KEY not set; the coffee-chat relay will answer 500 until it is")
	} else {
		log.Println("✓ Gemini client configured")
	}

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	relayHandler := handlers.NewRelayHandler(geminiService)
	historyHandler := handlers.NewChatHistoryHandler(historyRepo)
	coffeeHandler := handlers.NewCoffeeHandler(coffeeRepo, userRepo, historyRepo)

	// ──── Start HTTP Server ────
	r := router.New(
		jwtAuth,
		middleware.RequireAdmin(roleRepo),
		authHandler,
		relayHandler,
		historyHandler,
		coffeeHandler,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second, // the relay waits on a slow upstream
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

	log.Printf("✓ BrewHaven Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API:   http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  Relay: http://localhost:%s/functions/v1/coffee-chat", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
