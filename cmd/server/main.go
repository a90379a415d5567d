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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/vportnov/go-login-service/internal/config"
	"github.com/vportnov/go-login-service/internal/database"
	"github.com/vportnov/go-login-service/internal/handler"
	"github.com/vportnov/go-login-service/internal/middleware"
	"github.com/vportnov/go-login-service/internal/repository"
	"github.com/vportnov/go-login-service/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Initialize database
	db, err := database.New(context.Background(), cfg.DbURL)
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to connect to database: %v", err))
	}
	defer db.Close()

	// Initialize repositories, services, and handlers
	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, cfg.JwtSecret, cfg.LockoutThreshold, cfg.LockDuration)
	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(authService)

	// Create router with middleware
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RateLimiter())

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Auth routes with strict rate limiting
	r.Group(func(r chi.Router) {
		r.Use(middleware.StrictRateLimiter())
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimiter())
		r.Use(middleware.Authenticator(authService))
		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/users/{username}", profileHandler.GetProfile)
		r.Put("/users/{username}", profileHandler.UpdateProfile)
		r.Post("/admin/users/{username}/unlock", profileHandler.Unlock)
	})

	// Create server with timeouts
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(fmt.Sprintf("Server failed to start: %v", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server is shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	log.Println("Server exited properly")
}
