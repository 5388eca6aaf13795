package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/marcussmith0/todo-api/internal/config"
	"github.com/marcussmith0/todo-api/internal/database"
	"github.com/marcussmith0/todo-api/internal/domain"
	"github.com/marcussmith0/todo-api/internal/repository"
	"github.com/marcussmith0/todo-api/internal/server"
	"github.com/marcussmith0/todo-api/internal/service"
	"github.com/marcussmith0/todo-api/internal/token"
)

func gracefulShutdown(cfg *config.Config, apiServer *http.Server, dbService database.Service, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	ctxTimeout, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	if dbService != nil {
		if err := dbService.Close(); err != nil {
			log.Printf("Error closing database connection pool: %v", err)
		}
	}

	log.Println("Server exiting")
	done <- true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dbService, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	gormDB := dbService.GetDB()

	// Auto-migrate keeps local development friction-free. Production
	// deployments should run migrations out of band.
	if err := gormDB.AutoMigrate(&domain.User{}, &domain.UserToken{}, &domain.Todo{}); err != nil {
		log.Fatalf("Failed to auto-migrate database: %v", err)
	}

	userRepo := repository.NewGormUserRepository(gormDB)
	todoRepo := repository.NewGormTodoRepository(gormDB)

	codec := token.New(cfg.Auth.Secret)
	userService := service.NewUserService(userRepo, codec)
	todoService := service.NewTodoService(todoRepo)

	apiServer := server.NewServer(cfg, userService, todoService, dbService)

	done := make(chan bool, 1)
	go gracefulShutdown(cfg, apiServer, dbService, done)

	log.Printf("Starting server on %s", apiServer.Addr)
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("HTTP server ListenAndServe error: %v", err)
	}

	<-done
	log.Println("Graceful shutdown complete.")
}
