package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tomlord1122/memo-app/internal/auth"
	"github.com/Tomlord1122/memo-app/internal/config"
	"github.com/Tomlord1122/memo-app/internal/database"
	"github.com/Tomlord1122/memo-app/internal/server"
)

func gracefulShutdown(apiServer *http.Server, dbService database.Service, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The server has 5 seconds to finish the requests it is handling
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Closing database connection pool...")
	if err := dbService.Close(); err != nil {
		log.Printf("Error closing database connection pool: %v", err)
	} else {
		log.Println("Database connection pool closed.")
	}

	log.Println("Server exiting")

	done <- true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// A database that fails to open is not fatal: requests get 503 until restart.
	dbService := database.New(cfg.Database)

	if cfg.Database.AutoMigrate {
		log.Println("Running database auto-migration...")
		if err := dbService.Migrate(); err != nil {
			if !errors.Is(err, database.ErrUnavailable) {
				log.Fatalf("Failed to auto-migrate database: %v", err)
			}
			log.Printf("Skipping auto-migration: %v", err)
		} else {
			log.Println("Database auto-migration complete.")
		}
	}

	apiServer, err := server.NewServer(cfg, dbService)
	if err != nil {
		log.Fatalf("Failed to build server: %v", err)
	}

	log.Printf("Auth gate mode: %s", auth.NewGate(cfg.Auth).Mode())

	done := make(chan bool, 1)

	go gracefulShutdown(apiServer, dbService, done)

	log.Printf("Starting server on %s", apiServer.Addr)
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("HTTP server ListenAndServe error: %v", err)
	}

	<-done
	log.Println("Graceful shutdown complete.")
}
