/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the policy-impact simulation server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Pick the result cache (in-process memory, or Redis if -redis is set)
  4. Create API handler with dependencies
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: impact.db)
           Use ":memory:" for in-memory database
  -redis   Redis address for the shared result cache (e.g. localhost:6379).
           Empty means the in-process memory cache.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database and in-process cache
  ./server -db="./data/impact.db"

  # Run with an in-memory database
  ./server -db=":memory:"

  # Run with a shared Redis cache
  ./server -redis=localhost:6379

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/impact-engine/api"
	"github.com/warp/impact-engine/cache"
	"github.com/warp/impact-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "impact.db", "SQLite database path")
	redisAddr := flag.String("redis", "", "Redis address for the result cache (empty = in-process)")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Pick the cache backend
	var resultCache cache.Service
	if *redisAddr != "" {
		redisCache := cache.NewRedis(*redisAddr)
		defer redisCache.Close()
		resultCache = redisCache
		log.Printf("Using Redis result cache at %s", *redisAddr)
	} else {
		mem := cache.NewMemory()
		resultCache = mem

		// The memory cache needs a periodic sweep for expired entries.
		sweep := time.NewTicker(time.Minute)
		defer sweep.Stop()
		go func() {
			for range sweep.C {
				if err := mem.Cleanup(context.Background()); err != nil {
					log.Printf("Cache cleanup failed: %v", err)
				}
			}
		}()
	}

	// Initialize handler and router
	handler := api.NewHandler(store, resultCache)
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
