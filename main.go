package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/pawprint-social/moderation-api/config"
	"github.com/pawprint-social/moderation-api/routes"
	"github.com/pawprint-social/moderation-api/services"
	"github.com/pawprint-social/moderation-api/storage"
)

func main() {
	// Set up logging to stdout
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	// Initialize database
	db := config.InitDB()

	// Audit side-channel: background writer plus a periodic flush of the
	// retry queue.
	audit := services.NewAuditService(storage.NewAuditStore(db))
	audit.Start()
	defer audit.Close()
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if flushed := audit.ProcessQueue(); flushed > 0 {
				log.Printf("audit: flushed %d queued entries", flushed)
			}
		}
	}()

	// Rate limiter: shared store when Redis is configured, process-local
	// otherwise.
	var limiter services.CounterStore = services.NewMemoryCounterStore()
	if rdb := config.InitRedis(); rdb != nil {
		limiter = services.NewRedisCounterStore(rdb)
	}

	// Create a new Gin router
	r := gin.Default()

	// Add logging middleware
	r.Use(gin.LoggerWithWriter(os.Stdout))

	// Initialize routes
	routes.SetupRoutes(r, db, audit, limiter)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	r.Run(":" + port)
}
