package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"statefin-backend/internal/adapters/http/middleware"
	"statefin-backend/internal/adapters/http/routes"
	"statefin-backend/internal/adapters/persistence/models"
	"statefin-backend/internal/config"
	"statefin-backend/internal/jobs"

	"github.com/gofiber/fiber/v2"

	_ "statefin-backend/docs" // Swagger docs
)

// @title StateFin API
// @version 1.0
// @description Access control and multilingual reference data for financial decision tracking

// @contact.name API Support

// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed permissions, roles and demo accounts
	if cfg.SeedOnStartup {
		if err := config.NewSeeder(db, cfg.BcryptCost).Run(); err != nil {
			log.Fatalf("❌ Failed to seed database: %v", err)
		}
	}

	// Redis is optional; without it the rate limiters count in memory
	rdb, err := config.ConnectRedis(context.Background(), cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to redis: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// Periodic dependency checks for /health
	checks := map[string]jobs.Check{"database": config.HealthCheck}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return config.PingRedis(ctx, rdb) }
	}
	monitor := jobs.NewHealthMonitor(cfg.HealthCron, checks)
	if err := monitor.Start(); err != nil {
		log.Fatalf("❌ Failed to start health monitor: %v", err)
	}
	defer monitor.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "StateFin API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	storage := middleware.NewRedisStorage(rdb)
	middleware.Setup(app, cfg, storage)

	// Setup routes
	table := routes.Setup(app, db, cfg, monitor, storage)
	log.Printf("✅ %d guarded routes registered", len(table))

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
