// server.go
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/config"
	"github.com/Abraxas-365/hireflow/pkg/fiberx"
	"github.com/Abraxas-365/hireflow/pkg/logx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load .env (optional) and configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Logger
	logx.Configure(cfg.IsDevelopment())
	logx.SetLevel(logx.ParseLevel(cfg.Server.LogLevel))
	defer func() { _ = logx.Sync() }()

	logx.Info("🚀 Starting HireFlow API Server...")
	logx.Infof("Environment: %s, interview time zone: %s", cfg.Environment, cfg.Interview.Location())

	// 3. Dependency container
	container := NewContainer(cfg)
	defer container.Cleanup()

	// 4. Background services
	container.StartBackgroundServices()

	// 5. Fiber app
	app := fiber.New(fiber.Config{
		AppName:               "HireFlow API",
		DisableStartupMessage: true,
		ErrorHandler:          fiberx.ErrorHandler(cfg.IsDevelopment()),
		BodyLimit:             1 * 1024 * 1024,
		IdleTimeout:           120 * time.Second,
	})

	// 6. Global middleware
	setupMiddleware(app, container)

	// 7. Health, info and metrics
	app.Get("/health", healthCheckHandler(container))
	app.Get("/", infoHandler(cfg))
	app.Get("/metrics", container.Metrics.Handler())

	// 8. Routes
	registerRoutes(app, container)

	// 9. 404
	app.Use(notFoundHandler)

	printRouteSummary()

	// 10. Serve until signalled
	startServer(app, cfg)
}

// ============================================================================
// Setup Functions
// ============================================================================

func setupMiddleware(app *fiber.App, container *Container) {
	cfg := container.Config

	app.Use(recover.New(recover.Config{
		EnableStackTrace: cfg.IsDevelopment(),
	}))

	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))

	corsOrigins := "*"
	if len(cfg.Server.CORSOrigins) > 0 {
		corsOrigins = strings.Join(cfg.Server.CORSOrigins, ",")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:     "GET, POST, PUT, DELETE, HEAD, OPTIONS",
		AllowCredentials: corsOrigins != "*",
		ExposeHeaders:    "X-Request-ID",
	}))

	logFormat := "${time} | ${status} | ${latency} | ${method} ${path}"
	if cfg.IsDevelopment() {
		logFormat += " | ${ip} | ${locals:requestid}\n"
	} else {
		logFormat += "\n"
	}
	app.Use(logger.New(logger.Config{
		Format:     logFormat,
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   cfg.Interview.Location().String(),
	}))

	app.Use(container.Metrics.Middleware())
}

func registerRoutes(app *fiber.App, container *Container) {
	logx.Info("📝 Registering routes...")

	api := app.Group("/api/v1")

	// /api/v1/auth/me, /api/v1/auth/scopes
	container.AuthHandlers.RegisterRoutes(api, container.AuthMiddleware)

	// /api/v1/interviews/*, /api/v1/reviews/*
	container.InterviewHandlers.RegisterRoutes(api, container.AuthMiddleware)

	// /api/v1/assistant/*
	container.AssistantHandlers.RegisterRoutes(api, container.AuthMiddleware)

	logx.Info("✅ All routes registered")
}

// ============================================================================
// Handler Functions
// ============================================================================

func healthCheckHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := fiber.Map{
			"status":      "healthy",
			"service":     "hireflow-api",
			"environment": container.Config.Environment,
			"timestamp":   time.Now().Unix(),
		}

		if err := container.DB.PingContext(c.UserContext()); err != nil {
			health["db"] = "unhealthy"
			health["db_error"] = err.Error()
			health["status"] = "degraded"
		} else {
			health["db"] = "healthy"
		}

		if container.Redis != nil {
			if err := container.Redis.Ping(c.UserContext()).Err(); err != nil {
				health["redis"] = "unhealthy"
				health["redis_error"] = err.Error()
				health["status"] = "degraded"
			} else {
				health["redis"] = "healthy"
			}
		}

		status := fiber.StatusOK
		if health["status"] == "degraded" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(health)
	}
}

func infoHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":     "HireFlow API",
			"version":     "1.0.0",
			"description": "Interview scheduling and review for recruitment teams",
			"environment": cfg.Environment,
			"time_zone":   cfg.Interview.Location().String(),
			"features": fiber.Map{
				"reminders": cfg.Interview.ReminderEnabled,
				"assistant": cfg.AI.Enabled(),
			},
			"endpoints": fiber.Map{
				"health":     "/health",
				"metrics":    "/metrics",
				"interviews": "/api/v1/interviews",
				"reviews":    "/api/v1/reviews",
				"assistant":  "/api/v1/assistant/chat",
			},
		})
	}
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":      "Route not found",
		"code":       "NOT_FOUND",
		"path":       c.Path(),
		"method":     c.Method(),
		"request_id": fiberx.RequestID(c),
	})
}

// ============================================================================
// Server
// ============================================================================

func printRouteSummary() {
	logx.Info("📋 Route Summary:")
	logx.Info("   ├─ Health: /health")
	logx.Info("   ├─ Metrics: /metrics")
	logx.Info("   ├─ Auth: /api/v1/auth/*")
	logx.Info("   ├─ Interviews: /api/v1/interviews/*")
	logx.Info("   ├─ Reviews: /api/v1/reviews/*")
	logx.Info("   └─ Assistant: /api/v1/assistant/*")
}

func startServer(app *fiber.App, cfg *config.Config) {
	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	go func() {
		logx.Infof("🚀 Server listening on %s", addr)
		logx.Infof("💚 Health Check: http://localhost%s/health", addr)
		if err := app.Listen(addr); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	logx.Infof("🛑 Received signal: %v", sig)
	logx.Info("Shutting down gracefully...")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}
	logx.Info("✅ Server exited successfully")
}
