package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"inspection-api/interfaces/api/handlers"
	"inspection-api/interfaces/api/middleware"
	"inspection-api/interfaces/api/routes"
	"inspection-api/pkg/di"
	"inspection-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := logger.Init("logs", true); err != nil {
		fmt.Printf("Warning: Failed to initialize logger: %v\n", err)
	}
	logger.Startup("logger_init", "Logger initialized - logs will be written to ./logs/", nil)

	container := di.NewContainer()
	if err := container.Initialize(); err != nil {
		logger.StartupError("container_init_failed", "Failed to initialize container", err, nil)
		os.Exit(1)
	}
	cfg := container.GetConfig()

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
		AppName:      cfg.App.Name,
		BodyLimit:    25 << 20,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.CorsMiddleware(cfg.App.FrontendURL))

	h := handlers.NewHandlers(container.GetHandlerServices(), container.GetHealthHandler(), cfg)
	routes.SetupRoutes(app, h, container.GetRouteDeps(), cfg)

	setupGracefulShutdown(app, container)

	port := cfg.App.Port
	logger.Startup("server_starting", "Server starting", map[string]interface{}{
		"port":        port,
		"environment": cfg.App.Env,
		"health":      fmt.Sprintf("http://localhost:%s/health", port),
		"api":         fmt.Sprintf("http://localhost:%s/api/v1", port),
		"websocket":   fmt.Sprintf("ws://localhost:%s/ws", port),
	})

	if err := app.Listen(":" + port); err != nil {
		logger.StartupError("server_failed", "Server failed to start", err, nil)
		os.Exit(1)
	}
}

func setupGracefulShutdown(app *fiber.App, container *di.Container) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Startup("shutdown_started", "Gracefully shutting down", nil)

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(ctx); err != nil {
			logger.StartupError("server_shutdown_failed", "Error stopping server", err, nil)
		}

		if err := container.Cleanup(); err != nil {
			logger.StartupError("cleanup_failed", "Error during cleanup", err, nil)
		}

		logger.Startup("shutdown_complete", "Shutdown complete", nil)
		logger.Sync()
		os.Exit(0)
	}()
}
