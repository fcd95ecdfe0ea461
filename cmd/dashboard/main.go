package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/handlers"
	"alfredoptarigan/resume-screener/internal/render"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	sessionRepo := repositories.NewSessionRepository()
	log.Println("✅ Session store initialized")

	validator, err := services.NewResponseValidator()
	if err != nil {
		log.Fatalf("❌ Failed to load response schema: %v", err)
	}
	backend := services.NewBackendService(cfg.Backend.URL, nil, validator)
	log.Printf("✅ Backend client ready (%s)\n", cfg.Backend.URL)

	renderer, err := render.NewPageRenderer()
	if err != nil {
		log.Fatalf("❌ Failed to parse templates: %v", err)
	}

	janitor := services.NewJanitor(sessionRepo, cfg.Session.TTL, cfg.Session.SweepInterval)
	janitor.Start(context.Background())

	h := handlers.Handlers{
		Dashboard: handlers.NewDashboardHandler(sessionRepo, backend, renderer, cfg),
		Cards:     handlers.NewCardHandler(sessionRepo),
		Render:    handlers.NewRenderHandler(validator, renderer),
	}
	log.Println("✅ Handlers initialized")

	app := fiber.New(fiber.Config{
		AppName:      "Resume Screener Dashboard",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		BodyLimit:    cfg.Server.MaxBodySize,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	handlers.SetupRoutes(app, h)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		janitor.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Dashboard starting on %s (%s)\n", addr, cfg.Server.Env)
	if cfg.IsDevelopment() {
		log.Printf("📖 Open http://localhost%s\n", addr)
	}

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
