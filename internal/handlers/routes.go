package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"

	"alfredoptarigan/resume-screener/internal/render"
)

// Handlers groups everything SetupRoutes mounts.
type Handlers struct {
	Dashboard *DashboardHandler
	Cards     *CardHandler
	Render    *RenderHandler
}

func SetupRoutes(app *fiber.App, h Handlers) {
	app.Use("/static", filesystem.New(filesystem.Config{
		Root:   http.FS(render.StaticFS()),
		MaxAge: 3600,
	}))

	app.Get("/", h.Dashboard.HandleIndex)

	dashboard := app.Group(DashboardBasePath)
	dashboard.Post("/fetch", h.Dashboard.HandleFetch)
	dashboard.Post("/email", h.Dashboard.HandleEmail)
	dashboard.Post("/cards/:id/toggle", h.Cards.HandleToggle)
	dashboard.Post("/cards/:id/tabs/:tab", h.Cards.HandleSelectTab)

	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/render", h.Render.HandleRender)
}

// ErrorHandler reports unhandled errors as {"error", "code"} JSON.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
