package handlers

import (
	"bytes"
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/render"
	"alfredoptarigan/resume-screener/internal/services"
)

// RenderHandler turns a posted candidate list into card markup without
// touching any session.
type RenderHandler struct {
	validator services.ResponseValidator
	renderer  *render.PageRenderer
	builder   *render.CardBuilder
}

func NewRenderHandler(validator services.ResponseValidator, renderer *render.PageRenderer) *RenderHandler {
	return &RenderHandler{
		validator: validator,
		renderer:  renderer,
		builder:   render.NewCardBuilder(DashboardBasePath),
	}
}

func (h *RenderHandler) HandleRender(c *fiber.Ctx) error {
	body := c.Body()
	if err := h.validator.ValidateFetchResponse(body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid candidate payload",
			"details": err.Error(),
		})
	}

	var req models.RenderRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	var buf bytes.Buffer
	if err := h.renderer.RenderCards(&buf, h.builder.BuildCards(req.Candidates)); err != nil {
		log.Printf("❌ Failed to render cards: %v\n", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to render cards")
	}

	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
