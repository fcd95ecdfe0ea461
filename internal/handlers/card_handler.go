package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-screener/internal/render"
	"alfredoptarigan/resume-screener/internal/repositories"
)

// CardHandler serves the expand/collapse and tab-select actions of a card.
type CardHandler struct {
	sessionRepo repositories.SessionRepository
}

func NewCardHandler(sessionRepo repositories.SessionRepository) *CardHandler {
	return &CardHandler{sessionRepo: sessionRepo}
}

func (h *CardHandler) HandleToggle(c *fiber.Ctx) error {
	sid := sessionID(c)
	cardID := strings.Clone(c.Params("id"))

	err := h.sessionRepo.UpdateCardState(sid, cardID, func(s render.CardState) (render.CardState, error) {
		return s.Toggle(), nil
	})
	if err != nil {
		return cardError(c, err)
	}

	return c.Redirect("/#card-"+cardID, fiber.StatusSeeOther)
}

func (h *CardHandler) HandleSelectTab(c *fiber.Ctx) error {
	sid := sessionID(c)
	cardID := strings.Clone(c.Params("id"))

	tab, err := strconv.Atoi(c.Params("tab"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid tab index",
		})
	}

	err = h.sessionRepo.UpdateCardState(sid, cardID, func(s render.CardState) (render.CardState, error) {
		return s.SelectTab(tab)
	})
	if err != nil {
		return cardError(c, err)
	}

	return c.Redirect("/#card-"+cardID, fiber.StatusSeeOther)
}

func cardError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repositories.ErrCardNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Card not found",
		})
	case errors.Is(err, render.ErrTabOutOfRange):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		return err
	}
}
