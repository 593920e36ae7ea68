package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postboard/internal/service"
)

type DashboardHandler struct {
	s service.DashboardService
}

func NewDashboardHandler(service service.DashboardService) *DashboardHandler {
	return &DashboardHandler{s: service}
}

func (h *DashboardHandler) Snapshot(c *fiber.Ctx) error {
	page, err := h.s.Snapshot(c.Context(), GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

// LoadMore answers with the unchanged page and an error field when the
// fetch failed.
func (h *DashboardHandler) LoadMore(c *fiber.Ctx) error {
	page, err := h.s.LoadMore(c.Context(), GetUserID(c))
	if err != nil {
		return c.JSON(fiber.Map{
			"page":  page,
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"page": page})
}

func (h *DashboardHandler) Refresh(c *fiber.Ctx) error {
	page, err := h.s.Refresh(c.Context(), GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

func (h *DashboardHandler) Calendar(c *fiber.Ctx) error {
	from, err := parseTime(c.Query("from"))
	if err != nil {
		return fail(c, err)
	}
	to, err := parseTime(c.Query("to"))
	if err != nil {
		return fail(c, err)
	}

	groups, err := h.s.Calendar(c.Context(), GetUserID(c), from, to)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"items": groups})
}

// parseTime accepts RFC 3339 or a plain date; empty means unbounded.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", s, service.ErrInvalidInput)
	}
	return t, nil
}
