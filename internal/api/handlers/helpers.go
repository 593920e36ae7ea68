package handlers

import (
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postboard/internal/service"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validate = validator.New()
	captions = bluemonday.StrictPolicy()
)

// plainCaption strips markup from a caption. Captions are published as plain
// text, so the sanitizer's entity escaping is undone and text without tags
// is kept as typed.
func plainCaption(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	return html.UnescapeString(captions.Sanitize(s))
}

func GetUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}

// parseBody decodes the JSON body into dst and validates it.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", service.ErrInvalidInput)
	}
	if err := validate.Struct(dst); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			return fmt.Errorf("field %s failed on %s: %w", vErrs[0].Field(), vErrs[0].Tag(), service.ErrInvalidInput)
		}
		return fmt.Errorf("%v: %w", err, service.ErrInvalidInput)
	}
	return nil
}

// fail writes err with the status its kind maps to. Publish failures also
// carry the per-channel results.
func fail(c *fiber.Ctx, err error) error {
	status := service.StatusFor(err)
	if status >= fiber.StatusInternalServerError && status != fiber.StatusBadGateway {
		slog.Error(err.Error(), "path", c.Path())
	}

	body := fiber.Map{"error": err.Error()}

	var perr *service.PublishError
	if errors.As(err, &perr) {
		body["channels"] = channelResults(perr.Results)
	}
	return c.Status(status).JSON(body)
}

func channelResults(results []service.ChannelResult) []fiber.Map {
	out := make([]fiber.Map, 0, len(results))
	for _, r := range results {
		m := fiber.Map{"channel": r.Channel, "ok": r.OK()}
		if r.RemoteID != "" {
			m["remoteId"] = r.RemoteID
		}
		if r.Err != nil {
			m["error"] = r.Err.Error()
		}
		out = append(out, m)
	}
	return out
}
