package handlers

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postboard/internal/models"
	"github.com/maheshrc27/postboard/internal/service"
)

const maxUploadFiles = 10

type MediaHandler struct {
	s service.MediaService
}

func NewMediaHandler(service service.MediaService) *MediaHandler {
	return &MediaHandler{s: service}
}

func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse form",
		})
	}

	files := form.File["files"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No files selected",
		})
	}
	if len(files) > maxUploadFiles {
		return fail(c, fmt.Errorf("at most %d files: %w", maxUploadFiles, service.ErrInvalidInput))
	}

	media := make([]models.MediaFile, 0, len(files))
	for _, file := range files {
		f, err := file.Open()
		if err != nil {
			return fail(c, fmt.Errorf("error opening file: %w", err))
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return fail(c, fmt.Errorf("error reading file content: %w", err))
		}

		m, err := h.s.Upload(c.Context(), data)
		if err != nil {
			return fail(c, err)
		}
		media = append(media, *m)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"media": media})
}
