package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postboard/internal/models"
	"github.com/maheshrc27/postboard/internal/service"
	"github.com/maheshrc27/postboard/internal/transfer"
)

type PostHandler struct {
	s         service.PostService
	workflows service.WorkflowService
}

func NewPostHandler(posts service.PostService, workflows service.WorkflowService) *PostHandler {
	return &PostHandler{
		s:         posts,
		workflows: workflows,
	}
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	var req transfer.PostCreation
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	req.Content = plainCaption(req.Content)

	post, err := h.workflows.Create(c.Context(), GetUserID(c), &req)
	if err != nil {
		if post != nil {
			// created, but the immediate publish failed
			return c.Status(service.StatusFor(err)).JSON(fiber.Map{
				"error": err.Error(),
				"post":  post,
			})
		}
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	post, err := h.owned(c)
	if err != nil {
		return fail(c, err)
	}

	history, err := h.s.History(c.Context(), post.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"post":    post,
		"history": history,
	})
}

func (h *PostHandler) UpdateStatus(c *fiber.Ctx) error {
	post, err := h.owned(c)
	if err != nil {
		return fail(c, err)
	}

	var req transfer.StatusUpdate
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	updated, err := h.s.UpdateStatus(c.Context(), post.ID, req.Status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(updated)
}

func (h *PostHandler) UpdateContent(c *fiber.Ctx) error {
	post, err := h.owned(c)
	if err != nil {
		return fail(c, err)
	}

	var req transfer.ContentUpdate
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	updated, err := h.s.UpdateContent(c.Context(), post.ID, plainCaption(req.Content))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(updated)
}

func (h *PostHandler) Publish(c *fiber.Ctx) error {
	post, err := h.owned(c)
	if err != nil {
		return fail(c, err)
	}

	results, err := h.s.Publish(c.Context(), post)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"post":     post,
		"channels": channelResults(results),
	})
}

// owned loads the :id post and hides posts of other users behind NotFound.
func (h *PostHandler) owned(c *fiber.Ctx) (*models.Post, error) {
	post, err := h.s.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return nil, err
	}
	if post.UserID != GetUserID(c) {
		return nil, fmt.Errorf("post %s: %w", post.ID, service.ErrNotFound)
	}
	return post, nil
}
