package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postboard/internal/service"
	"github.com/maheshrc27/postboard/internal/transfer"
)

// ApprovalHandler serves the public approval page; the token in the path is
// the only credential.
type ApprovalHandler struct {
	s service.ApprovalService
}

func NewApprovalHandler(service service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{s: service}
}

func (h *ApprovalHandler) Get(c *fiber.Ctx) error {
	post, err := h.s.Resolve(c.Context(), c.Params("token"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}

func (h *ApprovalHandler) Approve(c *fiber.Ctx) error {
	post, err := h.s.Approve(c.Context(), c.Params("token"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}

func (h *ApprovalHandler) Reject(c *fiber.Ctx) error {
	post, err := h.s.Reject(c.Context(), c.Params("token"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}

func (h *ApprovalHandler) EditContent(c *fiber.Ctx) error {
	var req transfer.ContentUpdate
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	post, err := h.s.EditContent(c.Context(), c.Params("token"), plainCaption(req.Content))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}
