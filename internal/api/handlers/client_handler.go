package handlers

import (
	"slices"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"github.com/maheshrc27/postboard/internal/models"
	"github.com/maheshrc27/postboard/internal/service"
	"github.com/maheshrc27/postboard/internal/transfer"
)

type ClientHandler struct {
	s service.ClientService
}

func NewClientHandler(service service.ClientService) *ClientHandler {
	return &ClientHandler{s: service}
}

func (h *ClientHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)

	clients, err := h.s.List(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	sel, err := h.s.Selection(c.Context(), userID)
	if err != nil {
		return fail(c, err)
	}

	resp, err := clientsResponse(clients, sel)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

func (h *ClientHandler) Toggle(c *fiber.Ctx) error {
	sel, err := h.s.Toggle(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sel)
}

func (h *ClientHandler) Update(c *fiber.Ctx) error {
	var req transfer.ClientUpdate
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	userID, id := GetUserID(c), c.Params("id")
	if req.DisplayName != nil {
		if err := h.s.Rename(c.Context(), userID, id, *req.DisplayName); err != nil {
			return fail(c, err)
		}
	}
	if req.Color != nil {
		if err := h.s.SetColor(c.Context(), userID, id, *req.Color); err != nil {
			return fail(c, err)
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ClientHandler) SetFilter(c *fiber.Ctx) error {
	var req transfer.FilterUpdate
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	sel, err := h.s.SetFilter(c.Context(), GetUserID(c), req.ClientID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(sel)
}

func clientsResponse(clients []*models.Client, sel *models.ClientSelection) (*transfer.ClientsResponse, error) {
	resp := &transfer.ClientsResponse{
		Clients:         make([]transfer.ClientResponse, len(clients)),
		SelectedClients: []string{},
	}
	if sel != nil {
		resp.Filter = sel.Filter
		if sel.ClientIDs != nil {
			resp.SelectedClients = sel.ClientIDs
		}
	}

	for i, client := range clients {
		if err := copier.Copy(&resp.Clients[i], client); err != nil {
			return nil, err
		}
		resp.Clients[i].Selected = slices.Contains(resp.SelectedClients, client.ID)
	}
	return resp, nil
}
