package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/postloom/postloom/internal/service"
	"github.com/postloom/postloom/internal/transfer"
)

type ClientHandler struct {
	s service.ClientService
}

func NewClientHandler(service service.ClientService) *ClientHandler {
	return &ClientHandler{s: service}
}

func (h *ClientHandler) CreateClient(c *fiber.Ctx) error {
	userId := GetUserID(c)

	var client transfer.ClientCreation
	if err := c.BodyParser(&client); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	clientID, err := h.s.Create(c.Context(), userId, client.Name, client.Company)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to create client",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id": clientID,
	})
}

func (h *ClientHandler) ListClients(c *fiber.Ctx) error {
	userId := GetUserID(c)
	clientId := c.QueryInt("id", 0)

	if clientId != 0 {
		client, err := h.s.ClientInfo(c.Context(), userId, int64(clientId))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unable to get client info",
			})
		}
		return c.Status(fiber.StatusOK).JSON(client)
	}

	clients, err := h.s.List(c.Context(), userId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list clients",
		})
	}

	return c.Status(fiber.StatusOK).JSON(clients)
}

func (h *ClientHandler) RemoveClient(c *fiber.Ctx) error {
	userId := GetUserID(c)
	clientId := c.QueryInt("id", 0)

	err := h.s.Remove(c.Context(), userId, int64(clientId))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to remove client",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
