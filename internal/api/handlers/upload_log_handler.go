package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/postloom/postloom/internal/queue"
	"github.com/postloom/postloom/internal/service"
	"github.com/postloom/postloom/internal/transfer"
)

type UploadLogHandler struct {
	s           service.UploadLogService
	AsynqClient *asynq.Client
}

func NewUploadLogHandler(service service.UploadLogService, asynqClient *asynq.Client) *UploadLogHandler {
	return &UploadLogHandler{s: service, AsynqClient: asynqClient}
}

func (h *UploadLogHandler) ListUploadLogs(c *fiber.Ctx) error {
	userId := GetUserID(c)
	postId := c.QueryInt("post_id", 0)

	if postId == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "post_id is required",
		})
	}

	logs, err := h.s.List(c.Context(), userId, int64(postId))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list upload logs",
		})
	}

	return c.Status(fiber.StatusOK).JSON(logs)
}

func (h *UploadLogHandler) RetryUpload(c *fiber.Ctx) error {
	userId := GetUserID(c)

	var req transfer.RetryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse json",
		})
	}

	ul, err := h.s.GetForRetry(c.Context(), userId, req.UploadLogID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	err = queue.EnqueueRetry(h.AsynqClient, queue.RetryUploadPayload{UploadLogID: ul.ID})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error scheduling retry",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Retry scheduled",
	})
}
