package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/puedeser233-alt/SiteSnapAI/internal/models"
	"github.com/puedeser233-alt/SiteSnapAI/pkg/naming"
	"github.com/puedeser233-alt/SiteSnapAI/pkg/utils"
)

type AIHandler struct {
	assistant naming.Assistant
	validator *utils.Validator
}

func NewAIHandler(assistant naming.Assistant) *AIHandler {
	return &AIHandler{
		assistant: assistant,
		validator: utils.NewValidator(),
	}
}

// AnalyzePhoto dosya adı ve açıklama önerir, model hatasında
// fallback isim döner
func (h *AIHandler) AnalyzePhoto(c *fiber.Ctx) error {
	if _, ok := c.Locals("userID").(uint); !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	fileName := h.assistant.SuggestFileName(c.Context(), req.ImageData)
	if fileName == "" {
		fileName = naming.FallbackFileName(time.Now())
	}

	description := h.assistant.SuggestDescription(c.Context(), req.ImageData)

	return c.JSON(models.SuccessResponse(models.AnalyzeResponse{
		FileName:    fileName,
		Description: description,
	}, ""))
}
