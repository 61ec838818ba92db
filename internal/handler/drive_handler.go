package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/puedeser233-alt/SiteSnapAI/internal/models"
	"github.com/puedeser233-alt/SiteSnapAI/internal/service"
)

type DriveHandler struct {
	driveService *service.DriveService
	appURL       string
	logger       *zap.Logger
}

func NewDriveHandler(driveService *service.DriveService, appURL string, logger *zap.Logger) *DriveHandler {
	return &DriveHandler{
		driveService: driveService,
		appURL:       appURL,
		logger:       logger,
	}
}

func (h *DriveHandler) GetAuthURL(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	url := h.driveService.GetAuthURL(userID)
	return c.JSON(models.SuccessResponse(fiber.Map{"url": url}, ""))
}

// HandleCallback Google'dan dönen OAuth yönlendirmesini işler ve
// kullanıcıyı uygulamaya geri gönderir
func (h *DriveHandler) HandleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")

	if errParam := c.Query("error"); errParam != "" {
		h.logger.Warn("drive authorization denied", zap.String("error", errParam))
		return c.Redirect(h.appURL + "/?drive_error=access_denied")
	}

	if code == "" || state == "" {
		return c.Redirect(h.appURL + "/?drive_error=invalid_callback")
	}

	if err := h.driveService.HandleCallback(c.Context(), code, state); err != nil {
		h.logger.Error("drive callback failed", zap.Error(err))
		return c.Redirect(h.appURL + "/?drive_error=connection_failed")
	}

	return c.Redirect(h.appURL + "/?drive_connected=true")
}

func (h *DriveHandler) Disconnect(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	if err := h.driveService.Disconnect(userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("Could not disconnect Google Drive"))
	}

	return c.JSON(models.SuccessResponse(nil, "Google Drive disconnected"))
}
