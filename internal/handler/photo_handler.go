package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/puedeser233-alt/SiteSnapAI/internal/models"
	"github.com/puedeser233-alt/SiteSnapAI/internal/service"
	"github.com/puedeser233-alt/SiteSnapAI/pkg/storage"
	"github.com/puedeser233-alt/SiteSnapAI/pkg/utils"
)

type PhotoHandler struct {
	photoService *service.PhotoService
	validator    *utils.Validator
}

func NewPhotoHandler(photoService *service.PhotoService) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
		validator:    utils.NewValidator(),
	}
}

func (h *PhotoHandler) UploadPhoto(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	var req models.UploadPhotoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	resp, err := h.photoService.UploadPhoto(c.Context(), userID, req)
	if err != nil {
		return h.uploadErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(resp, "Photo uploaded"))
}

// uploadErrorResponse pipeline hatalarını HTTP durumlarına çevirir
func (h *PhotoHandler) uploadErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrMissingInput):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Missing required photo data"))
	case errors.Is(err, service.ErrStorageNotConnected):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Google Drive is not connected"))
	case errors.Is(err, service.ErrUnauthorized):
		return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("You do not have access to this project"))
	case errors.Is(err, service.ErrPlanLimit):
		return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("Photo limit reached for your plan"))
	case errors.Is(err, storage.ErrAuth):
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Google Drive authorization expired, please reconnect"))
	case errors.Is(err, service.ErrUploadFailed):
		return c.Status(fiber.StatusBadGateway).JSON(models.ErrorResponse("Could not upload photo to Google Drive"))
	case errors.Is(err, service.ErrPersistence):
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("Photo was uploaded but could not be saved, please retry"))
	}
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("Could not process photo"))
}

func (h *PhotoHandler) GetProjectPhotos(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid project ID"))
	}

	photos, err := h.photoService.GetProjectPhotos(userID, projectID)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("You do not have access to this project"))
		}
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Project not found"))
	}

	return c.JSON(models.SuccessResponse(photos, ""))
}

func (h *PhotoHandler) DeletePhoto(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	photoID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid photo ID"))
	}

	if err := h.photoService.DeletePhoto(c.Context(), userID, photoID); err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("You do not have access to this photo"))
		}
		if errors.Is(err, storage.ErrAuth) {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Google Drive authorization expired, please reconnect"))
		}
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Photo not found"))
	}

	return c.JSON(models.SuccessResponse(nil, "Photo deleted"))
}
