package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/puedeser233-alt/SiteSnapAI/internal/models"
	"github.com/puedeser233-alt/SiteSnapAI/internal/service"
	"github.com/puedeser233-alt/SiteSnapAI/pkg/utils"
)

type ProjectHandler struct {
	projectService *service.ProjectService
	validator      *utils.Validator
}

func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		validator:      utils.NewValidator(),
	}
}

func (h *ProjectHandler) CreateProject(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	var req models.ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	project, err := h.projectService.CreateProject(userID, req)
	if err != nil {
		if errors.Is(err, service.ErrPlanLimit) {
			return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("Project limit reached for your plan"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("Could not create project"))
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(project, "Project created"))
}

func (h *ProjectHandler) GetMyProjects(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	projects, err := h.projectService.GetUserProjects(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("Could not fetch projects"))
	}

	return c.JSON(models.SuccessResponse(projects, ""))
}

func (h *ProjectHandler) GetProject(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid project ID"))
	}

	project, err := h.projectService.GetProject(userID, projectID)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("You do not have access to this project"))
		}
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Project not found"))
	}

	return c.JSON(models.SuccessResponse(project, ""))
}

func (h *ProjectHandler) UpdateProject(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid project ID"))
	}

	var req models.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	project, err := h.projectService.UpdateProject(userID, projectID, req)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("You do not have access to this project"))
		}
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Project not found"))
	}

	return c.JSON(models.SuccessResponse(project, "Project updated"))
}

func (h *ProjectHandler) DeleteProject(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid project ID"))
	}

	if err := h.projectService.DeleteProject(userID, projectID); err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("You do not have access to this project"))
		}
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Project not found"))
	}

	return c.JSON(models.SuccessResponse(nil, "Project deleted"))
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
