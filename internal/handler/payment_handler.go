package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74/webhook"
	"go.uber.org/zap"

	"github.com/puedeser233-alt/SiteSnapAI/internal/models"
	"github.com/puedeser233-alt/SiteSnapAI/internal/service"
	"github.com/puedeser233-alt/SiteSnapAI/pkg/utils"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
	webhookSecret  string
	validator      *utils.Validator
	logger         *zap.Logger
}

func NewPaymentHandler(paymentService *service.PaymentService, webhookSecret string, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		webhookSecret:  webhookSecret,
		validator:      utils.NewValidator(),
		logger:         logger,
	}
}

func (h *PaymentHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	var req models.CreateCheckoutSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	session, err := h.paymentService.CreateCheckoutSession(userID, req.Plan)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("Could not create checkout session"))
	}

	return c.JSON(models.SuccessResponse(session, ""))
}

func (h *PaymentHandler) CreatePortalSession(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	session, err := h.paymentService.CreatePortalSession(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(session, ""))
}

func (h *PaymentHandler) HandleWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, h.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
	if err != nil {
		h.logger.Warn("webhook signature verification failed", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Webhook signature verification failed"))
	}

	if err := h.paymentService.HandleStripeWebhook(&event); err != nil {
		h.logger.Error("webhook processing failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("Webhook processing failed"))
	}

	return c.JSON(models.SuccessResponse(nil, ""))
}
