package handlers

import (
	"log"

	"majalah/internal/middleware"
	"majalah/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// SubscriptionHandler handles HTTP requests for magazine subscriptions.
type SubscriptionHandler struct {
	service  *services.SubscriptionService
	validate *validator.Validate
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(service *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the subscription routes with the Fiber app.
func (h *SubscriptionHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	subscriptionRoutes := router.Group("/subscription")
	subscriptionRoutes.Post("/", auth, h.HandleSubscribe)
	subscriptionRoutes.Delete("/", auth, h.HandleUnsubscribe)
}

// SubscriptionRequest represents the request body for subscribe and
// unsubscribe.
type SubscriptionRequest struct {
	MagazineID string `json:"magazine_id" validate:"required"`
}

// HandleSubscribe subscribes the caller to a magazine.
func (h *SubscriptionHandler) HandleSubscribe(c *fiber.Ctx) error {
	var req SubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing subscribe request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	subscription, err := h.service.Subscribe(middleware.Principal(c), req.MagazineID)
	if err != nil {
		return respondError(c, "Could not subscribe", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Subscribed successfully",
		"subscription": subscription,
	})
}

// HandleUnsubscribe removes the caller's subscription to a magazine.
func (h *SubscriptionHandler) HandleUnsubscribe(c *fiber.Ctx) error {
	var req SubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing unsubscribe request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	if err := h.service.Unsubscribe(middleware.Principal(c), req.MagazineID); err != nil {
		return respondError(c, "Could not unsubscribe", err)
	}
	return c.JSON(fiber.Map{"message": "Unsubscribed successfully"})
}
