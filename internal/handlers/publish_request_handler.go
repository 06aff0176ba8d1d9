package handlers

import (
	"log"
	"strings"

	"majalah/internal/middleware"
	"majalah/internal/models"
	"majalah/internal/repositories"
	"majalah/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PublishRequestHandler handles HTTP requests for the admin review workflow.
type PublishRequestHandler struct {
	service *services.PublishRequestService
}

// NewPublishRequestHandler creates a new PublishRequestHandler.
func NewPublishRequestHandler(service *services.PublishRequestService) *PublishRequestHandler {
	return &PublishRequestHandler{
		service: service,
	}
}

// RegisterRoutes registers the publish-request routes with the Fiber app.
func (h *PublishRequestHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	requestRoutes := router.Group("/publishRequests")
	requestRoutes.Get("/", auth, h.HandleList)
	requestRoutes.Put("/:id/approve", auth, h.HandleApprove)
	requestRoutes.Put("/:id/reject", auth, h.HandleReject)
	requestRoutes.Get("/:id", auth, h.HandleGet)
}

// HandleList lists publish requests, filtered. Admin only.
func (h *PublishRequestHandler) HandleList(c *fiber.Ctx) error {
	filter := repositories.RequestFilter{
		Status:      models.RequestStatus(strings.ToUpper(c.Query("status"))),
		PublisherID: c.Query("publisherId"),
		Category:    c.Query("category"),
		Title:       c.Query("title"),
		Search:      c.Query("search"),
	}
	var err error
	if filter.MinPrice, err = priceQuery(c, "minPrice"); err != nil {
		return respondError(c, "Could not fetch publish requests", err)
	}
	if filter.MaxPrice, err = priceQuery(c, "maxPrice"); err != nil {
		return respondError(c, "Could not fetch publish requests", err)
	}
	if filter.From, err = dateQuery(c, "from"); err != nil {
		return respondError(c, "Could not fetch publish requests", err)
	}
	if filter.To, err = dateQuery(c, "to"); err != nil {
		return respondError(c, "Could not fetch publish requests", err)
	}

	requests, err := h.service.List(middleware.Principal(c), filter)
	if err != nil {
		return respondError(c, "Could not fetch publish requests", err)
	}
	return c.JSON(fiber.Map{"requests": requests})
}

// HandleApprove marks a request APPROVED.
func (h *PublishRequestHandler) HandleApprove(c *fiber.Ctx) error {
	request, err := h.service.Approve(middleware.Principal(c), c.Params("id"))
	if err != nil {
		return respondError(c, "Could not approve publish request", err)
	}
	return c.JSON(fiber.Map{
		"message": "Request approved",
		"request": request,
	})
}

// RejectRequest represents the request body for a rejection.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// HandleReject marks a request REJECTED with a reason.
func (h *PublishRequestHandler) HandleReject(c *fiber.Ctx) error {
	var req RejectRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing reject request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	request, err := h.service.Reject(middleware.Principal(c), c.Params("id"), req.Reason)
	if err != nil {
		return respondError(c, "Could not reject publish request", err)
	}
	return c.JSON(fiber.Map{
		"message": "Publish request rejected",
		"request": request,
	})
}

// HandleGet returns one publish request to its owner or an admin.
func (h *PublishRequestHandler) HandleGet(c *fiber.Ctx) error {
	request, err := h.service.Get(middleware.Principal(c), c.Params("id"))
	if err != nil {
		return respondError(c, "Could not fetch publish request", err)
	}
	return c.JSON(fiber.Map{"request": request})
}
