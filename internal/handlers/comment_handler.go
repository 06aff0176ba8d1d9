package handlers

import (
	"log"

	"majalah/internal/middleware"
	"majalah/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CommentHandler handles HTTP requests for magazine comments.
type CommentHandler struct {
	service  *services.CommentService
	validate *validator.Validate
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(service *services.CommentService) *CommentHandler {
	return &CommentHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the comment routes with the Fiber app.
func (h *CommentHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	commentRoutes := router.Group("/comments")
	commentRoutes.Post("/comment", auth, h.HandleCreate)
	commentRoutes.Get("/:id", auth, h.HandleList)
	commentRoutes.Put("/:id", auth, h.HandleUpdate)
	commentRoutes.Delete("/admin/:id", auth, h.HandleAdminDelete)
	commentRoutes.Delete("/:id", auth, h.HandleDelete)
}

// CreateCommentRequest represents the request body for a new comment.
type CreateCommentRequest struct {
	MagazineID string `json:"magazine_id" validate:"required"`
	Content    string `json:"content" validate:"required"`
}

// HandleCreate adds a comment to a magazine.
func (h *CommentHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing comment request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	comment, err := h.service.Add(middleware.Principal(c), req.MagazineID, req.Content)
	if err != nil {
		return respondError(c, "Could not add comment", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment added",
		"comment": comment,
	})
}

// HandleList lists a magazine's comments with author identities.
func (h *CommentHandler) HandleList(c *fiber.Ctx) error {
	comments, err := h.service.List(c.Params("id"))
	if err != nil {
		return respondError(c, "Could not fetch comments", err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// UpdateCommentRequest represents the request body for editing a comment.
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// HandleUpdate edits a comment. Author or admin only.
func (h *CommentHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing comment update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	comment, err := h.service.Update(middleware.Principal(c), c.Params("id"), req.Content)
	if err != nil {
		return respondError(c, "Could not update comment", err)
	}
	return c.JSON(fiber.Map{
		"message": "Comment updated",
		"comment": comment,
	})
}

// HandleDelete removes the caller's own comment.
func (h *CommentHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(middleware.Principal(c), c.Params("id")); err != nil {
		return respondError(c, "Could not delete comment", err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
}

// HandleAdminDelete removes any comment. Admin only.
func (h *CommentHandler) HandleAdminDelete(c *fiber.Ctx) error {
	if err := h.service.AdminDelete(middleware.Principal(c), c.Params("id")); err != nil {
		return respondError(c, "Could not delete comment", err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
}
