package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"

	"majalah/internal/apperrors"
	"majalah/internal/middleware"
	"majalah/internal/services"
	"majalah/pkg/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for accounts and authentication.
type UserHandler struct {
	authService *services.AuthService
	uploads     storage.Store
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, uploads storage.Store) *UserHandler {
	return &UserHandler{
		authService: authService,
		uploads:     uploads,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	userRoutes := router.Group("/users")
	userRoutes.Post("/signUp", h.HandleSignUp)
	userRoutes.Post("/login", h.HandleLogin)
	userRoutes.Get("/profile", auth, h.HandleProfile)
	userRoutes.Put("/update", auth, h.HandleUpdate)
	userRoutes.Get("/:id", h.HandlePublicProfile)
}

// RegisterRequest represents the fields of a sign-up submission.
type RegisterRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// HandleSignUp handles new user registration, multipart with an optional
// avatar image.
func (h *UserHandler) HandleSignUp(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		log.Printf("Error parsing sign-up form: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	req := RegisterRequest{
		Email:    formValue(form, "email"),
		Password: formValue(form, "password"),
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	avatar, err := h.storeAvatar(form)
	if err != nil {
		return respondError(c, "Could not store avatar", err)
	}

	user, token, err := h.authService.Register(req.Email, req.Password, formValue(form, "role"), formValue(form, "name"), avatar)
	if err != nil {
		return respondError(c, "Registration failed", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

// storeAvatar validates and stores an uploaded avatar, returning its path or
// "" when none was sent.
func (h *UserHandler) storeAvatar(form *multipart.Form) (string, error) {
	files := form.File["avatar"]
	if len(files) == 0 {
		return "", nil
	}
	fh := files[0]
	if !storage.AllowedImageType(fh.Header.Get("Content-Type")) {
		return "", fmt.Errorf("unsupported image type %s: %w", fh.Header.Get("Content-Type"), apperrors.ErrValidation)
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	return h.uploads.Store(data, fh.Filename)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *UserHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Email, err)
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication failed",
				"error":   err.Error(),
			})
		}
		return respondError(c, "Login failed", err)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// HandleProfile returns the caller's own account.
func (h *UserHandler) HandleProfile(c *fiber.Ctx) error {
	user, err := h.authService.Profile(middleware.Principal(c))
	if err != nil {
		return respondError(c, "Could not fetch profile", err)
	}
	return c.JSON(fiber.Map{
		"message": "User profile",
		"user":    user,
	})
}

// HandleUpdate updates the caller's name, password or avatar.
func (h *UserHandler) HandleUpdate(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		log.Printf("Error parsing profile update form: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	avatar, err := h.storeAvatar(form)
	if err != nil {
		return respondError(c, "Could not store avatar", err)
	}

	user, err := h.authService.UpdateProfile(middleware.Principal(c), formValue(form, "name"), formValue(form, "password"), avatar)
	if err != nil {
		return respondError(c, "Could not update user", err)
	}
	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"user":    user,
	})
}

// HandlePublicProfile returns a user's public identity.
func (h *UserHandler) HandlePublicProfile(c *fiber.Ctx) error {
	profile, err := h.authService.PublicProfile(c.Params("id"))
	if err != nil {
		return respondError(c, "Could not fetch user profile", err)
	}
	return c.JSON(fiber.Map{
		"profile": profile,
	})
}
