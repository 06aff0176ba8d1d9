package handlers

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"strconv"
	"strings"

	"majalah/internal/apperrors"
	"majalah/internal/middleware"
	"majalah/internal/models"
	"majalah/internal/repositories"
	"majalah/internal/services"
	"majalah/pkg/storage"

	"github.com/gofiber/fiber/v2"
)

// MagazineHandler handles HTTP requests for magazines and their submissions.
type MagazineHandler struct {
	magazines     *services.MagazineService
	subscriptions *services.SubscriptionService
	uploads       storage.Store
}

// NewMagazineHandler creates a new MagazineHandler.
func NewMagazineHandler(magazines *services.MagazineService, subscriptions *services.SubscriptionService, uploads storage.Store) *MagazineHandler {
	return &MagazineHandler{
		magazines:     magazines,
		subscriptions: subscriptions,
		uploads:       uploads,
	}
}

// RegisterRoutes registers the magazine routes with the Fiber app.
func (h *MagazineHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	magazineRoutes := router.Group("/magazines")
	magazineRoutes.Post("/submit", auth, h.HandleSubmit)
	magazineRoutes.Put("/update/:id", auth, h.HandleUpdate)
	magazineRoutes.Get("/viewRequests", auth, h.HandleListMyRequests)
	magazineRoutes.Get("/viewMagazines", auth, h.HandleListMyMagazines)
	magazineRoutes.Delete("/delete/:id", auth, h.HandleDelete)
	magazineRoutes.Get("/viewMagazine/:id", h.HandleGetMagazine)
	magazineRoutes.Get("/approved", auth, h.HandleListApproved)
	magazineRoutes.Delete("/admin/:id", auth, h.HandleAdminDelete)
	magazineRoutes.Get("/subscriptions/:id", h.HandleListSubscribers)
}

// storeImages validates every uploaded image against the MIME allowlist
// before storing any of them, so an unsupported type aborts the whole
// submission with nothing written.
func (h *MagazineHandler) storeImages(form *multipart.Form) ([]string, error) {
	files := form.File["images"]
	for _, fh := range files {
		mime := fh.Header.Get("Content-Type")
		if !storage.AllowedImageType(mime) {
			return nil, fmt.Errorf("unsupported image type %s: %w", mime, apperrors.ErrValidation)
		}
	}

	var paths []string
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read upload %s: %w", fh.Filename, err)
		}
		path, err := h.uploads.Store(data, fh.Filename)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// HandleSubmit creates a magazine and its publish request from a multipart
// submission.
func (h *MagazineHandler) HandleSubmit(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		log.Printf("Error parsing submission form: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	var price float64
	if raw := formValue(form, "price"); raw != "" {
		price, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return respondError(c, "Could not submit magazine",
				fmt.Errorf("invalid price %q: %w", raw, apperrors.ErrValidation))
		}
	}

	images, err := h.storeImages(form)
	if err != nil {
		return respondError(c, "Could not submit magazine", err)
	}

	magazine, request, err := h.magazines.Submit(middleware.Principal(c), services.SubmitInput{
		Title:    formValue(form, "title"),
		Category: formValue(form, "category"),
		Content:  formValue(form, "content"),
		Price:    price,
		Images:   images,
	})
	if err != nil {
		return respondError(c, "Could not submit magazine", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Magazine submitted successfully",
		"magazine": magazine,
		"request":  request,
	})
}

// HandleUpdate applies a partial update to a pending magazine, addressed by
// its publish request id.
func (h *MagazineHandler) HandleUpdate(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		log.Printf("Error parsing update form: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	var updates models.MagazineUpdate
	if v := strings.TrimSpace(formValue(form, "title")); v != "" {
		updates.Title = &v
	}
	if v := strings.TrimSpace(formValue(form, "category")); v != "" {
		updates.Category = &v
	}
	if v := strings.TrimSpace(formValue(form, "content")); v != "" {
		updates.Content = &v
	}
	if raw := formValue(form, "price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return respondError(c, "Could not update magazine",
				fmt.Errorf("invalid price %q: %w", raw, apperrors.ErrValidation))
		}
		updates.Price = &price
	}
	images, err := h.storeImages(form)
	if err != nil {
		return respondError(c, "Could not update magazine", err)
	}
	updates.Images = images

	magazine, err := h.magazines.UpdateWhilePending(middleware.Principal(c), c.Params("id"), updates)
	if err != nil {
		return respondError(c, "Could not update magazine", err)
	}
	return c.JSON(fiber.Map{
		"message":  "Magazine updated successfully",
		"magazine": magazine,
	})
}

// HandleListMyRequests lists the caller's publish requests, filtered.
func (h *MagazineHandler) HandleListMyRequests(c *fiber.Ctx) error {
	filter := repositories.RequestFilter{
		Status:   models.RequestStatus(strings.ToUpper(c.Query("status"))),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Title:    c.Query("title"),
	}
	var err error
	if filter.MinPrice, err = priceQuery(c, "minPrice"); err != nil {
		return respondError(c, "Could not fetch requests", err)
	}
	if filter.MaxPrice, err = priceQuery(c, "maxPrice"); err != nil {
		return respondError(c, "Could not fetch requests", err)
	}

	requests, err := h.magazines.ListMyRequests(middleware.Principal(c), filter)
	if err != nil {
		return respondError(c, "Could not fetch requests", err)
	}
	return c.JSON(fiber.Map{"requests": requests})
}

// HandleListMyMagazines lists the caller's approved magazines, filtered.
func (h *MagazineHandler) HandleListMyMagazines(c *fiber.Ctx) error {
	filter := repositories.MagazineFilter{
		Category: c.Query("category"),
		Title:    c.Query("title"),
	}
	var err error
	if filter.MinPrice, err = priceQuery(c, "minPrice"); err != nil {
		return respondError(c, "Could not fetch magazines", err)
	}
	if filter.MaxPrice, err = priceQuery(c, "maxPrice"); err != nil {
		return respondError(c, "Could not fetch magazines", err)
	}

	magazines, err := h.magazines.ListMyMagazines(middleware.Principal(c), filter)
	if err != nil {
		return respondError(c, "Could not fetch magazines", err)
	}
	return c.JSON(fiber.Map{"magazines": magazines})
}

// HandleDelete removes the caller's magazine together with its request.
func (h *MagazineHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.magazines.DeleteByPublisher(middleware.Principal(c), c.Params("id")); err != nil {
		return respondError(c, "Could not delete magazine", err)
	}
	return c.JSON(fiber.Map{"message": "Magazine deleted successfully"})
}

// HandleGetMagazine returns one magazine with publisher identity and review
// state. Public.
func (h *MagazineHandler) HandleGetMagazine(c *fiber.Ctx) error {
	magazine, err := h.magazines.GetMagazine(c.Params("id"))
	if err != nil {
		return respondError(c, "Could not fetch magazine", err)
	}
	return c.JSON(fiber.Map{"magazine": magazine})
}

// HandleListApproved lists the approved catalogue, filtered.
func (h *MagazineHandler) HandleListApproved(c *fiber.Ctx) error {
	filter := repositories.MagazineFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	var err error
	if filter.MinPrice, err = priceQuery(c, "minPrice"); err != nil {
		return respondError(c, "Could not fetch approved magazines", err)
	}
	if filter.MaxPrice, err = priceQuery(c, "maxPrice"); err != nil {
		return respondError(c, "Could not fetch approved magazines", err)
	}

	magazines, err := h.magazines.ListApproved(filter)
	if err != nil {
		return respondError(c, "Could not fetch approved magazines", err)
	}
	return c.JSON(fiber.Map{"magazines": magazines})
}

// HandleAdminDelete removes any magazine. Admin only.
func (h *MagazineHandler) HandleAdminDelete(c *fiber.Ctx) error {
	if err := h.magazines.AdminDelete(middleware.Principal(c), c.Params("id")); err != nil {
		return respondError(c, "Could not delete magazine", err)
	}
	return c.JSON(fiber.Map{"message": "Magazine deleted successfully"})
}

// HandleListSubscribers returns the subscriber ids for a magazine with a
// count. Public.
func (h *MagazineHandler) HandleListSubscribers(c *fiber.Ctx) error {
	ids, err := h.subscriptions.ListSubscriberIDs(c.Params("id"))
	if err != nil {
		return respondError(c, "Could not fetch subscriber ids", err)
	}
	return c.JSON(fiber.Map{
		"count":         len(ids),
		"subscriberIds": ids,
	})
}
