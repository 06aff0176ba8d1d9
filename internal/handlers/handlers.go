// Package handlers exposes the platform's REST surface on Fiber. Handlers
// parse and validate input, pass the authenticated principal into services,
// and map taxonomy errors to HTTP statuses.
package handlers

import (
	"fmt"
	"log"
	"mime/multipart"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"majalah/internal/apperrors"
)

// respondError logs the error and writes the mapped status. Internal errors
// are surfaced without detail.
func respondError(c *fiber.Ctx, message string, err error) error {
	log.Printf("%s: %v", message, err)
	if apperrors.Internal(err) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": message,
		})
	}
	return c.Status(apperrors.StatusFor(err)).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// respondValidationErrors writes the per-field messages for a failed struct
// validation.
func respondValidationErrors(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// formValue returns the first value of a multipart field, or "".
func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// priceQuery parses an optional float query parameter.
func priceQuery(c *fiber.Ctx, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", name, raw, apperrors.ErrValidation)
	}
	return &v, nil
}

// dateQuery parses an optional date query parameter, accepting RFC 3339 or
// plain dates.
func dateQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid %s %q: %w", name, raw, apperrors.ErrValidation)
}
