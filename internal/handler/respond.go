package handler

import (
	"errors"

	"go-inventory-sku/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// fail maps the typed error taxonomy onto HTTP statuses. Callers surface the
// error message verbatim; nothing is swallowed or retried here.
func fail(c *fiber.Ctx, err error) error {
	status := 500

	var (
		validation *apperr.ValidationError
		notFound   *apperr.NotFoundError
		duplicate  *apperr.DuplicateCodeError
		badState   *apperr.InvalidStateError
		badMove    *apperr.InvalidTransitionError
		conflict   *apperr.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		status = 400
	case errors.As(err, &notFound):
		status = 404
	case errors.As(err, &duplicate), errors.As(err, &badState),
		errors.As(err, &badMove), errors.As(err, &conflict):
		status = 409
	}

	body := fiber.Map{"error": err.Error()}
	if validation != nil {
		body["fields"] = validation.Fields
	}
	return c.Status(status).JSON(body)
}

// Helper to pull the acting user's id out of the JWT context
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system"
	}
	return userID.(string)
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(400).JSON(fiber.Map{"error": "Invalid id"})
}
