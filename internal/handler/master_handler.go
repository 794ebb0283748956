package handler

import (
	"go-inventory-sku/internal/service"

	"github.com/gofiber/fiber/v2"
)

// MasterHandler serves one master-data kind (category, unit, warehouse).
// merge copies the client-writable fields onto the stored record during an
// update; everything else (CRUD, recycle bin) is uniform across kinds.
type MasterHandler[T any] struct {
	service *service.MasterService[T]
	merge   func(dst, src *T)
	label   string
}

func NewMasterHandler[T any](s *service.MasterService[T], label string, merge func(dst, src *T)) *MasterHandler[T] {
	return &MasterHandler[T]{service: s, merge: merge, label: label}
}

func (h *MasterHandler[T]) Create(c *fiber.Ctx) error {
	var rec T
	if err := c.BodyParser(&rec); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.service.Create(&rec, getUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": h.label + " created", "data": rec})
}

func (h *MasterHandler[T]) Update(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}
	var req T
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	updated, err := h.service.Update(id, func(dst *T) { h.merge(dst, &req) }, getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": h.label + " updated", "data": updated})
}

func (h *MasterHandler[T]) List(c *fiber.Ctx) error {
	recs, err := h.service.List()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": recs})
}

func (h *MasterHandler[T]) ListDeleted(c *fiber.Ctx) error {
	recs, err := h.service.ListDeleted()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": recs})
}

func (h *MasterHandler[T]) Get(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}
	rec, err := h.service.Get(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": rec})
}

func (h *MasterHandler[T]) SoftDelete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}
	if err := h.service.SoftDelete(id, getUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": h.label + " moved to recycle bin"})
}

func (h *MasterHandler[T]) Restore(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}
	if err := h.service.Restore(id, getUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": h.label + " restored"})
}

func (h *MasterHandler[T]) HardDelete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}
	if err := h.service.HardDelete(id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": h.label + " permanently deleted"})
}

// Register wires the kind's route group: CRUD plus the recycle-bin triple.
func (h *MasterHandler[T]) Register(g fiber.Router, admin fiber.Handler) {
	g.Get("/", h.List)
	g.Get("/deleted", h.ListDeleted)
	g.Get("/:id", h.Get)
	g.Post("/", h.Create)
	g.Put("/:id", h.Update)
	g.Patch("/:id/soft-delete", h.SoftDelete)
	g.Put("/:id/restore", h.Restore)
	g.Delete("/:id/hard-delete", admin, h.HardDelete)
}
