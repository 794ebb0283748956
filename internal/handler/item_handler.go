package handler

import (
	"go-inventory-sku/internal/model"
	"go-inventory-sku/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ItemHandler struct {
	service service.ItemService
}

func NewItemHandler(s service.ItemService) *ItemHandler {
	return &ItemHandler{service: s}
}

func (h *ItemHandler) CreateItem(c *fiber.Ctx) error {
	var item model.Item
	if err := c.BodyParser(&item); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	created, err := h.service.CreateItem(&item, getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Item created", "data": created})
}

func (h *ItemHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}

	var item model.Item
	if err := c.BodyParser(&item); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateItem(id, &item, getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item updated", "data": updated})
}

func (h *ItemHandler) GetItems(c *fiber.Ctx) error {
	items, err := h.service.GetItems()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": items})
}

func (h *ItemHandler) GetDeletedItems(c *fiber.Ctx) error {
	items, err := h.service.GetDeletedItems()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": items})
}

func (h *ItemHandler) GetItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}
	item, err := h.service.GetItemByID(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": item})
}

func (h *ItemHandler) SoftDeleteItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}
	if err := h.service.SoftDeleteItem(id, getUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item moved to recycle bin"})
}

func (h *ItemHandler) RestoreItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}
	if err := h.service.RestoreItem(id, getUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item restored"})
}

func (h *ItemHandler) HardDeleteItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}
	if err := h.service.HardDeleteItem(id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item permanently deleted"})
}
