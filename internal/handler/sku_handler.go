package handler

import (
	"go-inventory-sku/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SkuHandler struct {
	service service.SkuService
}

func NewSkuHandler(s service.SkuService) *SkuHandler {
	return &SkuHandler{service: s}
}

func (h *SkuHandler) CreateSku(c *fiber.Ctx) error {
	var req service.CreateSkuRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	sku, err := h.service.CreateSku(&req, getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "SKU created", "data": sku})
}

func (h *SkuHandler) UpdateSku(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}
	var req service.UpdateSkuRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	sku, err := h.service.UpdateSku(id, &req, getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "SKU updated", "data": sku})
}

func (h *SkuHandler) GetSkus(c *fiber.Ctx) error {
	skus, err := h.service.GetSkus()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": skus})
}

func (h *SkuHandler) GetDeletedSkus(c *fiber.Ctx) error {
	skus, err := h.service.GetDeletedSkus()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": skus})
}

func (h *SkuHandler) GetSku(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}
	sku, err := h.service.GetSkuByID(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": sku})
}

func (h *SkuHandler) SoftDeleteSku(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}
	if err := h.service.SoftDeleteSku(id, getUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "SKU moved to recycle bin"})
}

func (h *SkuHandler) RestoreSku(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}
	if err := h.service.RestoreSku(id, getUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "SKU restored"})
}

func (h *SkuHandler) HardDeleteSku(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}
	if err := h.service.HardDeleteSku(id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "SKU permanently deleted"})
}

// ResetSku is the admin-only ready -> not_used override.
func (h *SkuHandler) ResetSku(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}
	sku, err := h.service.ResetSku(id, getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "SKU reset", "data": sku})
}

// Lookup resolves a scanned or typed code to its SKU and owning item.
func (h *SkuHandler) Lookup(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Missing code"})
	}
	sku, err := h.service.LookupByCode(code)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": sku})
}
