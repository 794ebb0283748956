package handler

import (
	"go-inventory-sku/internal/service"

	"github.com/gofiber/fiber/v2"
)

type LoanHandler struct {
	service service.LendingService
}

func NewLoanHandler(s service.LendingService) *LoanHandler {
	return &LoanHandler{service: s}
}

func (h *LoanHandler) CreateLoan(c *fiber.Ctx) error {
	var req service.CreateLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	loan, err := h.service.CreateLoan(&req, getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Loan created", "data": loan})
}

func (h *LoanHandler) GetLoans(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	loans, total, err := h.service.GetLoans(page, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"data":  loans,
		"page":  page,
		"limit": limit,
		"total": total,
	})
}

func (h *LoanHandler) GetLoan(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}
	loan, err := h.service.GetLoanByID(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": loan})
}

func (h *LoanHandler) ReturnLoan(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}
	var req service.ReturnLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	loan, err := h.service.ReturnLoan(id, &req, getUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Loan returned", "data": loan})
}

// ActiveLoan tells the scan workflow whether to offer borrow or return.
func (h *LoanHandler) ActiveLoan(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return invalidID(c)
	}
	loan, err := h.service.ActiveLoanFor(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": loan})
}
