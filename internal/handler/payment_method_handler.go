package handler

import (
	"devmarket/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PaymentMethodHandler struct {
	service service.PaymentMethodService
}

func NewPaymentMethodHandler(s service.PaymentMethodService) *PaymentMethodHandler {
	return &PaymentMethodHandler{service: s}
}

// GET /api/v1/payment-methods
func (h *PaymentMethodHandler) List(c *fiber.Ctx) error {
	methods, err := h.service.List(actor(c).UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": methods})
}

// POST /api/v1/payment-methods
func (h *PaymentMethodHandler) Create(c *fiber.Ctx) error {
	var req service.PaymentMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	method, err := h.service.Create(&req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Payment method added", "data": method})
}

// PUT /api/v1/payment-methods/:id
func (h *PaymentMethodHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid payment method ID")
	}

	var req service.PaymentMethodRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	method, err := h.service.Update(id, &req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Payment method updated", "data": method})
}

// DELETE /api/v1/payment-methods/:id
func (h *PaymentMethodHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid payment method ID")
	}

	if err := h.service.Delete(id, actor(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Payment method deleted"})
}

// PUT /api/v1/payment-methods/:id/default
func (h *PaymentMethodHandler) SetDefault(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid payment method ID")
	}

	if err := h.service.SetDefault(id, actor(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Default payment method updated"})
}
