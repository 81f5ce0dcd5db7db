package handler

import (
	"devmarket/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CheckoutHandler struct {
	service service.CheckoutService
}

func NewCheckoutHandler(s service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: s}
}

// Quote shows price, platform fee and where to send the payment
// GET /api/v1/checkout/:productId
func (h *CheckoutHandler) Quote(c *fiber.Ctx) error {
	id, err := paramID(c, "productId")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}

	quote, err := h.service.Quote(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": quote})
}

// SubmitPayment records the buyer's manual payment
// POST /api/v1/checkout
func (h *CheckoutHandler) SubmitPayment(c *fiber.Ctx) error {
	var req service.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	order, err := h.service.SubmitPayment(&req, actor(c).UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{
		"message": "Payment recorded. Request access from the seller to download the source code",
		"data":    order,
	})
}

// GET /api/v1/orders/mine
func (h *CheckoutHandler) GetMyPurchases(c *fiber.Ctx) error {
	orders, err := h.service.ListBuyerPurchases(actor(c).UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": orders})
}

// GET /api/v1/seller/sales
func (h *CheckoutHandler) GetMySales(c *fiber.Ctx) error {
	orders, err := h.service.ListSellerSales(actor(c).UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": orders})
}
