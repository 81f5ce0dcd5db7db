package handler

import (
	"devmarket/internal/config"
	"devmarket/internal/model"

	"github.com/gofiber/fiber/v2"
)

type SystemHandler struct {
	cfg *config.Config
}

func NewSystemHandler(cfg *config.Config) *SystemHandler {
	return &SystemHandler{cfg: cfg}
}

// Health Check Endpoint
func (h *SystemHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "API is healthy",
	})
}

// ClientConfig tells browsers how often to poll and what fee to display
// GET /api/v1/config
func (h *SystemHandler) ClientConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"app_name":          h.cfg.AppName,
		"poll_interval_ms":  h.cfg.PollInterval.Milliseconds(),
		"platform_fee_rate": model.PlatformFeeRate,
		"payment_methods":   []model.PaymentMethodType{model.MethodGCash, model.MethodPayMaya, model.MethodBankTransfer},
	})
}
