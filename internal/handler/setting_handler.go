package handler

import (
	"devmarket/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SettingHandler struct {
	service service.SettingService
}

func NewSettingHandler(s service.SettingService) *SettingHandler {
	return &SettingHandler{service: s}
}

// GET /api/v1/admin/settings
func (h *SettingHandler) GetSettings(c *fiber.Ctx) error {
	values, err := h.service.GetAll()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": values})
}

// PUT /api/v1/admin/settings
func (h *SettingHandler) UpdateSettings(c *fiber.Ctx) error {
	var req map[string]string
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	values, err := h.service.Update(req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Settings saved", "data": values})
}
