package handler

import (
	"devmarket/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetSalesTrend returns completed sales per day for charts. Admins see the
// whole marketplace, sellers only their own sales.
// Query params: days (default 7)
func (h *DashboardHandler) GetSalesTrend(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days <= 0 {
		days = 7
	}

	a := actor(c)
	var sellerID uint
	if !a.IsAdmin() {
		sellerID = a.UserID
	}

	data, err := h.service.GetSalesTrend(sellerID, days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch sales trend"})
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetDashboardStats returns marketplace overview statistics
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}

	return c.JSON(stats)
}

// GetSellerStats returns the current seller's totals
func (h *DashboardHandler) GetSellerStats(c *fiber.Ctx) error {
	stats, err := h.service.GetSellerStats(actor(c).UserID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch seller stats"})
	}

	return c.JSON(stats)
}
