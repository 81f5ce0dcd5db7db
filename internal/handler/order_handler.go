package handler

import (
	"bytes"
	"fmt"
	"time"

	"devmarket/internal/model"
	"devmarket/internal/repository"
	"devmarket/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// orderFilter reads ?status=&buyer_id=&seller_id=&from=YYYY-MM-DD&to=YYYY-MM-DD
func orderFilter(c *fiber.Ctx) (repository.TransactionFilter, error) {
	filter := repository.TransactionFilter{
		Status:   model.TransactionStatus(c.Query("status")),
		BuyerID:  queryUint(c, "buyer_id"),
		SellerID: queryUint(c, "seller_id"),
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return filter, fmt.Errorf("invalid from date, use YYYY-MM-DD")
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return filter, fmt.Errorf("invalid to date, use YYYY-MM-DD")
		}
		// inclusive of the whole day
		end := to.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}
	return filter, nil
}

// GET /api/v1/admin/orders
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	filter, err := orderFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	orders, err := h.service.ListOrders(filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": orders})
}

// GET /api/v1/admin/orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid order ID")
	}

	order, err := h.service.GetOrder(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": order})
}

// PATCH /api/v1/admin/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid order ID")
	}

	var req struct {
		Status model.TransactionStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	order, err := h.service.UpdateOrderStatus(id, req.Status, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order status updated", "data": order})
}

// Export downloads the filtered orders as an Excel workbook
// GET /api/v1/admin/orders/export
func (h *OrderHandler) Export(c *fiber.Ctx) error {
	filter, err := orderFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	var buf bytes.Buffer
	if err := h.service.ExportOrders(filter, &buf); err != nil {
		return fail(c, err)
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Send(buf.Bytes())
}
