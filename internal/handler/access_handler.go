package handler

import (
	"fmt"
	"path/filepath"

	"devmarket/internal/model"
	"devmarket/internal/service"
	"devmarket/pkg/storage"

	"github.com/gofiber/fiber/v2"
)

type AccessHandler struct {
	service service.AccessService
	files   *storage.Local
}

func NewAccessHandler(s service.AccessService, files *storage.Local) *AccessHandler {
	return &AccessHandler{service: s, files: files}
}

// RequestAccess asks the seller for the product's source file
// POST /api/v1/products/:id/access-requests
func (h *AccessHandler) RequestAccess(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}

	var req struct {
		Message string `json:"message"`
	}
	// An empty body is allowed
	_ = c.BodyParser(&req)

	request, err := h.service.RequestAccess(id, actor(c).UserID, req.Message)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{
		"message": "Access request sent to the seller",
		"data":    request,
	})
}

// GET /api/v1/access-requests/mine
func (h *AccessHandler) GetMyRequests(c *fiber.Ctx) error {
	requests, err := h.service.ListBuyerRequests(actor(c).UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": requests})
}

// GET /api/v1/seller/access-requests?status=pending
func (h *AccessHandler) GetIncomingRequests(c *fiber.Ctx) error {
	requests, err := h.service.ListSellerRequests(actor(c).UserID, model.AccessStatus(c.Query("status")))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": requests})
}

// Decide approves or rejects a request
// PUT /api/v1/access-requests/:id
func (h *AccessHandler) Decide(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid request ID")
	}

	var req struct {
		Status model.AccessStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	request, err := h.service.DecideAccess(id, req.Status, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Access request " + string(request.Status),
		"data":    request,
	})
}

// Download streams the source archive to authorized users
// GET /api/v1/products/:id/download
func (h *AccessHandler) Download(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID")
	}

	product, err := h.service.ResolveDownload(id, actor(c).UserID)
	if err != nil {
		return fail(c, err)
	}

	abs, err := h.files.Path(product.SourcePath)
	if err != nil {
		return fail(c, err)
	}
	name := fmt.Sprintf("product-%d%s", product.ID, filepath.Ext(product.SourcePath))
	return c.Download(abs, name)
}
