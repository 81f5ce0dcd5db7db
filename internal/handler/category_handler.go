package handler

import (
	"devmarket/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	service service.CategoryService
}

func NewCategoryHandler(s service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: s}
}

// GET /api/v1/categories
func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": categories})
}

// POST /api/v1/admin/categories
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req service.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	category, err := h.service.CreateCategory(&req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{
		"message": "Category created successfully",
		"data":    category,
	})
}

// PUT /api/v1/admin/categories/:id
func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid category ID")
	}

	var req service.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	category, err := h.service.UpdateCategory(id, &req, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Category updated successfully",
		"data":    category,
	})
}

// DELETE /api/v1/admin/categories/:id
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid category ID")
	}

	if err := h.service.DeleteCategory(id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted successfully"})
}
