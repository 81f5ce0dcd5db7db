package handler

import (
	"devmarket/internal/model"
	"devmarket/internal/repository"
	"devmarket/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser handles user creation by an admin
// POST /api/v1/admin/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "message": "Invalid JSON"})
	}

	user, err := h.userService.CreateUser(&req, actor(c))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"message": "User created successfully",
		"user":    user.ToResponse(),
	})
}

// GetUsers returns users, optionally filtered
// GET /api/v1/admin/users?role=&status=&approval=&search=
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers(repository.UserFilter{
		Role:     model.Role(c.Query("role")),
		Status:   model.UserStatus(c.Query("status")),
		Approval: model.Approval(c.Query("approval")),
		Search:   c.Query("search"),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": users})
}

// GetUser returns a single user by ID
// GET /api/v1/admin/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	user, err := h.userService.GetUserByID(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": user})
}

// UpdateUser handles user update
// PUT /api/v1/admin/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	var req service.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	user, err := h.userService.UpdateUser(id, &req, actor(c))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"data":    user.ToResponse(),
	})
}

// SetStatus activates or deactivates an account
// PATCH /api/v1/admin/users/:id/status
func (h *UserHandler) SetStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	var req struct {
		Status model.UserStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	user, err := h.userService.SetStatus(id, req.Status, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "User status updated",
		"data":    user.ToResponse(),
	})
}

// SetApproval decides a seller application
// PATCH /api/v1/admin/users/:id/approval
func (h *UserHandler) SetApproval(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	var req struct {
		Approval model.Approval `json:"approval"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	user, err := h.userService.SetApproval(id, req.Approval, actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Seller approval updated",
		"data":    user.ToResponse(),
	})
}

// DeleteUser handles user deletion
// DELETE /api/v1/admin/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	if err := h.userService.DeleteUser(id, actor(c)); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
