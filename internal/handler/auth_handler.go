package handler

import (
	"time"

	"devmarket/internal/model"
	"devmarket/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
}

func NewAuthHandler(authService service.AuthService, userService service.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Identifier string `json:"identifier"` // Email or username
	Password   string `json:"password"`
}

// ChangePasswordRequest represents the change password request body
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// Register creates a buyer or seller account
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		return fail(c, err)
	}

	message := "Registration successful"
	if user.Role == model.RoleSeller {
		message = "Registration successful. Your seller account is waiting for admin approval"
	}
	return c.Status(201).JSON(fiber.Map{
		"message": message,
		"data":    user.ToResponse(),
	})
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	if req.Identifier == "" || req.Password == "" {
		return badRequest(c, "Email/username and password are required")
	}

	response, err := h.authService.Login(req.Identifier, req.Password)
	if err != nil {
		// Return 401 for authentication errors
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	// Browsers follow download links and open websockets with the cookie
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    response.Token,
		Expires:  response.ExpiresAt,
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.JSON(response)
}

// Logout invalidates the current session
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(actor(c).UserID); err != nil {
		return fail(c, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// ValidateTokenRequest represents the validate token request body
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateToken handles JWT token validation
// POST /api/v1/auth/validate-token
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	var req ValidateTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	if req.Token == "" {
		return badRequest(c, "Token is required")
	}

	response, err := h.authService.ValidateToken(req.Token)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(response)
}

// Me returns the current user's profile
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.userService.GetUserByID(actor(c).UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": user})
}

// UpdateProfile edits the current user's contact details
// PUT /api/v1/auth/profile
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var req service.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	user, err := h.authService.UpdateProfile(actor(c).UserID, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"data":    user.ToResponse(),
	})
}

// ChangePassword handles password change
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	if req.OldPassword == "" || req.NewPassword == "" {
		return badRequest(c, "old_password and new_password are required")
	}

	if err := h.authService.ChangePassword(actor(c).UserID, req.OldPassword, req.NewPassword); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}
