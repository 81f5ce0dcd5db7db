package middleware

import (
	"strings"

	"devmarket/internal/model"
	"devmarket/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ActorKey is the Locals key holding the request's model.Actor
const ActorKey = "actor"

// CurrentActor returns the identity set by RequireAuth or OptionalAuth
func CurrentActor(c *fiber.Ctx) (model.Actor, bool) {
	actor, ok := c.Locals(ActorKey).(model.Actor)
	return actor, ok
}

// tokenFrom reads the token from "Authorization: Bearer <token>", the token
// cookie, or the token query parameter used by websocket upgrades.
func tokenFrom(c *fiber.Ctx) (string, bool) {
	if authHeader := c.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return "", false
		}
		return parts[1], true
	}
	if token := c.Cookies("token"); token != "" {
		return token, true
	}
	if token := c.Query("token"); token != "" {
		return token, true
	}
	return "", true
}

// RequireAuth is middleware that validates JWT token and sets the request actor
func RequireAuth(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := tokenFrom(c)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}
		if tokenString == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Validates signature, expiry, account status and session version
		user, err := authService.Authenticate(tokenString)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": err.Error()})
		}

		c.Locals(ActorKey, user.Actor())
		return c.Next()
	}
}

// OptionalAuth sets the actor when a valid token is present and otherwise lets the request through anonymously
func OptionalAuth(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString, ok := tokenFrom(c); ok && tokenString != "" {
			if user, err := authService.Authenticate(tokenString); err == nil {
				c.Locals(ActorKey, user.Actor())
			}
		}
		return c.Next()
	}
}

// RequireRole allows the request when the actor has one of the given roles
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := CurrentActor(c)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
		}
		for _, r := range roles {
			if actor.Role == r {
				return c.Next()
			}
		}
		return c.Status(403).JSON(fiber.Map{"error": "Forbidden: your role cannot access this resource"})
	}
}

// RequirePrivilege checks if the authenticated user has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := CurrentActor(c)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
		}
		if !actor.HasPrivilege(requiredPrivilege) {
			return c.Status(403).JSON(fiber.Map{
				"error": "Forbidden: requires '" + requiredPrivilege + "' privilege",
			})
		}
		return c.Next()
	}
}

// RequireAnyPrivilege checks if the user has at least one of the specified privileges
func RequireAnyPrivilege(requiredPrivileges ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := CurrentActor(c)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
		}
		for _, p := range requiredPrivileges {
			if actor.HasPrivilege(p) {
				return c.Next()
			}
		}
		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires one of " + strings.Join(requiredPrivileges, ", ") + " privileges",
		})
	}
}
