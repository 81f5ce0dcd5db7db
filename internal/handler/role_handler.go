package handler

import (
	"devmarket/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type RoleHandler struct{}

func NewRoleHandler() *RoleHandler {
	return &RoleHandler{}
}

type roleResponse struct {
	Role       model.Role `json:"role"`
	Privileges []string   `json:"privileges"`
	Selectable bool       `json:"selectable"` // Offered on the registration form
}

// GetRoles returns every role with the privileges it grants
// GET /api/v1/roles
func (h *RoleHandler) GetRoles(c *fiber.Ctx) error {
	roles := []model.Role{model.RoleBuyer, model.RoleSeller, model.RoleAdmin}
	out := make([]roleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, roleResponse{
			Role:       r,
			Privileges: model.PrivilegesFor(r),
			Selectable: lo.Contains(model.SelfServiceRoles, r),
		})
	}
	return c.JSON(fiber.Map{"data": out})
}
