package handler

import (
	"go-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RoleHandler struct {
	userService service.UserService
	errorResponder
}

func NewRoleHandler(userService service.UserService, log *zap.Logger) *RoleHandler {
	return &RoleHandler{userService: userService, errorResponder: newErrorResponder(log)}
}

// GetRoles returns all roles with their privileges
// GET /api/v1/roles
func (h *RoleHandler) GetRoles(c *fiber.Ctx) error {
	roles, err := h.userService.ListRoles(c.UserContext())
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(roles)
}

// GET /api/v1/privileges
func (h *RoleHandler) GetPrivileges(c *fiber.Ctx) error {
	privileges, err := h.userService.ListPrivileges(c.UserContext())
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(privileges)
}
