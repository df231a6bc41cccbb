package handlers

import (
	"statefin-backend/internal/adapters/persistence/repositories"
	"statefin-backend/internal/core/services"
	"statefin-backend/internal/pkg/pagination"
	"statefin-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RoleHandler handles role endpoints
type RoleHandler struct {
	roleService *services.RoleService
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(roleService *services.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// Create creates a role
// @Summary Create role
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RoleInput true "Role"
// @Success 201 {object} response.Response{data=models.RoleResponse}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /roles [post]
func (h *RoleHandler) Create(c *fiber.Ctx) error {
	var input services.RoleInput
	if err := parseBody(c, &input); err != nil {
		return handleError(c, err)
	}

	role, err := h.roleService.Create(c.UserContext(), &input)
	if err != nil {
		return handleError(c, err)
	}
	return response.Created(c, "Role created successfully", role)
}

// List lists all roles
// @Summary List roles
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Items per page" default(20)
// @Param sortBy query string false "Sort field" default(id)
// @Param sortDir query string false "asc or desc" default(asc)
// @Success 200 {object} response.Response
// @Router /roles [get]
func (h *RoleHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c, repositories.RoleSortColumns)

	result, err := h.roleService.List(c.UserContext(), params)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Roles retrieved successfully", result)
}

// ListActive lists active roles
// @Summary List active roles
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /roles/active [get]
func (h *RoleHandler) ListActive(c *fiber.Ctx) error {
	roles, err := h.roleService.ListActive(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Roles retrieved successfully", roles)
}

// Get gets a role by ID
// @Summary Get role
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} response.Response{data=models.RoleResponse}
// @Failure 404 {object} response.Response
// @Router /roles/{id} [get]
func (h *RoleHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	role, err := h.roleService.GetByID(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Role retrieved successfully", role)
}

// Update partially updates a role
// @Summary Update role
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Param body body services.RoleInput true "Fields to change"
// @Success 200 {object} response.Response{data=models.RoleResponse}
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /roles/{id} [put]
func (h *RoleHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, err)
	}
	var input services.RoleInput
	if err := parseBody(c, &input); err != nil {
		return handleError(c, err)
	}

	role, err := h.roleService.Update(c.UserContext(), id, &input)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Role updated successfully", role)
}

// Delete deactivates a role
// @Summary Deactivate role
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roles/{id} [delete]
func (h *RoleHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	if err := h.roleService.Delete(c.UserContext(), id); err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Role deleted successfully", nil)
}

// Permissions lists the permissions of a role
// @Summary Role permissions
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roles/{id}/permissions [get]
func (h *RoleHandler) Permissions(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	permissions, err := h.roleService.Permissions(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Permissions retrieved successfully", permissions)
}

// AddPermission links a permission to a role
// @Summary Grant permission to role
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Param permissionId path int true "Permission ID"
// @Success 200 {object} response.Response{data=models.RoleResponse}
// @Failure 404 {object} response.Response
// @Router /roles/{id}/permissions/{permissionId} [post]
func (h *RoleHandler) AddPermission(c *fiber.Ctx) error {
	roleID, permissionID, err := roleAndPermission(c)
	if err != nil {
		return handleError(c, err)
	}

	role, err := h.roleService.AddPermission(c.UserContext(), roleID, permissionID)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Permission assigned successfully", role)
}

// RemovePermission unlinks a permission from a role
// @Summary Revoke permission from role
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Param permissionId path int true "Permission ID"
// @Success 200 {object} response.Response{data=models.RoleResponse}
// @Failure 404 {object} response.Response
// @Router /roles/{id}/permissions/{permissionId} [delete]
func (h *RoleHandler) RemovePermission(c *fiber.Ctx) error {
	roleID, permissionID, err := roleAndPermission(c)
	if err != nil {
		return handleError(c, err)
	}

	role, err := h.roleService.RemovePermission(c.UserContext(), roleID, permissionID)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Permission removed successfully", role)
}

func roleAndPermission(c *fiber.Ctx) (uint, uint, error) {
	roleID, err := paramID(c, "id")
	if err != nil {
		return 0, 0, err
	}
	permissionID, err := paramID(c, "permissionId")
	if err != nil {
		return 0, 0, err
	}
	return roleID, permissionID, nil
}
