package handlers

import (
	"statefin-backend/internal/adapters/persistence/repositories"
	"statefin-backend/internal/core/services"
	"statefin-backend/internal/pkg/pagination"
	"statefin-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PermissionHandler handles permission endpoints
type PermissionHandler struct {
	permissionService *services.PermissionService
}

// NewPermissionHandler creates a new permission handler
func NewPermissionHandler(permissionService *services.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissionService: permissionService}
}

// Create creates a permission
// @Summary Create permission
// @Description Name and the (resource, action) pair must both be unique
// @Tags Permissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.PermissionInput true "Permission"
// @Success 201 {object} response.Response{data=models.PermissionResponse}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /permissions [post]
func (h *PermissionHandler) Create(c *fiber.Ctx) error {
	var input services.PermissionInput
	if err := parseBody(c, &input); err != nil {
		return handleError(c, err)
	}

	permission, err := h.permissionService.Create(c.UserContext(), &input)
	if err != nil {
		return handleError(c, err)
	}
	return response.Created(c, "Permission created successfully", permission)
}

// List lists all permissions
// @Summary List permissions
// @Tags Permissions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Items per page" default(20)
// @Param sortBy query string false "Sort field" default(id)
// @Param sortDir query string false "asc or desc" default(asc)
// @Success 200 {object} response.Response
// @Router /permissions [get]
func (h *PermissionHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c, repositories.PermissionSortColumns)

	result, err := h.permissionService.List(c.UserContext(), params)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Permissions retrieved successfully", result)
}

// ListActive lists active permissions
// @Summary List active permissions
// @Tags Permissions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /permissions/active [get]
func (h *PermissionHandler) ListActive(c *fiber.Ctx) error {
	permissions, err := h.permissionService.ListActive(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Permissions retrieved successfully", permissions)
}

// Get gets a permission by ID
// @Summary Get permission
// @Tags Permissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Permission ID"
// @Success 200 {object} response.Response{data=models.PermissionResponse}
// @Failure 404 {object} response.Response
// @Router /permissions/{id} [get]
func (h *PermissionHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	permission, err := h.permissionService.GetByID(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Permission retrieved successfully", permission)
}

// Update partially updates a permission
// @Summary Update permission
// @Tags Permissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Permission ID"
// @Param body body services.PermissionInput true "Fields to change"
// @Success 200 {object} response.Response{data=models.PermissionResponse}
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /permissions/{id} [put]
func (h *PermissionHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, err)
	}
	var input services.PermissionInput
	if err := parseBody(c, &input); err != nil {
		return handleError(c, err)
	}

	permission, err := h.permissionService.Update(c.UserContext(), id, &input)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Permission updated successfully", permission)
}

// Delete deactivates a permission
// @Summary Deactivate permission
// @Tags Permissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Permission ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /permissions/{id} [delete]
func (h *PermissionHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	if err := h.permissionService.Delete(c.UserContext(), id); err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Permission deleted successfully", nil)
}

// Resources lists the distinct resources
// @Summary Permission resources
// @Tags Permissions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]string}
// @Router /permissions/resources [get]
func (h *PermissionHandler) Resources(c *fiber.Ctx) error {
	resources, err := h.permissionService.Resources(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Resources retrieved successfully", resources)
}

// Actions lists the distinct actions
// @Summary Permission actions
// @Tags Permissions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]string}
// @Router /permissions/actions [get]
func (h *PermissionHandler) Actions(c *fiber.Ctx) error {
	actions, err := h.permissionService.Actions(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Actions retrieved successfully", actions)
}
