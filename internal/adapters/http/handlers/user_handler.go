package handlers

import (
	"statefin-backend/internal/adapters/http/middleware"
	"statefin-backend/internal/adapters/persistence/repositories"
	"statefin-backend/internal/core/services"
	"statefin-backend/internal/pkg/pagination"
	"statefin-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Me returns the caller's profile
// @Summary Current user
// @Description Get the authenticated user's profile with roles and permissions
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=models.UserResponse}
// @Failure 401 {object} response.Response
// @Router /users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	user, err := h.userService.Me(c.UserContext(), middleware.GetPrincipal(c))
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "User retrieved successfully", user)
}

// ListUsers lists all users
// @Summary List all users
// @Description Get a paginated list of all users, active or not
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Items per page" default(20)
// @Param sortBy query string false "Sort field" default(id)
// @Param sortDir query string false "asc or desc" default(asc)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c, repositories.UserSortColumns)

	result, err := h.userService.List(c.UserContext(), params)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Users retrieved successfully", result)
}

// GetUser gets a user by ID
// @Summary Get user by ID
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response{data=models.UserResponse}
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	user, err := h.userService.GetByID(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "User retrieved successfully", user)
}

// UpdateUser updates email, names or the active flag
// @Summary Update user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.UpdateUserInput true "Fields to change"
// @Success 200 {object} response.Response{data=models.UserResponse}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, err)
	}
	var input services.UpdateUserInput
	if err := parseBody(c, &input); err != nil {
		return handleError(c, err)
	}

	user, err := h.userService.Update(c.UserContext(), id, &input)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "User updated successfully", user)
}

// DeleteUser deactivates a user
// @Summary Deactivate user
// @Description Soft delete: the user is marked inactive and can no longer log in
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	if err := h.userService.Delete(c.UserContext(), id); err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "User deleted successfully", nil)
}

// AddRole grants a role to a user
// @Summary Grant role
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param roleId path int true "Role ID"
// @Success 200 {object} response.Response{data=models.UserResponse}
// @Failure 404 {object} response.Response
// @Router /users/{id}/roles/{roleId} [post]
func (h *UserHandler) AddRole(c *fiber.Ctx) error {
	userID, roleID, err := userAndRole(c)
	if err != nil {
		return handleError(c, err)
	}

	user, err := h.userService.AddRole(c.UserContext(), userID, roleID)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Role assigned successfully", user)
}

// RemoveRole revokes a role from a user
// @Summary Revoke role
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param roleId path int true "Role ID"
// @Success 200 {object} response.Response{data=models.UserResponse}
// @Failure 404 {object} response.Response
// @Router /users/{id}/roles/{roleId} [delete]
func (h *UserHandler) RemoveRole(c *fiber.Ctx) error {
	userID, roleID, err := userAndRole(c)
	if err != nil {
		return handleError(c, err)
	}

	user, err := h.userService.RemoveRole(c.UserContext(), userID, roleID)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Role removed successfully", user)
}

func userAndRole(c *fiber.Ctx) (uint, uint, error) {
	userID, err := paramID(c, "id")
	if err != nil {
		return 0, 0, err
	}
	roleID, err := paramID(c, "roleId")
	if err != nil {
		return 0, 0, err
	}
	return userID, roleID, nil
}
