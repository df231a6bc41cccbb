package handlers

import (
	"strings"

	"statefin-backend/internal/core/services"
	"statefin-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles user registration
// @Summary Register new user
// @Description Create an account with the USER role
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration data"
// @Success 201 {object} response.Response{data=models.UserResponse}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := parseBody(c, &input); err != nil {
		return handleError(c, err)
	}
	input.Username = strings.TrimSpace(input.Username)

	user, err := h.authService.Register(c.UserContext(), &input)
	if err != nil {
		return handleError(c, err)
	}
	return response.Created(c, "User registered successfully", user)
}

// Login handles user login
// @Summary Login user
// @Description Authenticate user and return an access and a refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Login credentials"
// @Success 200 {object} response.Response{data=services.LoginResponse}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := parseBody(c, &input); err != nil {
		return handleError(c, err)
	}

	result, err := h.authService.Login(c.UserContext(), &input)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Login successful", result)
}

// Refresh exchanges a refresh token for a new pair
// @Summary Refresh tokens
// @Description Exchange a valid refresh token for a new access and refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RefreshInput true "Refresh token"
// @Success 200 {object} response.Response{data=services.LoginResponse}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input services.RefreshInput
	if err := parseBody(c, &input); err != nil {
		return handleError(c, err)
	}

	result, err := h.authService.Refresh(c.UserContext(), &input)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Token refreshed successfully", result)
}
