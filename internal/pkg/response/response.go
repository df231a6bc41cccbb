package response

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Response represents a standard API response
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Success sends a success response
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// Fail sends an error response with a category message and a detail
func Fail(c *fiber.Ctx, statusCode int, message, detail string) error {
	return c.Status(statusCode).JSON(Response{
		Success:   false,
		Message:   message,
		Error:     detail,
		Timestamp: time.Now(),
	})
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return Fail(c, statusCode, "", message)
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusBadRequest, "Invalid request", message)
}

// ValidationFailed sends a 400 response with the failing fields in data
func ValidationFailed(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(Response{
		Success:   false,
		Message:   "Validation failed",
		Data:      fields,
		Error:     "One or more fields are invalid",
		Timestamp: time.Now(),
	})
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusUnauthorized, "Unauthorized", message)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusForbidden, "Access denied", message)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusNotFound, "Resource not found", message)
}

// Conflict sends a 409 conflict response
func Conflict(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusConflict, "Conflict", message)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx) error {
	return Fail(c, fiber.StatusInternalServerError, "Internal server error",
		"An unexpected error occurred. Please try again later.")
}
