package handlers

import (
	"errors"
	"log"
	"net/url"
	"strconv"
	"strings"

	"statefin-backend/internal/core/domain"
	"statefin-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// handleError maps a service error to its status and envelope. Anything
// that is not a domain error is logged and hidden behind a 500.
func handleError(c *fiber.Ctx, err error) error {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		log.Printf("❌ %s %s failed: %v", c.Method(), c.Path(), err)
		return response.InternalServerError(c)
	}

	switch derr.Kind {
	case domain.KindNotFound:
		return response.NotFound(c, derr.Message)
	case domain.KindAlreadyExists:
		return response.Fail(c, fiber.StatusConflict, "Resource already exists", derr.Message)
	case domain.KindInvalidToken:
		return response.Fail(c, fiber.StatusUnauthorized, "Invalid token", derr.Message)
	case domain.KindAuthentication:
		return response.Fail(c, fiber.StatusUnauthorized, "Authentication failed", domain.ErrAuthentication.Message)
	case domain.KindAccessDenied:
		return response.Forbidden(c, domain.ErrAccessDenied.Message)
	case domain.KindValidation:
		return response.ValidationFailed(c, derr.Fields)
	case domain.KindInvalidArgument:
		return response.BadRequest(c, derr.Message)
	case domain.KindDecisionFinalState:
		return response.Fail(c, fiber.StatusConflict, "Decision is in a final state", derr.Message)
	case domain.KindConflict:
		return response.Conflict(c, derr.Message)
	}

	log.Printf("❌ %s %s failed with unmapped kind %s: %v", c.Method(), c.Path(), derr.Kind, err)
	return response.InternalServerError(c)
}

// parseBody reads the JSON body into dst; a malformed body is a 400
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return domain.InvalidArgument("Invalid request body")
	}
	return nil
}

// paramID reads a positive numeric path parameter
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.InvalidArgument("Invalid %s: %s", name, c.Params(name))
	}
	return uint(id), nil
}

// pathParam returns a decoded string path parameter
func pathParam(c *fiber.Ctx, name string) (string, error) {
	value, err := url.PathUnescape(c.Params(name))
	if err != nil || strings.TrimSpace(value) == "" {
		return "", domain.InvalidArgument("Invalid %s: %s", name, c.Params(name))
	}
	return value, nil
}

// queryID reads an optional numeric query parameter; absent means 0
func queryID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, domain.InvalidArgument("Invalid %s: %s", name, raw)
	}
	return uint(id), nil
}

// language returns the first tag of Accept-Language, e.g. "ru" for
// "ru-RU,ru;q=0.9". Names fall back to English for anything unknown.
func language(c *fiber.Ctx) string {
	tag, _, _ := strings.Cut(c.Get(fiber.HeaderAcceptLanguage), ",")
	tag, _, _ = strings.Cut(tag, ";")
	return strings.TrimSpace(tag)
}
