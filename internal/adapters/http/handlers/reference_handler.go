package handlers

import (
	"statefin-backend/internal/adapters/http/middleware"
	"statefin-backend/internal/adapters/persistence/repositories"
	"statefin-backend/internal/core/services"
	"statefin-backend/internal/pkg/pagination"
	"statefin-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReferenceHandler serves the CRUD, lifecycle and lookup endpoints of one
// reference type. Routes mount it once per type under its own prefix.
type ReferenceHandler[T any, P repositories.RefPtr[T]] struct {
	service *services.ReferenceService[T, P]
	sort    pagination.SortColumns
}

// NewReferenceHandler creates a handler; sort lists the extra sortBy values
func NewReferenceHandler[T any, P repositories.RefPtr[T]](service *services.ReferenceService[T, P], sort pagination.SortColumns) *ReferenceHandler[T, P] {
	if sort == nil {
		sort = repositories.ReferenceSortColumns
	}
	return &ReferenceHandler[T, P]{service: service, sort: sort}
}

// Create creates an entity
// @Summary Create reference entity
// @Tags References
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reference path string true "Reference type, e.g. currencies"
// @Param body body services.ReferenceInput true "Entity"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /{reference} [post]
func (h *ReferenceHandler[T, P]) Create(c *fiber.Ctx) error {
	var input services.ReferenceInput
	if err := parseBody(c, &input); err != nil {
		return handleError(c, err)
	}

	entity, err := h.service.Create(c.UserContext(), middleware.GetPrincipal(c), &input)
	if err != nil {
		return handleError(c, err)
	}
	entity.Base().Localize(language(c))
	return response.Created(c, h.service.Name()+" created successfully", entity)
}

// Get gets an entity by ID
// @Summary Get reference entity
// @Tags References
// @Produce json
// @Security BearerAuth
// @Param reference path string true "Reference type, e.g. currencies"
// @Param id path int true "ID"
// @Param Accept-Language header string false "en, ru or kg"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /{reference}/{id} [get]
func (h *ReferenceHandler[T, P]) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	entity, err := h.service.GetByID(c.UserContext(), id, language(c))
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, h.service.Name()+" retrieved successfully", entity)
}

// List lists entities page by page
// @Summary List reference entities
// @Tags References
// @Produce json
// @Security BearerAuth
// @Param reference path string true "Reference type, e.g. currencies"
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Items per page" default(20)
// @Param sortBy query string false "Sort field" default(id)
// @Param sortDir query string false "asc or desc" default(asc)
// @Success 200 {object} response.Response
// @Router /{reference} [get]
func (h *ReferenceHandler[T, P]) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c, h.sort)

	page, err := h.service.List(c.UserContext(), params, language(c))
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, h.service.Name()+" list retrieved successfully", page)
}

// ListActive lists every active entity without paging
// @Summary List active reference entities
// @Tags References
// @Produce json
// @Security BearerAuth
// @Param reference path string true "Reference type, e.g. currencies"
// @Success 200 {object} response.Response
// @Router /{reference}/active [get]
func (h *ReferenceHandler[T, P]) ListActive(c *fiber.Ctx) error {
	entities, err := h.service.ListActive(c.UserContext(), language(c))
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Active "+h.service.Name()+" list retrieved successfully", entities)
}

// Search pages over entities whose names or description contain searchTerm
// @Summary Search reference entities
// @Tags References
// @Produce json
// @Security BearerAuth
// @Param reference path string true "Reference type, e.g. currencies"
// @Param searchTerm query string true "Case-insensitive substring"
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /{reference}/search [get]
func (h *ReferenceHandler[T, P]) Search(c *fiber.Ctx) error {
	params := pagination.GetParams(c, h.sort)

	page, err := h.service.Search(c.UserContext(), c.Query("searchTerm"), params, language(c))
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, h.service.Name()+" search completed", page)
}

// Update partially updates an entity under a version check
// @Summary Update reference entity
// @Tags References
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reference path string true "Reference type, e.g. currencies"
// @Param id path int true "ID"
// @Param body body services.ReferenceInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /{reference}/{id} [put]
func (h *ReferenceHandler[T, P]) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, err)
	}
	var input services.ReferenceInput
	if err := parseBody(c, &input); err != nil {
		return handleError(c, err)
	}

	entity, err := h.service.Update(c.UserContext(), middleware.GetPrincipal(c), id, &input)
	if err != nil {
		return handleError(c, err)
	}
	entity.Base().Localize(language(c))
	return response.Success(c, h.service.Name()+" updated successfully", entity)
}

// Activate sets the status to ACTIVE
// @Summary Activate reference entity
// @Tags References
// @Produce json
// @Security BearerAuth
// @Param reference path string true "Reference type, e.g. currencies"
// @Param id path int true "ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /{reference}/{id}/activate [patch]
func (h *ReferenceHandler[T, P]) Activate(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	entity, err := h.service.Activate(c.UserContext(), middleware.GetPrincipal(c), id)
	if err != nil {
		return handleError(c, err)
	}
	entity.Base().Localize(language(c))
	return response.Success(c, h.service.Name()+" activated successfully", entity)
}

// Deactivate sets the status to INACTIVE
// @Summary Deactivate reference entity
// @Tags References
// @Produce json
// @Security BearerAuth
// @Param reference path string true "Reference type, e.g. currencies"
// @Param id path int true "ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /{reference}/{id}/deactivate [patch]
func (h *ReferenceHandler[T, P]) Deactivate(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	entity, err := h.service.Deactivate(c.UserContext(), middleware.GetPrincipal(c), id)
	if err != nil {
		return handleError(c, err)
	}
	entity.Base().Localize(language(c))
	return response.Success(c, h.service.Name()+" deactivated successfully", entity)
}

// Delete removes an entity nothing references
// @Summary Delete reference entity
// @Tags References
// @Produce json
// @Security BearerAuth
// @Param reference path string true "Reference type, e.g. currencies"
// @Param id path int true "ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /{reference}/{id} [delete]
func (h *ReferenceHandler[T, P]) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return handleError(c, err)
	}
	return response.Success(c, h.service.Name()+" deleted successfully", nil)
}

// Referenced reports whether other records point at the entity
// @Summary Is reference entity in use
// @Tags References
// @Produce json
// @Security BearerAuth
// @Param reference path string true "Reference type, e.g. currencies"
// @Param id path int true "ID"
// @Success 200 {object} response.Response{data=bool}
// @Failure 404 {object} response.Response
// @Router /{reference}/{id}/referenced [get]
func (h *ReferenceHandler[T, P]) Referenced(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	used, err := h.service.IsReferenced(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Reference check completed", used)
}

// ByKey returns a handler that looks an entity up by a unique field read
// from the path parameter param, e.g. a currency code
func (h *ReferenceHandler[T, P]) ByKey(field, param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		value, err := pathParam(c, param)
		if err != nil {
			return handleError(c, err)
		}

		entity, err := h.service.GetByKey(c.UserContext(), field, value, language(c))
		if err != nil {
			return handleError(c, err)
		}
		return response.Success(c, h.service.Name()+" retrieved successfully", entity)
	}
}

// ExistsByKey returns a handler that reports whether a unique field value is taken
func (h *ReferenceHandler[T, P]) ExistsByKey(field, param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		value, err := pathParam(c, param)
		if err != nil {
			return handleError(c, err)
		}

		exists, err := h.service.ExistsByKey(c.UserContext(), field, value)
		if err != nil {
			return handleError(c, err)
		}
		return response.Success(c, "Existence check completed", exists)
	}
}
