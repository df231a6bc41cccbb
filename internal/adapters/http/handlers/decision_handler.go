package handlers

import (
	"statefin-backend/internal/adapters/http/middleware"
	"statefin-backend/internal/adapters/persistence/models"
	"statefin-backend/internal/adapters/persistence/repositories"
	"statefin-backend/internal/core/services"
	"statefin-backend/internal/pkg/pagination"
	"statefin-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DecisionHandler handles decision endpoints
type DecisionHandler struct {
	decisionService *services.DecisionService
}

// NewDecisionHandler creates a new decision handler
func NewDecisionHandler(decisionService *services.DecisionService) *DecisionHandler {
	return &DecisionHandler{decisionService: decisionService}
}

// Create creates a decision
// @Summary Create decision
// @Description Status defaults to DRAFT; the number must be unique
// @Tags Decisions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.DecisionInput true "Decision"
// @Success 201 {object} response.Response{data=models.DecisionResponse}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /decisions [post]
func (h *DecisionHandler) Create(c *fiber.Ctx) error {
	var input services.DecisionInput
	if err := parseBody(c, &input); err != nil {
		return handleError(c, err)
	}

	decision, err := h.decisionService.Create(c.UserContext(), middleware.GetPrincipal(c), &input)
	if err != nil {
		return handleError(c, err)
	}
	return response.Created(c, "Decision created successfully", decision.ToResponse(language(c)))
}

// Get gets a decision by ID
// @Summary Get decision
// @Tags Decisions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Decision ID (UUID)"
// @Success 200 {object} response.Response{data=models.DecisionResponse}
// @Failure 404 {object} response.Response
// @Router /decisions/{id} [get]
func (h *DecisionHandler) Get(c *fiber.Ctx) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	decision, err := h.decisionService.GetByID(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Decision retrieved successfully", decision.ToResponse(language(c)))
}

// List lists all decisions
// @Summary List decisions
// @Tags Decisions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Items per page" default(20)
// @Param sortBy query string false "Sort field" default(id)
// @Param sortDir query string false "asc or desc" default(asc)
// @Success 200 {object} response.Response
// @Router /decisions [get]
func (h *DecisionHandler) List(c *fiber.Ctx) error {
	return h.list(c, repositories.DecisionFilter{})
}

// Search pages over decisions matching searchTerm, including type and body names
// @Summary Search decisions
// @Tags Decisions
// @Produce json
// @Security BearerAuth
// @Param searchTerm query string true "Case-insensitive substring"
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /decisions/search [get]
func (h *DecisionHandler) Search(c *fiber.Ctx) error {
	return h.list(c, repositories.DecisionFilter{SearchTerm: c.Query("searchTerm")})
}

// SearchAndFilter combines the search term with body, type and status filters
// @Summary Search and filter decisions
// @Tags Decisions
// @Produce json
// @Security BearerAuth
// @Param searchTerm query string false "Case-insensitive substring"
// @Param decisionMakingBodyId query int false "Decision making body ID"
// @Param decisionTypeId query int false "Decision type ID"
// @Param status query string false "Decision status"
// @Param page query int false "Page number (0-based)" default(0)
// @Param size query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /decisions/search-and-filter [get]
func (h *DecisionHandler) SearchAndFilter(c *fiber.Ctx) error {
	bodyID, err := queryID(c, "decisionMakingBodyId")
	if err != nil {
		return handleError(c, err)
	}
	typeID, err := queryID(c, "decisionTypeId")
	if err != nil {
		return handleError(c, err)
	}

	return h.list(c, repositories.DecisionFilter{
		SearchTerm:           c.Query("searchTerm"),
		DecisionMakingBodyID: bodyID,
		DecisionTypeID:       typeID,
		Status:               c.Query("status"),
	})
}

func (h *DecisionHandler) list(c *fiber.Ctx, filter repositories.DecisionFilter) error {
	params := pagination.GetParams(c, repositories.DecisionSortColumns)

	page, err := h.decisionService.List(c.UserContext(), filter, params)
	if err != nil {
		return handleError(c, err)
	}

	lang := language(c)
	return response.Success(c, "Decisions retrieved successfully",
		pagination.Map(page, func(d *models.Decision) *models.DecisionResponse {
			return d.ToResponse(lang)
		}))
}

// Update partially updates a decision that is not in a final state
// @Summary Update decision
// @Tags Decisions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Decision ID (UUID)"
// @Param body body services.DecisionInput true "Fields to change"
// @Success 200 {object} response.Response{data=models.DecisionResponse}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /decisions/{id} [put]
func (h *DecisionHandler) Update(c *fiber.Ctx) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return handleError(c, err)
	}
	var input services.DecisionInput
	if err := parseBody(c, &input); err != nil {
		return handleError(c, err)
	}

	decision, err := h.decisionService.Update(c.UserContext(), middleware.GetPrincipal(c), id, &input)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Decision updated successfully", decision.ToResponse(language(c)))
}

// Delete removes a decision that is not in a final state
// @Summary Delete decision
// @Tags Decisions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Decision ID (UUID)"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /decisions/{id} [delete]
func (h *DecisionHandler) Delete(c *fiber.Ctx) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return handleError(c, err)
	}

	if err := h.decisionService.Delete(c.UserContext(), id); err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Decision deleted successfully", nil)
}

// ExistsByNumber reports whether a decision number is taken
// @Summary Decision number exists
// @Tags Decisions
// @Produce json
// @Security BearerAuth
// @Param number path string true "Decision number"
// @Success 200 {object} response.Response{data=bool}
// @Router /decisions/exists/number/{number} [get]
func (h *DecisionHandler) ExistsByNumber(c *fiber.Ctx) error {
	number, err := pathParam(c, "number")
	if err != nil {
		return handleError(c, err)
	}

	exists, err := h.decisionService.ExistsByNumber(c.UserContext(), number)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Existence check completed", exists)
}
