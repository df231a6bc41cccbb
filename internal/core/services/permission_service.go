package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"statefin-backend/internal/adapters/persistence/models"
	"statefin-backend/internal/adapters/persistence/repositories"
	"statefin-backend/internal/core/domain"
	"statefin-backend/internal/pkg/pagination"
	"statefin-backend/internal/pkg/validation"
)

// PermissionService manages permissions
type PermissionService struct {
	store repositories.Store
}

// NewPermissionService creates a new permission service
func NewPermissionService(store repositories.Store) *PermissionService {
	return &PermissionService{store: store}
}

// PermissionInput creates a permission, or partially updates one when fields are nil
type PermissionInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Resource    *string `json:"resource"`
	Action      *string `json:"action"`
	Active      *bool   `json:"active"`
}

// Validate checks the input; create requires name, resource and action
func (in *PermissionInput) Validate(create bool) map[string]string {
	errs := validation.Errors{}
	if create {
		for field, v := range map[string]*string{"name": in.Name, "resource": in.Resource, "action": in.Action} {
			if v == nil {
				errs.Add(field, field+" is required")
			}
		}
	}
	check := func(field string, max int) func(string) {
		return func(v string) {
			errs.Required(field, v)
			errs.MinLen(field, strings.TrimSpace(v), 2)
			errs.MaxLen(field, v, max)
		}
	}
	errs.Optional(in.Name, check("name", 100))
	errs.Optional(in.Resource, check("resource", 50))
	errs.Optional(in.Action, check("action", 50))
	errs.Optional(in.Description, func(v string) {
		errs.MaxLen("description", v, 255)
	})
	return errs
}

// Create creates a permission. Name and (resource, action) are checked
// independently; either collision fails.
func (s *PermissionService) Create(ctx context.Context, input *PermissionInput) (*models.PermissionResponse, error) {
	if errs := input.Validate(true); len(errs) > 0 {
		return nil, domain.Validation(errs)
	}

	permission := &models.Permission{
		Name:     strings.TrimSpace(*input.Name),
		Resource: strings.TrimSpace(*input.Resource),
		Action:   strings.TrimSpace(*input.Action),
		Active:   true,
	}
	if input.Description != nil {
		permission.Description = *input.Description
	}
	if input.Active != nil {
		permission.Active = *input.Active
	}

	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if err := s.checkUnique(ctx, tx, permission, 0); err != nil {
			return err
		}
		return duplicate(tx.Permissions().Create(ctx, permission), permissionTaken(permission))
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Permission created: %s", permission.Name)
	return permission.ToResponse(), nil
}

func (s *PermissionService) checkUnique(ctx context.Context, tx repositories.Store, p *models.Permission, excludeID uint) error {
	taken, err := tx.Permissions().ExistsByName(ctx, p.Name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return domain.AlreadyExists("name", fmt.Sprintf("Permission with name %s already exists", p.Name))
	}

	taken, err = tx.Permissions().ExistsByResourceAction(ctx, p.Resource, p.Action, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return domain.AlreadyExists("resource", fmt.Sprintf("Permission for resource %s and action %s already exists", p.Resource, p.Action))
	}
	return nil
}

func permissionTaken(p *models.Permission) error {
	return domain.AlreadyExists("name", fmt.Sprintf("Permission %s or resource %s with action %s already exists", p.Name, p.Resource, p.Action))
}

// GetByID returns one permission
func (s *PermissionService) GetByID(ctx context.Context, id uint) (*models.PermissionResponse, error) {
	permission, err := s.store.Permissions().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Permission", id)
	}
	return permission.ToResponse(), nil
}

// List lists all permissions, active or not
func (s *PermissionService) List(ctx context.Context, params *pagination.Params) (*pagination.Page[*models.PermissionResponse], error) {
	permissions, total, err := s.store.Permissions().List(ctx, params)
	if err != nil {
		return nil, err
	}
	page := pagination.NewPage(permissions, params, total)
	return pagination.Map(page, (*models.Permission).ToResponse), nil
}

// ListActive lists the active permissions
func (s *PermissionService) ListActive(ctx context.Context) ([]*models.PermissionResponse, error) {
	permissions, err := s.store.Permissions().ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.PermissionResponse, 0, len(permissions))
	for _, p := range permissions {
		out = append(out, p.ToResponse())
	}
	return out, nil
}

// Update applies the non-nil fields and re-checks both uniqueness rules
func (s *PermissionService) Update(ctx context.Context, id uint, input *PermissionInput) (*models.PermissionResponse, error) {
	if errs := input.Validate(false); len(errs) > 0 {
		return nil, domain.Validation(errs)
	}

	var updated *models.Permission
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		permission, err := tx.Permissions().GetByID(ctx, id)
		if err != nil {
			return notFound(err, "Permission", id)
		}

		if input.Name != nil {
			permission.Name = strings.TrimSpace(*input.Name)
		}
		if input.Resource != nil {
			permission.Resource = strings.TrimSpace(*input.Resource)
		}
		if input.Action != nil {
			permission.Action = strings.TrimSpace(*input.Action)
		}
		if input.Description != nil {
			permission.Description = *input.Description
		}
		if input.Active != nil {
			permission.Active = *input.Active
		}

		if err := s.checkUnique(ctx, tx, permission, permission.ID); err != nil {
			return err
		}
		updated = permission
		return duplicate(tx.Permissions().Update(ctx, permission), permissionTaken(permission))
	})
	if err != nil {
		return nil, err
	}
	return updated.ToResponse(), nil
}

// Delete deactivates a permission
func (s *PermissionService) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := tx.Permissions().GetByID(ctx, id); err != nil {
			return notFound(err, "Permission", id)
		}
		return tx.Permissions().Deactivate(ctx, id)
	})
}

// Resources lists the distinct resources of active permissions
func (s *PermissionService) Resources(ctx context.Context) ([]string, error) {
	resources, err := s.store.Permissions().Resources(ctx)
	if resources == nil {
		resources = []string{}
	}
	return resources, err
}

// Actions lists the distinct actions of active permissions
func (s *PermissionService) Actions(ctx context.Context) ([]string, error) {
	actions, err := s.store.Permissions().Actions(ctx)
	if actions == nil {
		actions = []string{}
	}
	return actions, err
}
