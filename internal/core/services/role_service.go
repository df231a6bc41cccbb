package services

import (
	"context"
	"log"
	"strings"

	"statefin-backend/internal/adapters/persistence/models"
	"statefin-backend/internal/adapters/persistence/repositories"
	"statefin-backend/internal/core/domain"
	"statefin-backend/internal/pkg/pagination"
	"statefin-backend/internal/pkg/validation"
)

// RoleService manages roles and their permission links
type RoleService struct {
	store repositories.Store
}

// NewRoleService creates a new role service
func NewRoleService(store repositories.Store) *RoleService {
	return &RoleService{store: store}
}

// RoleInput creates a role, or partially updates one when fields are nil
type RoleInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// Validate checks the input; create requires a name
func (in *RoleInput) Validate(create bool) map[string]string {
	errs := validation.Errors{}
	if create && in.Name == nil {
		errs.Add("name", "name is required")
	}
	errs.Optional(in.Name, func(v string) {
		errs.Required("name", v)
		errs.MinLen("name", strings.TrimSpace(v), 2)
		errs.MaxLen("name", v, 50)
	})
	errs.Optional(in.Description, func(v string) {
		errs.MaxLen("description", v, 255)
	})
	return errs
}

// Create creates a role
func (s *RoleService) Create(ctx context.Context, input *RoleInput) (*models.RoleResponse, error) {
	if errs := input.Validate(true); len(errs) > 0 {
		return nil, domain.Validation(errs)
	}

	role := &models.Role{
		Name:   strings.TrimSpace(*input.Name),
		Active: true,
	}
	if input.Description != nil {
		role.Description = *input.Description
	}
	if input.Active != nil {
		role.Active = *input.Active
	}

	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		taken, err := tx.Roles().ExistsByName(ctx, role.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return domain.AlreadyExists("name", "Role with name "+role.Name+" already exists")
		}
		return duplicate(tx.Roles().Create(ctx, role),
			domain.AlreadyExists("name", "Role with name "+role.Name+" already exists"))
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Role created: %s", role.Name)
	return role.ToResponse(nil), nil
}

// GetByID returns a role with its permissions
func (s *RoleService) GetByID(ctx context.Context, id uint) (*models.RoleResponse, error) {
	role, err := s.store.Roles().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Role", id)
	}
	permissions, err := s.store.Roles().Permissions(ctx, id)
	if err != nil {
		return nil, err
	}
	return role.ToResponse(permissions), nil
}

// List lists all roles, active or not
func (s *RoleService) List(ctx context.Context, params *pagination.Params) (*pagination.Page[*models.RoleResponse], error) {
	roles, total, err := s.store.Roles().List(ctx, params)
	if err != nil {
		return nil, err
	}
	responses, err := s.withPermissions(ctx, roles)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(responses, params, total), nil
}

// ListActive lists the active roles
func (s *RoleService) ListActive(ctx context.Context) ([]*models.RoleResponse, error) {
	roles, err := s.store.Roles().ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return s.withPermissions(ctx, roles)
}

func (s *RoleService) withPermissions(ctx context.Context, roles []*models.Role) ([]*models.RoleResponse, error) {
	ids := make([]uint, 0, len(roles))
	for _, r := range roles {
		ids = append(ids, r.ID)
	}
	permissions, err := s.store.Roles().PermissionsByRoles(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*models.RoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, r.ToResponse(permissions[r.ID]))
	}
	return out, nil
}

// Update applies the non-nil fields; a new name is re-checked for uniqueness
func (s *RoleService) Update(ctx context.Context, id uint, input *RoleInput) (*models.RoleResponse, error) {
	if errs := input.Validate(false); len(errs) > 0 {
		return nil, domain.Validation(errs)
	}

	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		role, err := tx.Roles().GetByID(ctx, id)
		if err != nil {
			return notFound(err, "Role", id)
		}

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name != role.Name {
				taken, err := tx.Roles().ExistsByName(ctx, name, role.ID)
				if err != nil {
					return err
				}
				if taken {
					return domain.AlreadyExists("name", "Role with name "+name+" already exists")
				}
				role.Name = name
			}
		}
		if input.Description != nil {
			role.Description = *input.Description
		}
		if input.Active != nil {
			role.Active = *input.Active
		}
		return duplicate(tx.Roles().Update(ctx, role),
			domain.AlreadyExists("name", "Role with name "+role.Name+" already exists"))
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Delete deactivates a role
func (s *RoleService) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := tx.Roles().GetByID(ctx, id); err != nil {
			return notFound(err, "Role", id)
		}
		return tx.Roles().Deactivate(ctx, id)
	})
}

// Permissions lists the permissions linked to a role
func (s *RoleService) Permissions(ctx context.Context, id uint) ([]*models.PermissionResponse, error) {
	if _, err := s.store.Roles().GetByID(ctx, id); err != nil {
		return nil, notFound(err, "Role", id)
	}
	permissions, err := s.store.Roles().Permissions(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]*models.PermissionResponse, 0, len(permissions))
	for _, p := range permissions {
		out = append(out, p.ToResponse())
	}
	return out, nil
}

// AddPermission links a permission to a role. Linking twice changes nothing.
func (s *RoleService) AddPermission(ctx context.Context, roleID, permissionID uint) (*models.RoleResponse, error) {
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if err := ensureRoleAndPermission(ctx, tx, roleID, permissionID); err != nil {
			return err
		}
		return tx.Roles().AddPermission(ctx, roleID, permissionID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, roleID)
}

// RemovePermission unlinks a permission. Removing an absent link changes nothing.
func (s *RoleService) RemovePermission(ctx context.Context, roleID, permissionID uint) (*models.RoleResponse, error) {
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if err := ensureRoleAndPermission(ctx, tx, roleID, permissionID); err != nil {
			return err
		}
		return tx.Roles().RemovePermission(ctx, roleID, permissionID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, roleID)
}

func ensureRoleAndPermission(ctx context.Context, tx repositories.Store, roleID, permissionID uint) error {
	if _, err := tx.Roles().GetByID(ctx, roleID); err != nil {
		return notFound(err, "Role", roleID)
	}
	if _, err := tx.Permissions().GetByID(ctx, permissionID); err != nil {
		return notFound(err, "Permission", permissionID)
	}
	return nil
}
