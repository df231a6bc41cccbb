package repositories

import (
	"context"

	"statefin-backend/internal/adapters/persistence/models"
	"statefin-backend/internal/pkg/pagination"

	"gorm.io/gorm"
)

// Store is the unit of work. Repositories obtained from the Store passed to a
// Transaction callback share that transaction.
type Store interface {
	Users() UserRepository
	Roles() RoleRepository
	Permissions() PermissionRepository
	Decisions() DecisionRepository
	// Transaction runs fn atomically; any error rolls back
	Transaction(ctx context.Context, fn func(tx Store) error) error
	// Conn exposes the underlying handle for generic repositories
	Conn() *gorm.DB
}

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Deactivate(ctx context.Context, id uint) error
	List(ctx context.Context, params *pagination.Params) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// ExistsByEmail ignores the user with excludeID (0 excludes nobody)
	ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error)

	Roles(ctx context.Context, userID uint) ([]*models.Role, error)
	AddRole(ctx context.Context, userID, roleID uint) error
	RemoveRole(ctx context.Context, userID, roleID uint) error
	// ActiveRoleNames and ActivePermissionNames are what a principal carries
	ActiveRoleNames(ctx context.Context, userID uint) ([]string, error)
	ActivePermissionNames(ctx context.Context, userID uint) ([]string, error)
}

// RoleRepository defines role repository interface
type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	GetByID(ctx context.Context, id uint) (*models.Role, error)
	GetByName(ctx context.Context, name string) (*models.Role, error)
	Update(ctx context.Context, role *models.Role) error
	Deactivate(ctx context.Context, id uint) error
	List(ctx context.Context, params *pagination.Params) ([]*models.Role, int64, error)
	ListActive(ctx context.Context) ([]*models.Role, error)
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)

	Permissions(ctx context.Context, roleID uint) ([]*models.Permission, error)
	PermissionsByRoles(ctx context.Context, roleIDs []uint) (map[uint][]*models.Permission, error)
	AddPermission(ctx context.Context, roleID, permissionID uint) error
	RemovePermission(ctx context.Context, roleID, permissionID uint) error
	// RoleIDsWithPermission returns the roles linked to the permission
	RoleIDsWithPermission(ctx context.Context, permissionID uint) ([]uint, error)
}

// PermissionRepository defines permission repository interface
type PermissionRepository interface {
	Create(ctx context.Context, permission *models.Permission) error
	GetByID(ctx context.Context, id uint) (*models.Permission, error)
	GetByName(ctx context.Context, name string) (*models.Permission, error)
	Update(ctx context.Context, permission *models.Permission) error
	Deactivate(ctx context.Context, id uint) error
	List(ctx context.Context, params *pagination.Params) ([]*models.Permission, int64, error)
	ListActive(ctx context.Context) ([]*models.Permission, error)
	ListAll(ctx context.Context) ([]*models.Permission, error)
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
	ExistsByResourceAction(ctx context.Context, resource, action string, excludeID uint) (bool, error)
	Resources(ctx context.Context) ([]string, error)
	Actions(ctx context.Context) ([]string, error)
}

// DecisionFilter narrows a decision search. Zero values do not filter.
type DecisionFilter struct {
	SearchTerm           string
	DecisionMakingBodyID uint
	DecisionTypeID       uint
	Status               string
}

// DecisionRepository defines decision repository interface
type DecisionRepository interface {
	Create(ctx context.Context, decision *models.Decision) error
	GetByID(ctx context.Context, id string) (*models.Decision, error)
	// Update writes the decision only if the stored version is still expectedVersion
	Update(ctx context.Context, decision *models.Decision, expectedVersion uint) error
	// Delete removes the decision only if the stored version is still expectedVersion
	Delete(ctx context.Context, id string, expectedVersion uint) error
	List(ctx context.Context, filter DecisionFilter, params *pagination.Params) ([]*models.Decision, int64, error)
	// ExistsByNumber ignores the decision with excludeID ("" excludes nobody)
	ExistsByNumber(ctx context.Context, number, excludeID string) (bool, error)
	CountByColumn(ctx context.Context, column string, id uint) (int64, error)
}

// ReferenceRepository is the storage of one multilingual reference type
type ReferenceRepository[P models.Reference] interface {
	Create(ctx context.Context, entity P) error
	GetByID(ctx context.Context, id uint) (P, error)
	// GetBy finds by a unique column, e.g. "code"
	GetBy(ctx context.Context, column string, value any) (P, error)
	Update(ctx context.Context, entity P, expectedVersion uint) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, params *pagination.Params) ([]P, int64, error)
	ListActive(ctx context.Context) ([]P, error)
	Search(ctx context.Context, term string, params *pagination.Params) ([]P, int64, error)
	// ExistsBy ignores the row with excludeID (0 excludes nobody)
	ExistsBy(ctx context.Context, column string, value any, excludeID uint) (bool, error)
}

// ReferenceUsage tells whether a reference row is used by other aggregates
type ReferenceUsage interface {
	IsReferenced(ctx context.Context, id uint) (bool, error)
}
