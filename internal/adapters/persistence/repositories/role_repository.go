package repositories

import (
	"context"

	"statefin-backend/internal/adapters/persistence/models"
	"statefin-backend/internal/pkg/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoleSortColumns are the sortBy values accepted by the role listing
var RoleSortColumns = pagination.SortColumns{
	"name":   "name",
	"active": "active",
}

// roleRepository implements RoleRepository interface
type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *roleRepository) GetByID(ctx context.Context, id uint) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) Update(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Save(role).Error
}

// Deactivate soft deletes a role. Its links are kept.
func (r *roleRepository) Deactivate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Role{}).Where("id = ?", id).Update("active", false).Error
}

func (r *roleRepository) List(ctx context.Context, params *pagination.Params) ([]*models.Role, int64, error) {
	var roles []*models.Role
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Role{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(r.db.WithContext(ctx), params).Find(&roles).Error; err != nil {
		return nil, 0, err
	}
	return roles, total, nil
}

func (r *roleRepository) ListActive(ctx context.Context) ([]*models.Role, error) {
	var roles []*models.Role
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("name").Find(&roles).Error
	return roles, err
}

func (r *roleRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.Role{}), excludeID, "name = ?", name)
}

// Permissions returns every permission linked to the role
func (r *roleRepository) Permissions(ctx context.Context, roleID uint) ([]*models.Permission, error) {
	var permissions []*models.Permission
	err := r.db.WithContext(ctx).
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Order("permissions.id").
		Find(&permissions).Error
	return permissions, err
}

// PermissionsByRoles loads the permissions of several roles in one query
func (r *roleRepository) PermissionsByRoles(ctx context.Context, roleIDs []uint) (map[uint][]*models.Permission, error) {
	result := make(map[uint][]*models.Permission, len(roleIDs))
	if len(roleIDs) == 0 {
		return result, nil
	}

	var links []models.RolePermission
	if err := r.db.WithContext(ctx).Where("role_id IN ?", roleIDs).Find(&links).Error; err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return result, nil
	}

	permissionIDs := make([]uint, 0, len(links))
	for _, l := range links {
		permissionIDs = append(permissionIDs, l.PermissionID)
	}

	var permissions []*models.Permission
	if err := r.db.WithContext(ctx).Where("id IN ?", permissionIDs).Order("id").Find(&permissions).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]*models.Permission, len(permissions))
	for _, p := range permissions {
		byID[p.ID] = p
	}

	for _, l := range links {
		if p, ok := byID[l.PermissionID]; ok {
			result[l.RoleID] = append(result[l.RoleID], p)
		}
	}
	return result, nil
}

// AddPermission links a permission; linking twice is a no-op
func (r *roleRepository) AddPermission(ctx context.Context, roleID, permissionID uint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.RolePermission{RoleID: roleID, PermissionID: permissionID}).Error
}

// RemovePermission unlinks a permission; unlinking an absent link is a no-op
func (r *roleRepository) RemovePermission(ctx context.Context, roleID, permissionID uint) error {
	return r.db.WithContext(ctx).
		Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Delete(&models.RolePermission{}).Error
}

func (r *roleRepository) RoleIDsWithPermission(ctx context.Context, permissionID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.RolePermission{}).
		Where("permission_id = ?", permissionID).
		Order("role_id").
		Pluck("role_id", &ids).Error
	return ids, err
}
