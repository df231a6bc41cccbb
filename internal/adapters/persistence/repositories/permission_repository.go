package repositories

import (
	"context"

	"statefin-backend/internal/adapters/persistence/models"
	"statefin-backend/internal/pkg/pagination"

	"gorm.io/gorm"
)

// PermissionSortColumns are the sortBy values accepted by the permission listing
var PermissionSortColumns = pagination.SortColumns{
	"name":     "name",
	"resource": "resource",
	"action":   "action",
	"active":   "active",
}

// permissionRepository implements PermissionRepository interface
type permissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository creates a new permission repository
func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

func (r *permissionRepository) Create(ctx context.Context, permission *models.Permission) error {
	return r.db.WithContext(ctx).Create(permission).Error
}

func (r *permissionRepository) GetByID(ctx context.Context, id uint) (*models.Permission, error) {
	var permission models.Permission
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&permission).Error; err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *permissionRepository) GetByName(ctx context.Context, name string) (*models.Permission, error) {
	var permission models.Permission
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&permission).Error; err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *permissionRepository) Update(ctx context.Context, permission *models.Permission) error {
	return r.db.WithContext(ctx).Save(permission).Error
}

// Deactivate soft deletes a permission
func (r *permissionRepository) Deactivate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Permission{}).Where("id = ?", id).Update("active", false).Error
}

func (r *permissionRepository) List(ctx context.Context, params *pagination.Params) ([]*models.Permission, int64, error) {
	var permissions []*models.Permission
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Permission{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(r.db.WithContext(ctx), params).Find(&permissions).Error; err != nil {
		return nil, 0, err
	}
	return permissions, total, nil
}

func (r *permissionRepository) ListActive(ctx context.Context) ([]*models.Permission, error) {
	var permissions []*models.Permission
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("resource, action").Find(&permissions).Error
	return permissions, err
}

func (r *permissionRepository) ListAll(ctx context.Context) ([]*models.Permission, error) {
	var permissions []*models.Permission
	err := r.db.WithContext(ctx).Order("id").Find(&permissions).Error
	return permissions, err
}

func (r *permissionRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.Permission{}), excludeID, "name = ?", name)
}

func (r *permissionRepository) ExistsByResourceAction(ctx context.Context, resource, action string, excludeID uint) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.Permission{}), excludeID, "resource = ? AND action = ?", resource, action)
}

// Resources returns the distinct resources of active permissions
func (r *permissionRepository) Resources(ctx context.Context) ([]string, error) {
	var resources []string
	err := r.db.WithContext(ctx).Model(&models.Permission{}).
		Where("active = ?", true).
		Distinct("resource").
		Order("resource").
		Pluck("resource", &resources).Error
	return resources, err
}

// Actions returns the distinct actions of active permissions
func (r *permissionRepository) Actions(ctx context.Context) ([]string, error) {
	var actions []string
	err := r.db.WithContext(ctx).Model(&models.Permission{}).
		Where("active = ?", true).
		Distinct("action").
		Order("action").
		Pluck("action", &actions).Error
	return actions, err
}
