package repositories

import (
	"context"

	"statefin-backend/internal/adapters/persistence/models"
	"statefin-backend/internal/pkg/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserSortColumns are the sortBy values accepted by the user listing
var UserSortColumns = pagination.SortColumns{
	"username":  "username",
	"email":     "email",
	"firstName": "first_name",
	"lastName":  "last_name",
	"active":    "active",
}

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername gets a user by exact username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates a user
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Deactivate soft deletes a user
func (r *userRepository) Deactivate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("active", false).Error
}

// List lists users with pagination
func (r *userRepository) List(ctx context.Context, params *pagination.Params) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	// Count total
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Get users with pagination
	if err := paginate(r.db.WithContext(ctx), params).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// ExistsByUsername checks if username exists
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.User{}), uint(0), "username = ?", username)
}

// ExistsByEmail checks if email exists on another user
func (r *userRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.User{}), excludeID, "email = ?", email)
}

// Roles returns every role linked to the user, active or not
func (r *userRepository) Roles(ctx context.Context, userID uint) ([]*models.Role, error) {
	var roles []*models.Role
	err := r.db.WithContext(ctx).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.id").
		Find(&roles).Error
	return roles, err
}

// AddRole links a role; linking twice is a no-op
func (r *userRepository) AddRole(ctx context.Context, userID, roleID uint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserRole{UserID: userID, RoleID: roleID}).Error
}

// RemoveRole unlinks a role; unlinking an absent link is a no-op
func (r *userRepository) RemoveRole(ctx context.Context, userID, roleID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&models.UserRole{}).Error
}

// ActiveRoleNames returns the names of the user's active roles
func (r *userRepository) ActiveRoleNames(ctx context.Context, userID uint) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&models.Role{}).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ? AND roles.active = ?", userID, true).
		Order("roles.name").
		Pluck("roles.name", &names).Error
	return names, err
}

// ActivePermissionNames returns the active permissions granted by the user's active roles
func (r *userRepository) ActivePermissionNames(ctx context.Context, userID uint) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&models.Permission{}).
		Distinct("permissions.name").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ? AND roles.active = ? AND permissions.active = ?", userID, true, true).
		Order("permissions.name").
		Pluck("permissions.name", &names).Error
	return names, err
}
