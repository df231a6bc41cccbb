package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Credential store: users, roles, permissions
// ============================================================

// User represents users table
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	FirstName string    `gorm:"size:50" json:"firstName"`
	LastName  string    `gorm:"size:50" json:"lastName"`
	Active    bool      `gorm:"not null" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// Role represents roles table
type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	Active      bool      `gorm:"not null" json:"active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Role) TableName() string {
	return "roles"
}

// Permission represents permissions table. (resource, action) is unique as a pair.
type Permission struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Resource    string    `gorm:"uniqueIndex:idx_permissions_resource_action;size:50;not null" json:"resource"`
	Action      string    `gorm:"uniqueIndex:idx_permissions_resource_action;size:50;not null" json:"action"`
	Description string    `gorm:"size:255" json:"description"`
	Active      bool      `gorm:"not null" json:"active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Permission) TableName() string {
	return "permissions"
}

// UserRole links a user to a role. The single row serves both directions.
type UserRole struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false"`
	RoleID    uint      `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

// RolePermission links a role to a permission
type RolePermission struct {
	RoleID       uint      `gorm:"primaryKey;autoIncrement:false"`
	PermissionID uint      `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

// ============================================================
// Response DTOs
// ============================================================

// PermissionResponse DTO
type PermissionResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Resource    string    `json:"resource"`
	Action      string    `json:"action"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p *Permission) ToResponse() *PermissionResponse {
	return &PermissionResponse{
		ID:          p.ID,
		Name:        p.Name,
		Resource:    p.Resource,
		Action:      p.Action,
		Description: p.Description,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// RoleResponse DTO
type RoleResponse struct {
	ID          uint                  `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Active      bool                  `json:"active"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
	Permissions []*PermissionResponse `json:"permissions"`
}

func (r *Role) ToResponse(permissions []*Permission) *RoleResponse {
	resp := &RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Active:      r.Active,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Permissions: make([]*PermissionResponse, 0, len(permissions)),
	}
	for _, p := range permissions {
		resp.Permissions = append(resp.Permissions, p.ToResponse())
	}
	return resp
}

// UserResponse DTO
type UserResponse struct {
	ID        uint            `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	FirstName string          `json:"firstName,omitempty"`
	LastName  string          `json:"lastName,omitempty"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Roles     []*RoleResponse `json:"roles"`
}

func (u *User) ToResponse(roles []*RoleResponse) *UserResponse {
	if roles == nil {
		roles = []*RoleResponse{}
	}
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		Roles:     roles,
	}
}

// AutoMigrate runs auto migration for every table.
// MySQL tables use a binary collation so usernames and names compare case-sensitively.
func AutoMigrate(db *gorm.DB) error {
	if db.Dialector.Name() == "mysql" {
		db = db.Set("gorm:table_options", "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_bin")
	}
	return db.AutoMigrate(
		&User{},
		&Role{},
		&Permission{},
		&UserRole{},
		&RolePermission{},
		&Currency{},
		&CreditPurpose{},
		&DecisionType{},
		&DecisionMakingBody{},
		&FloatingRateType{},
		&RepaymentOrder{},
		&NotaryOffice{},
		&Decision{},
	)
}
