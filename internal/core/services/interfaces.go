package services

import (
	"context"

	"statefin-backend/internal/adapters/persistence/models"
)

// Note: AuthService implementation is in auth_service.go
// Note: UserService implementation is in user_service.go

// UserRegistrar creates accounts; AuthService uses it for self-registration
type UserRegistrar interface {
	CreateUser(ctx context.Context, input *RegisterInput) (*models.UserResponse, error)
	GetByID(ctx context.Context, id uint) (*models.UserResponse, error)
}

var _ UserRegistrar = (*UserService)(nil)
