package services

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"

	"statefin-backend/internal/adapters/persistence/models"
	"statefin-backend/internal/adapters/persistence/repositories"
	"statefin-backend/internal/core/domain"
	"statefin-backend/internal/pkg/pagination"
	"statefin-backend/internal/pkg/password"
	"statefin-backend/internal/pkg/validation"

	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// UserService handles user management business logic
type UserService struct {
	store  repositories.Store
	hasher *password.Hasher
}

// NewUserService creates a new user service
func NewUserService(store repositories.Store, hasher *password.Hasher) *UserService {
	return &UserService{
		store:  store,
		hasher: hasher,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Validate checks the registration shape
func (in *RegisterInput) Validate() map[string]string {
	errs := validation.Errors{}
	errs.Required("username", in.Username)
	errs.MinLen("username", in.Username, 3)
	errs.MaxLen("username", in.Username, 50)
	errs.Pattern("username", in.Username, usernamePattern, "username may contain letters, digits, dot, dash and underscore only")
	errs.Required("email", in.Email)
	errs.MaxLen("email", in.Email, 100)
	errs.Email("email", in.Email)
	errs.Required("password", in.Password)
	if in.Password != "" && !password.ValidatePassword(in.Password) {
		errs.Add("password", "password must be at least 8 characters")
	}
	errs.MaxLen("firstName", in.FirstName, 50)
	errs.MaxLen("lastName", in.LastName, 50)
	return errs
}

// UpdateUserInput represents a partial user update
type UpdateUserInput struct {
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Active    *bool   `json:"active"`
}

// Validate checks the set fields
func (in *UpdateUserInput) Validate() map[string]string {
	errs := validation.Errors{}
	errs.Optional(in.Email, func(v string) {
		errs.Required("email", v)
		errs.MaxLen("email", v, 100)
		errs.Email("email", v)
	})
	errs.Optional(in.FirstName, func(v string) {
		errs.MinLen("firstName", v, 1)
		errs.MaxLen("firstName", v, 50)
	})
	errs.Optional(in.LastName, func(v string) {
		errs.MinLen("lastName", v, 1)
		errs.MaxLen("lastName", v, 50)
	})
	return errs
}

// CreateUser registers a user and grants the USER role, creating the role on first use.
func (s *UserService) CreateUser(ctx context.Context, input *RegisterInput) (*models.UserResponse, error) {
	if errs := input.Validate(); len(errs) > 0 {
		return nil, domain.Validation(errs)
	}
	input.Email = strings.TrimSpace(input.Email)

	// Hash outside the transaction, bcrypt is slow
	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	var userID uint
	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		// 1. Check username
		taken, err := tx.Users().ExistsByUsername(ctx, input.Username)
		if err != nil {
			return err
		}
		if taken {
			return domain.AlreadyExists("username", "Username is already taken")
		}

		// 2. Check email
		taken, err = tx.Users().ExistsByEmail(ctx, input.Email, 0)
		if err != nil {
			return err
		}
		if taken {
			return domain.AlreadyExists("email", "Email is already registered")
		}

		// 3. Create user
		user := &models.User{
			Username:  input.Username,
			Email:     input.Email,
			Password:  hashed,
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Active:    true,
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			return duplicate(err, domain.AlreadyExists("username", "Username or email is already taken"))
		}

		// 4. Grant the default role
		role, err := s.defaultRole(ctx, tx)
		if err != nil {
			return err
		}
		if err := tx.Users().AddRole(ctx, user.ID, role.ID); err != nil {
			return err
		}

		userID = user.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User registered: %s", input.Username)
	return s.GetByID(ctx, userID)
}

func (s *UserService) defaultRole(ctx context.Context, tx repositories.Store) (*models.Role, error) {
	role, err := tx.Roles().GetByName(ctx, domain.RoleUser)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role = &models.Role{Name: domain.RoleUser, Description: "Default role for users", Active: true}
	if err := tx.Roles().Create(ctx, role); err != nil {
		return nil, err
	}
	log.Printf("🌱 Default role %s created", domain.RoleUser)
	return role, nil
}

// GetByID returns a user with roles and their permissions
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.UserResponse, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User", id)
	}
	return s.toResponse(ctx, s.store, user)
}

// Me returns the caller's own profile
func (s *UserService) Me(ctx context.Context, principal *domain.Principal) (*models.UserResponse, error) {
	if !principal.IsAuthenticated() {
		return nil, domain.ErrAuthentication
	}
	return s.GetByID(ctx, principal.UserID)
}

// List lists all users, active or not
func (s *UserService) List(ctx context.Context, params *pagination.Params) (*pagination.Page[*models.UserResponse], error) {
	users, total, err := s.store.Users().List(ctx, params)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.UserResponse, 0, len(users))
	for _, user := range users {
		resp, err := s.toResponse(ctx, s.store, user)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return pagination.NewPage(responses, params, total), nil
}

// Update applies the non-nil fields of input
func (s *UserService) Update(ctx context.Context, id uint, input *UpdateUserInput) (*models.UserResponse, error) {
	if errs := input.Validate(); len(errs) > 0 {
		return nil, domain.Validation(errs)
	}

	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		user, err := tx.Users().GetByID(ctx, id)
		if err != nil {
			return notFound(err, "User", id)
		}

		if input.Email != nil {
			email := strings.TrimSpace(*input.Email)
			if email != user.Email {
				taken, err := tx.Users().ExistsByEmail(ctx, email, user.ID)
				if err != nil {
					return err
				}
				if taken {
					return domain.AlreadyExists("email", "Email is already registered")
				}
				user.Email = email
			}
		}
		if input.FirstName != nil {
			user.FirstName = *input.FirstName
		}
		if input.LastName != nil {
			user.LastName = *input.LastName
		}
		if input.Active != nil {
			user.Active = *input.Active
		}
		return duplicate(tx.Users().Update(ctx, user),
			domain.AlreadyExists("email", "Email is already registered"))
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User updated: id=%d", id)
	return s.GetByID(ctx, id)
}

// Delete deactivates a user; the row and its links are kept
func (s *UserService) Delete(ctx context.Context, id uint) error {
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := tx.Users().GetByID(ctx, id); err != nil {
			return notFound(err, "User", id)
		}
		return tx.Users().Deactivate(ctx, id)
	})
	if err != nil {
		return err
	}
	log.Printf("✅ User deactivated: id=%d", id)
	return nil
}

// AddRole grants a role. Granting a held role changes nothing.
func (s *UserService) AddRole(ctx context.Context, userID, roleID uint) (*models.UserResponse, error) {
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if err := s.ensureUserAndRole(ctx, tx, userID, roleID); err != nil {
			return err
		}
		return tx.Users().AddRole(ctx, userID, roleID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, userID)
}

// RemoveRole revokes a role. Revoking a role the user lacks changes nothing.
func (s *UserService) RemoveRole(ctx context.Context, userID, roleID uint) (*models.UserResponse, error) {
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if err := s.ensureUserAndRole(ctx, tx, userID, roleID); err != nil {
			return err
		}
		return tx.Users().RemoveRole(ctx, userID, roleID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, userID)
}

func (s *UserService) ensureUserAndRole(ctx context.Context, tx repositories.Store, userID, roleID uint) error {
	if _, err := tx.Users().GetByID(ctx, userID); err != nil {
		return notFound(err, "User", userID)
	}
	if _, err := tx.Roles().GetByID(ctx, roleID); err != nil {
		return notFound(err, "Role", roleID)
	}
	return nil
}

// toResponse nests the user's roles with their permissions
func (s *UserService) toResponse(ctx context.Context, store repositories.Store, user *models.User) (*models.UserResponse, error) {
	roles, err := store.Users().Roles(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	roleIDs := make([]uint, 0, len(roles))
	for _, r := range roles {
		roleIDs = append(roleIDs, r.ID)
	}
	permissions, err := store.Roles().PermissionsByRoles(ctx, roleIDs)
	if err != nil {
		return nil, err
	}

	roleResponses := make([]*models.RoleResponse, 0, len(roles))
	for _, r := range roles {
		roleResponses = append(roleResponses, r.ToResponse(permissions[r.ID]))
	}
	return user.ToResponse(roleResponses), nil
}
