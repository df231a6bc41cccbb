package services

import (
	"context"
	"errors"
	"log"

	"statefin-backend/internal/adapters/persistence/models"
	"statefin-backend/internal/adapters/persistence/repositories"
	"statefin-backend/internal/core/domain"
	"statefin-backend/internal/pkg/jwt"
	"statefin-backend/internal/pkg/password"
	"statefin-backend/internal/pkg/validation"

	"gorm.io/gorm"
)

// AuthService handles authentication business logic
type AuthService struct {
	store  repositories.Store
	tokens *jwt.TokenService
	hasher *password.Hasher
	users  UserRegistrar
	// compared against for unknown usernames so they cost the same bcrypt work
	dummyHash string
}

// NewAuthService creates a new auth service
func NewAuthService(
	store repositories.Store,
	tokens *jwt.TokenService,
	hasher *password.Hasher,
	users UserRegistrar,
) *AuthService {
	dummyHash, err := hasher.Hash("statefin-no-such-user")
	if err != nil {
		log.Printf("⚠️ Failed to prepare dummy hash: %v", err)
	}
	return &AuthService{
		store:     store,
		tokens:    tokens,
		hasher:    hasher,
		users:     users,
		dummyHash: dummyHash,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks the login shape
func (in *LoginInput) Validate() map[string]string {
	errs := validation.Errors{}
	errs.Required("username", in.Username)
	errs.Required("password", in.Password)
	return errs
}

// RefreshInput represents refresh input
type RefreshInput struct {
	RefreshToken string `json:"refreshToken"`
}

// Validate checks the refresh shape
func (in *RefreshInput) Validate() map[string]string {
	errs := validation.Errors{}
	errs.Required("refreshToken", in.RefreshToken)
	return errs
}

// LoginResponse is returned by login and refresh
type LoginResponse struct {
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken"`
	TokenType    string               `json:"tokenType"`
	ExpiresIn    int64                `json:"expiresIn"`
	User         *models.UserResponse `json:"user"`
}

// Authenticate checks credentials and builds the principal. Unknown user,
// inactive user and wrong password are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, username, pass string) (*domain.Principal, error) {
	// 1. Find user by exact username
	user, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.hasher.Verify(pass, s.dummyHash)
			return nil, domain.ErrAuthentication
		}
		return nil, err
	}

	// 2. Verify password
	if !s.hasher.Verify(pass, user.Password) {
		return nil, domain.ErrAuthentication
	}

	// 3. Check if user is active
	if !user.Active {
		return nil, domain.ErrAuthentication
	}

	// 4. Load active roles and permissions
	return s.principal(ctx, user)
}

func (s *AuthService) principal(ctx context.Context, user *models.User) (*domain.Principal, error) {
	roles, err := s.store.Users().ActiveRoleNames(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	authorities, err := s.store.Users().ActivePermissionNames(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &domain.Principal{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Authorities: authorities,
		Roles:       roles,
	}, nil
}

// Login authenticates a user and issues a token pair
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginResponse, error) {
	if errs := input.Validate(); len(errs) > 0 {
		return nil, domain.Validation(errs)
	}

	principal, err := s.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		return nil, err
	}

	resp, err := s.issue(ctx, principal)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", principal.Username)
	return resp, nil
}

// Refresh exchanges a valid refresh token for a new pair. The user is
// reloaded, so roles and permissions reflect the current state.
func (s *AuthService) Refresh(ctx context.Context, input *RefreshInput) (*LoginResponse, error) {
	if errs := input.Validate(); len(errs) > 0 {
		return nil, domain.Validation(errs)
	}
	token := input.RefreshToken

	// 1. Signature, algorithm and expiry
	if !s.tokens.Validate(token) {
		if s.tokens.IsExpired(token) {
			return nil, domain.InvalidToken("Refresh token has expired")
		}
		return nil, domain.InvalidToken("Invalid refresh token")
	}

	// 2. Only refresh tokens are accepted
	if s.tokens.TokenType(token) != jwt.TokenTypeRefresh {
		return nil, domain.InvalidToken("Invalid refresh token")
	}

	// 3. Reload the user
	user, err := s.store.Users().GetByID(ctx, s.tokens.UserID(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.InvalidToken("Invalid refresh token")
		}
		return nil, err
	}
	if !user.Active || user.Username != s.tokens.Subject(token) {
		return nil, domain.InvalidToken("Invalid refresh token")
	}

	// 4. Issue a new pair
	principal, err := s.principal(ctx, user)
	if err != nil {
		return nil, err
	}
	resp, err := s.issue(ctx, principal)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Token refreshed for user: %s", user.Username)
	return resp, nil
}

// Register creates an account with the USER role
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.UserResponse, error) {
	return s.users.CreateUser(ctx, input)
}

func (s *AuthService) issue(ctx context.Context, principal *domain.Principal) (*LoginResponse, error) {
	accessToken, err := s.tokens.IssueAccessToken(principal)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.IssueRefreshToken(principal)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
		User:         user,
	}, nil
}
