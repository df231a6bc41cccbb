package jwt

import (
	"errors"
	"time"

	"statefin-backend/internal/core/domain"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is stamped into every token.
const Issuer = "statefin"

// TokenTypeRefresh marks refresh tokens; access tokens carry no type.
const TokenTypeRefresh = "refresh"

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims is the claim set of both token kinds
type Claims struct {
	UserID      uint     `json:"userId"`
	Email       string   `json:"email,omitempty"`
	Authorities []string `json:"authorities,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	TokenType   string   `json:"tokenType,omitempty"`
	jwt.RegisteredClaims
}

// Config holds the signing secret and lifetimes
type Config struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Option customizes a TokenService
type Option func(*TokenService)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) {
		s.now = now
	}
}

// TokenService issues and verifies HS256 tokens. It does no I/O.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService creates a token service
func NewTokenService(cfg Config, opts ...Option) *TokenService {
	s := &TokenService{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AccessTTL returns the configured access token lifetime
func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

// IssueAccessToken signs an access token carrying the principal's authorities and roles.
func (s *TokenService) IssueAccessToken(p *domain.Principal) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:      p.UserID,
		Email:       p.Email,
		Authorities: p.Authorities,
		Roles:       p.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Username,
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	return s.sign(claims)
}

// IssueRefreshToken signs a refresh token. Authorities are re-derived at refresh time.
func (s *TokenService) IssueRefreshToken(p *domain.Principal) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:    p.UserID,
		TokenType: TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Username,
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
	}
	return s.sign(claims)
}

func (s *TokenService) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrTokenInvalid
	}
	return s.secret, nil
}

// Parse verifies signature and expiry and returns the claims.
func (s *TokenService) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Validate fails closed: any parse, signature or expiry problem yields false.
func (s *TokenService) Validate(tokenString string) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	_, err := s.Parse(tokenString)
	return err == nil
}

// IsExpired compares the signed expiry with the clock. Unparseable input counts as expired.
func (s *TokenService) IsExpired(tokenString string) (expired bool) {
	defer func() {
		if recover() != nil {
			expired = true
		}
	}()
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || claims.ExpiresAt == nil {
		return true
	}
	return !s.now().Before(claims.ExpiresAt.Time)
}

// unverified reads claims without checking anything. Callers validate first.
func (s *TokenService) unverified(tokenString string) *Claims {
	claims := &Claims{}
	_, _, err := jwt.NewParser().ParseUnverified(tokenString, claims)
	if err != nil {
		return &Claims{}
	}
	return claims
}

// Subject returns the username of a validated token
func (s *TokenService) Subject(tokenString string) string {
	return s.unverified(tokenString).Subject
}

// UserID returns the user id of a validated token
func (s *TokenService) UserID(tokenString string) uint {
	return s.unverified(tokenString).UserID
}

// Authorities returns the authorities of a validated access token
func (s *TokenService) Authorities(tokenString string) []string {
	return s.unverified(tokenString).Authorities
}

// Roles returns the role names of a validated access token
func (s *TokenService) Roles(tokenString string) []string {
	return s.unverified(tokenString).Roles
}

// TokenType returns "refresh" for refresh tokens and "" for access tokens
func (s *TokenService) TokenType(tokenString string) string {
	return s.unverified(tokenString).TokenType
}

// Expiry returns the expiry of a validated token
func (s *TokenService) Expiry(tokenString string) time.Time {
	claims := s.unverified(tokenString)
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// Principal rebuilds the principal carried by verified access token claims.
func (c *Claims) Principal() *domain.Principal {
	return &domain.Principal{
		UserID:      c.UserID,
		Username:    c.Subject,
		Email:       c.Email,
		Authorities: c.Authorities,
		Roles:       c.Roles,
	}
}
