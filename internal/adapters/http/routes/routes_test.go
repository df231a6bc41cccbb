package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"statefin-backend/internal/adapters/http/middleware"
	"statefin-backend/internal/adapters/http/routes"
	"statefin-backend/internal/adapters/persistence/repositories"
	"statefin-backend/internal/config"
	"statefin-backend/internal/core/authz"
	"statefin-backend/internal/core/domain"
	"statefin-backend/internal/core/services"
	"statefin-backend/internal/jobs"
	"statefin-backend/internal/pkg/jwt"
	"statefin-backend/internal/pkg/password"
	"statefin-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t     *testing.T
	app   *fiber.App
	db    *gorm.DB
	cfg   *config.Config
	table routes.Table
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.NewDB(t)
	require.NoError(t, config.NewSeeder(db, bcrypt.MinCost).Run())

	cfg := &config.Config{
		AppMode:    "dev",
		BcryptCost: bcrypt.MinCost,
		JWT: config.JWTConfig{
			Secret:              "routes-test-secret",
			ExpirationMs:        3600000,
			RefreshExpirationMs: 7200000,
		},
	}
	monitor := jobs.NewHealthMonitor("@every 1m", map[string]jobs.Check{
		"database": func(context.Context) error { return nil },
	})

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	table := routes.Setup(app, db, cfg, monitor, nil)
	return &testServer{t: t, app: app, db: db, cfg: cfg, table: table}
}

func (s *testServer) do(method, path, token string, body interface{}, headers ...string) (int, envelope) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	if len(raw) > 0 {
		require.NoError(s.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (s *testServer) login(username, pass string) (access, refresh string) {
	s.t.Helper()

	status, env := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": pass,
	})
	require.Equal(s.t, http.StatusOK, status, env.Error)

	var tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		TokenType    string `json:"tokenType"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &tokens))
	require.Equal(s.t, "Bearer", tokens.TokenType)
	return tokens.AccessToken, tokens.RefreshToken
}

func TestRegisterLoginAndAccess(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@x.com",
		"password": "Secret123!",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)

	access, refresh := s.login("alice", "Secret123!")
	assert.NotEmpty(t, refresh)

	status, env = s.do(http.MethodGet, "/api/users/me", access, nil)
	require.Equal(t, http.StatusOK, status)
	var me struct {
		Username string `json:"username"`
		Roles    []struct {
			Name string `json:"name"`
		} `json:"roles"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "alice", me.Username)
	require.Len(t, me.Roles, 1)
	assert.Equal(t, domain.RoleUser, me.Roles[0].Name)

	status, env = s.do(http.MethodGet, "/api/users", access, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, domain.ErrAccessDenied.Message, env.Error)
}

func TestMissingOrBadTokenIsUnauthorized(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(http.MethodGet, "/api/users/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestExpiredAccessTokenIsUnauthorized(t *testing.T) {
	s := newTestServer(t)
	access, _ := s.login("user", "User123!")

	status, env := s.do(http.MethodGet, "/api/users/me", access, nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	var me struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))

	// issued two hours ago with the server's one hour lifetime
	issuedAt := time.Now().Add(-2 * time.Hour)
	tokens := jwt.NewTokenService(jwt.Config{
		Secret:     s.cfg.JWT.Secret,
		AccessTTL:  s.cfg.JWT.AccessTTL(),
		RefreshTTL: s.cfg.JWT.RefreshTTL(),
	}, jwt.WithClock(func() time.Time { return issuedAt }))
	expired, err := tokens.IssueAccessToken(&domain.Principal{
		UserID:      me.ID,
		Username:    me.Username,
		Authorities: []string{"USER_READ"},
		Roles:       []string{domain.RoleUser},
	})
	require.NoError(t, err)

	status, env = s.do(http.MethodGet, "/api/users/me", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Access token expired", env.Error)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	s := newTestServer(t)
	access, refresh := s.login("user", "User123!")

	status, _ := s.do(http.MethodGet, "/api/users/me", refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env := s.do(http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": refresh})
	require.Equal(t, http.StatusOK, status, env.Error)

	status, _ = s.do(http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": access})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuthenticationFailuresLookAlike(t *testing.T) {
	s := newTestServer(t)

	unknownStatus, unknown := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "nonexistent",
		"password": "x",
	})
	wrongStatus, wrong := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "user",
		"password": "wrongpassword",
	})

	assert.Equal(t, http.StatusUnauthorized, unknownStatus)
	assert.Equal(t, unknownStatus, wrongStatus)
	assert.Equal(t, unknown.Message, wrong.Message)
	assert.Equal(t, unknown.Error, wrong.Error)
	assert.Equal(t, domain.ErrAuthentication.Message, wrong.Error)
}

func TestDuplicateCurrencyCode(t *testing.T) {
	s := newTestServer(t)
	admin, _ := s.login("admin", "Admin123!")

	usd := map[string]string{
		"code":   "USD",
		"nameEn": "US Dollar",
		"nameRu": "Доллар США",
		"nameKg": "АКШ доллары",
	}
	status, env := s.do(http.MethodPost, "/api/currencies", admin, usd, fiber.HeaderAcceptLanguage, "ru-RU,ru;q=0.9")
	require.Equal(t, http.StatusCreated, status, env.Error)

	var created struct {
		ID            uint   `json:"id"`
		Code          string `json:"code"`
		LocalizedName string `json:"localizedName"`
		Status        string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Доллар США", created.LocalizedName)
	assert.Equal(t, "ACTIVE", created.Status)

	usd["nameRu"] = "Другой доллар"
	status, env = s.do(http.MethodPost, "/api/currencies", admin, usd)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Error, "already exists")

	status, env = s.do(http.MethodGet, "/api/currencies/code/usd", admin, nil)
	require.Equal(t, http.StatusOK, status, env.Error)

	user, _ := s.login("user", "User123!")
	status, _ = s.do(http.MethodGet, "/api/currencies/exists/code/USD", user, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(http.MethodPost, "/api/currencies", user, usd)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestDecisionLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	admin, _ := s.login("admin", "Admin123!")

	create := func(path string, body map[string]string) uint {
		status, env := s.do(http.MethodPost, path, admin, body)
		require.Equal(t, http.StatusCreated, status, env.Error)
		var out struct {
			ID uint `json:"id"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &out))
		return out.ID
	}
	typeID := create("/api/decision-types", map[string]string{"nameEn": "Order", "nameRu": "Приказ", "nameKg": "Буйрук"})
	bodyID := create("/api/decision-making-bodies", map[string]string{"nameEn": "Board", "nameRu": "Правление", "nameKg": "Башкарма"})

	status, env := s.do(http.MethodPost, "/api/decisions", admin, map[string]interface{}{
		"nameEn":               "Rate change",
		"nameRu":               "Изменение ставки",
		"nameKg":               "Чендин өзгөрүшү",
		"date":                 "2024-05-01",
		"number":               "D-1",
		"decisionMakingBodyId": bodyID,
		"decisionTypeId":       typeID,
	}, fiber.HeaderAcceptLanguage, "kg")
	require.Equal(t, http.StatusCreated, status, env.Error)

	var decision struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		LocalizedName string `json:"localizedName"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &decision))
	assert.Equal(t, "DRAFT", decision.Status)
	assert.Equal(t, "Чендин өзгөрүшү", decision.LocalizedName)

	status, _ = s.do(http.MethodGet, "/api/decisions/exists/number/D-1", admin, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = s.do(http.MethodDelete, "/api/decision-types/"+itoa(typeID), admin, nil)
	assert.Equal(t, http.StatusConflict, status, env.Error)

	status, _ = s.do(http.MethodPut, "/api/decisions/"+decision.ID, admin, map[string]string{"status": "APPROVED"})
	require.Equal(t, http.StatusOK, status)

	status, env = s.do(http.MethodDelete, "/api/decisions/"+decision.ID, admin, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Decision is in a final state", env.Message)

	manager, _ := s.login("manager", "Manager123!")
	status, _ = s.do(http.MethodGet, "/api/decisions/"+decision.ID, manager, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestHealthReportsMonitorSnapshot(t *testing.T) {
	s := newTestServer(t)

	// the monitor was never started, so nothing has been probed yet
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

// Effective access of each seeded role over every guarded route. ADMIN
// passes role gates and authority gates independently because the seed
// grants it every permission.
func TestEffectiveAccessPerSeededRole(t *testing.T) {
	s := newTestServer(t)

	store := repositories.NewStore(s.db)
	hasher := password.NewHasher(bcrypt.MinCost)
	tokens := jwt.NewTokenService(jwt.Config{Secret: s.cfg.JWT.Secret, AccessTTL: s.cfg.JWT.AccessTTL(), RefreshTTL: s.cfg.JWT.RefreshTTL()})
	auth := services.NewAuthService(store, tokens, hasher, services.NewUserService(store, hasher))

	principal := func(username, pass string) *domain.Principal {
		p, err := auth.Authenticate(context.Background(), username, pass)
		require.NoError(t, err)
		return p
	}
	admin := principal("admin", "Admin123!")
	manager := principal("manager", "Manager123!")
	user := principal("user", "User123!")

	managerGates := map[string]bool{
		authz.Authenticated().String():         true,
		authz.Authority("USER_READ").String():  true,
		authz.Authority("USER_WRITE").String(): true,
	}

	require.NotEmpty(t, s.table)
	for _, rule := range s.table {
		gate := rule.Access.String()
		assert.True(t, authz.Evaluate(admin, rule.Access), "admin %s %s", rule.Method, rule.Path)
		assert.Equal(t, managerGates[gate], authz.Evaluate(manager, rule.Access), "manager %s %s %s", rule.Method, rule.Path, gate)
		assert.Equal(t, gate == authz.Authenticated().String(), authz.Evaluate(user, rule.Access), "user %s %s %s", rule.Method, rule.Path, gate)
	}

	rule, ok := s.table.Find(http.MethodDelete, "/api/users/:id")
	require.True(t, ok)
	assert.Equal(t, "hasAuthority('USER_DELETE')", rule.Access.String())

	rule, ok = s.table.Find(http.MethodGet, "/api/decision-making-bodies")
	require.True(t, ok)
	assert.Equal(t, "hasRole('ADMIN')", rule.Access.String())
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
