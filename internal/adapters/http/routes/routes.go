package routes

import (
	"statefin-backend/internal/adapters/http/handlers"
	"statefin-backend/internal/adapters/http/middleware"
	"statefin-backend/internal/adapters/persistence/repositories"
	"statefin-backend/internal/config"
	"statefin-backend/internal/core/authz"
	"statefin-backend/internal/core/domain"
	"statefin-backend/internal/core/services"
	"statefin-backend/internal/jobs"
	"statefin-backend/internal/pkg/jwt"
	"statefin-backend/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers and mounts every route.
// It returns the access rule of each guarded endpoint.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, monitor *jobs.HealthMonitor, storage fiber.Storage) Table {
	// Initialize store and shared infrastructure
	store := repositories.NewStore(db)
	hasher := password.NewHasher(cfg.BcryptCost)
	tokens := jwt.NewTokenService(jwt.Config{
		Secret:     cfg.JWT.Secret,
		AccessTTL:  cfg.JWT.AccessTTL(),
		RefreshTTL: cfg.JWT.RefreshTTL(),
	})

	// Initialize services
	userService := services.NewUserService(store, hasher)
	authService := services.NewAuthService(store, tokens, hasher, userService)
	roleService := services.NewRoleService(store)
	permissionService := services.NewPermissionService(store)
	decisionService := services.NewDecisionService(store)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg, monitor)
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	roleHandler := handlers.NewRoleHandler(roleService)
	permissionHandler := handlers.NewPermissionHandler(permissionService)
	decisionHandler := handlers.NewDecisionHandler(decisionService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api", middleware.NoCacheHeaders())

	// Public auth routes
	auth := api.Group("/auth")
	if cfg.AuthRateLimitMax > 0 {
		auth.Use(middleware.AuthRateLimiter(cfg.AuthRateLimitMax, storage))
	}
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/register", authHandler.Register)

	// Everything else needs an access token and a passing access rule
	authMW := middleware.AuthMiddleware(tokens)
	table := Table{}
	guarded := func(prefix string) *group {
		return &group{router: api.Group(prefix, authMW), prefix: "/api" + prefix, table: &table}
	}

	setupUserRoutes(guarded("/users"), userHandler)
	setupPermissionRoutes(guarded("/permissions"), permissionHandler)
	setupRoleRoutes(guarded("/roles"), roleHandler)
	setupDecisionRoutes(guarded("/decisions"), decisionHandler)
	setupReferenceRoutes(guarded, store)

	return table
}

func setupUserRoutes(g *group, h *handlers.UserHandler) {
	read := authz.Authority("USER_READ")
	write := authz.Authority("USER_WRITE")

	g.get("/me", authz.Authenticated(), h.Me)
	g.get("/", read, h.ListUsers)
	g.get("/:id", read, h.GetUser)
	g.put("/:id", write, h.UpdateUser)
	g.delete("/:id", authz.Authority("USER_DELETE"), h.DeleteUser)
	g.post("/:id/roles/:roleId", write, h.AddRole)
	g.delete("/:id/roles/:roleId", write, h.RemoveRole)
}

func setupPermissionRoutes(g *group, h *handlers.PermissionHandler) {
	read := authz.Authority("PERMISSION_READ")
	write := authz.Authority("PERMISSION_WRITE")

	g.post("/", write, h.Create)
	g.get("/", read, h.List)
	g.get("/active", read, h.ListActive)
	g.get("/resources", read, h.Resources)
	g.get("/actions", read, h.Actions)
	g.get("/:id", read, h.Get)
	g.put("/:id", write, h.Update)
	g.delete("/:id", authz.Authority("PERMISSION_DELETE"), h.Delete)
}

func setupRoleRoutes(g *group, h *handlers.RoleHandler) {
	read := authz.Authority("ROLE_READ")
	write := authz.Authority("ROLE_WRITE")
	manage := authz.Authority("ROLE_MANAGE")

	g.post("/", write, h.Create)
	g.get("/", read, h.List)
	g.get("/active", read, h.ListActive)
	g.get("/:id", read, h.Get)
	g.put("/:id", write, h.Update)
	g.delete("/:id", authz.Authority("ROLE_DELETE"), h.Delete)
	g.get("/:id/permissions", read, h.Permissions)
	g.post("/:id/permissions/:permissionId", manage, h.AddPermission)
	g.delete("/:id/permissions/:permissionId", manage, h.RemovePermission)
}

func setupDecisionRoutes(g *group, h *handlers.DecisionHandler) {
	read := authz.Authority("DECISION_READ")
	write := authz.Authority("DECISION_WRITE")

	g.post("/", write, h.Create)
	g.get("/", read, h.List)
	g.get("/search", read, h.Search)
	g.get("/search-and-filter", read, h.SearchAndFilter)
	g.get("/exists/number/:number", read, h.ExistsByNumber)
	g.get("/:id", read, h.Get)
	g.put("/:id", write, h.Update)
	g.delete("/:id", authz.Authority("DECISION_DELETE"), h.Delete)
}

// referenceAccess holds the access rules of one reference type
type referenceAccess struct {
	read       authz.Expr
	write      authz.Expr
	remove     authz.Expr
	referenced authz.Expr
}

func setupReferenceRoutes(guarded func(prefix string) *group, store repositories.Store) {
	admin := authz.Role(domain.RoleAdmin)
	// reads open to any authenticated user, changes for ADMIN
	adminWrites := referenceAccess{read: authz.Authenticated(), write: admin, remove: admin, referenced: admin}

	currencies := handlers.NewReferenceHandler(services.NewCurrencyService(store), repositories.CurrencySortColumns)
	g := guarded("/currencies")
	g.get("/code/:code", adminWrites.read, currencies.ByKey("code", "code"))
	g.get("/exists/code/:code", adminWrites.read, currencies.ExistsByKey("code", "code"))
	mountReference(g, currencies, adminWrites)

	mountReference(guarded("/credit-purposes"),
		handlers.NewReferenceHandler(services.NewCreditPurposeService(store), nil), adminWrites)
	mountReference(guarded("/floating-rate-types"),
		handlers.NewReferenceHandler(services.NewFloatingRateTypeService(store), nil), adminWrites)
	mountReference(guarded("/repayment-orders"),
		handlers.NewReferenceHandler(services.NewRepaymentOrderService(store), repositories.RepaymentOrderSortColumns), adminWrites)
	mountReference(guarded("/notary-offices"),
		handlers.NewReferenceHandler(services.NewNotaryOfficeService(store), nil), adminWrites)

	typeRead := authz.Authority("DECISION_TYPE_READ")
	mountReference(guarded("/decision-types"),
		handlers.NewReferenceHandler(services.NewDecisionTypeService(store), nil),
		referenceAccess{
			read:       typeRead,
			write:      authz.Authority("DECISION_TYPE_WRITE"),
			remove:     authz.Authority("DECISION_TYPE_DELETE"),
			referenced: typeRead,
		})

	mountReference(guarded("/decision-making-bodies"),
		handlers.NewReferenceHandler(services.NewDecisionMakingBodyService(store), nil),
		referenceAccess{read: admin, write: admin, remove: admin, referenced: admin})
}

// mountReference registers the shared reference endpoints. Fixed paths go
// before /:id so they are not captured by it.
func mountReference[T any, P repositories.RefPtr[T]](g *group, h *handlers.ReferenceHandler[T, P], access referenceAccess) {
	g.post("/", access.write, h.Create)
	g.get("/", access.read, h.List)
	g.get("/active", access.read, h.ListActive)
	g.get("/search", access.read, h.Search)
	g.get("/exists/name-ru/:nameRu", access.read, h.ExistsByKey("nameRu", "nameRu"))
	g.get("/:id", access.read, h.Get)
	g.put("/:id", access.write, h.Update)
	g.patch("/:id/activate", access.write, h.Activate)
	g.patch("/:id/deactivate", access.write, h.Deactivate)
	g.delete("/:id", access.remove, h.Delete)
	g.get("/:id/referenced", access.referenced, h.Referenced)
}
