package services

import (
	"context"
	"testing"
	"time"

	"statefin-backend/internal/adapters/persistence/models"
	"statefin-backend/internal/adapters/persistence/repositories"
	"statefin-backend/internal/core/domain"
	"statefin-backend/internal/pkg/jwt"
	"statefin-backend/internal/pkg/pagination"
	"statefin-backend/internal/pkg/password"
	"statefin-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var admin = &domain.Principal{UserID: 1, Username: "admin"}

func ptr[T any](v T) *T { return &v }

func newStore(t *testing.T) repositories.Store {
	t.Helper()
	return repositories.NewStore(testutil.NewDB(t))
}

func newHasher() *password.Hasher {
	return password.NewHasher(bcrypt.MinCost)
}

func kindOf(t *testing.T, err error) domain.ErrorKind {
	t.Helper()
	require.Error(t, err)
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	return derr.Kind
}

func referenceInput(en, ru, kg string) *ReferenceInput {
	return &ReferenceInput{NameEn: ptr(en), NameRu: ptr(ru), NameKg: ptr(kg)}
}

// seedDecisionRefs creates one body and one type for decisions to point at
func seedDecisionRefs(t *testing.T, store repositories.Store) (uint, uint) {
	t.Helper()
	ctx := context.Background()
	body, err := NewDecisionMakingBodyService(store).Create(ctx, admin, referenceInput("Board", "Правление", "Башкарма"))
	require.NoError(t, err)
	typ, err := NewDecisionTypeService(store).Create(ctx, admin, referenceInput("Credit", "Кредит", "Кредит"))
	require.NoError(t, err)
	return body.ID, typ.ID
}

func decisionInput(number string, bodyID, typeID uint) *DecisionInput {
	return &DecisionInput{
		NameEn:               ptr("Loan approval"),
		NameRu:               ptr("Одобрение займа"),
		NameKg:               ptr("Карызды бекитүү"),
		Date:                 ptr("2024-05-01"),
		Number:               ptr(number),
		DecisionMakingBodyID: ptr(bodyID),
		DecisionTypeID:       ptr(typeID),
	}
}

func TestCurrencyCodeIsUpperCasedAndUnique(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	svc := NewCurrencyService(store)

	in := referenceInput("US Dollar", "Доллар США", "АКШ доллары")
	in.Code = ptr("usd")
	in.Symbol = ptr("$")
	usd, err := svc.Create(ctx, admin, in)
	require.NoError(t, err)
	assert.Equal(t, "USD", usd.Code)
	assert.Equal(t, domain.ReferenceActive, usd.Status)
	assert.Equal(t, uint(1), usd.Version)
	assert.Equal(t, "admin", usd.CreatedBy)

	dup := referenceInput("Another dollar", "Другой доллар", "Башка доллар")
	dup.Code = ptr("USD")
	_, err = svc.Create(ctx, admin, dup)
	assert.Equal(t, domain.KindInvalidArgument, kindOf(t, err))
	assert.Contains(t, err.Error(), "Currency with code 'USD' already exists")

	found, err := svc.GetByKey(ctx, "code", "usd", "ru")
	require.NoError(t, err)
	assert.Equal(t, usd.ID, found.ID)
	assert.Equal(t, "Доллар США", found.LocalizedName)
}

func TestCurrencyCodeMustBeThreeLetters(t *testing.T) {
	svc := NewCurrencyService(newStore(t))
	in := referenceInput("Bad", "Плохой", "Жаман")
	in.Code = ptr("US1")

	_, err := svc.Create(context.Background(), admin, in)
	assert.Equal(t, domain.KindValidation, kindOf(t, err))
}

func TestReferenceUpdateRejectsStaleVersion(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	svc := NewCreditPurposeService(store)

	created, err := svc.Create(ctx, admin, referenceInput("Housing", "Жилье", "Турак жай"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, admin, created.ID, &ReferenceInput{NameEn: ptr("Housing loan"), Version: ptr(uint(1))})
	require.NoError(t, err)
	assert.Equal(t, uint(2), updated.Version)

	_, err = svc.Update(ctx, admin, created.ID, &ReferenceInput{NameEn: ptr("Stale"), Version: ptr(uint(1))})
	assert.Equal(t, domain.KindConflict, kindOf(t, err))

	stored, err := svc.GetByID(ctx, created.ID, "en")
	require.NoError(t, err)
	assert.Equal(t, "Housing loan", stored.NameEn)
}

func TestReferenceDeactivateAndListActive(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	svc := NewFloatingRateTypeService(store)

	a, err := svc.Create(ctx, admin, referenceInput("Libor", "Либор", "Либор"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, admin, referenceInput("Fixed plus", "Фикс плюс", "Фикс плюс"))
	require.NoError(t, err)

	_, err = svc.Deactivate(ctx, admin, a.ID)
	require.NoError(t, err)

	active, err := svc.ListActive(ctx, "en")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Fixed plus", active[0].LocalizedName)
}

func TestReferencedDecisionTypeCannotBeDeleted(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	bodyID, typeID := seedDecisionRefs(t, store)

	_, err := NewDecisionService(store).Create(ctx, admin, decisionInput("D-1", bodyID, typeID))
	require.NoError(t, err)

	types := NewDecisionTypeService(store)
	used, err := types.IsReferenced(ctx, typeID)
	require.NoError(t, err)
	assert.True(t, used)

	err = types.Delete(ctx, typeID)
	assert.Equal(t, domain.KindConflict, kindOf(t, err))

	_, err = types.GetByID(ctx, typeID, "en")
	assert.NoError(t, err)
}

func TestUnreferencedReferenceIsDeleted(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	svc := NewNotaryOfficeService(store)

	in := referenceInput("Office 1", "Контора 1", "Кеңсе 1")
	in.ContactPhone = ptr("+996555123456")
	office, err := svc.Create(ctx, admin, in)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, office.ID))
	_, err = svc.GetByID(ctx, office.ID, "en")
	assert.Equal(t, domain.KindNotFound, kindOf(t, err))
}

func TestNotaryOfficePhoneFormat(t *testing.T) {
	in := referenceInput("Office", "Контора", "Кеңсе")
	in.ContactPhone = ptr("0555123456")

	_, err := NewNotaryOfficeService(newStore(t)).Create(context.Background(), admin, in)
	assert.Equal(t, domain.KindValidation, kindOf(t, err))
}

func TestDecisionDefaultsToDraft(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	bodyID, typeID := seedDecisionRefs(t, store)

	decision, err := NewDecisionService(store).Create(ctx, admin, decisionInput("D-7", bodyID, typeID))
	require.NoError(t, err)
	assert.Len(t, decision.ID, 36)
	assert.Equal(t, domain.DecisionDraft, decision.Status)
	assert.Equal(t, uint(1), decision.Version)
	require.NotNil(t, decision.DecisionType)
	assert.Equal(t, "Credit", decision.DecisionType.NameEn)
	assert.Equal(t, "2024-05-01", decision.ToResponse("en").Date)
}

func TestDecisionNumberIsUnique(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	bodyID, typeID := seedDecisionRefs(t, store)
	svc := NewDecisionService(store)

	_, err := svc.Create(ctx, admin, decisionInput("D-1", bodyID, typeID))
	require.NoError(t, err)

	_, err = svc.Create(ctx, admin, decisionInput("D-1", bodyID, typeID))
	assert.Equal(t, domain.KindInvalidArgument, kindOf(t, err))
	assert.Contains(t, err.Error(), "Decision with number 'D-1' already exists")
}

func TestDecisionRequiresExistingType(t *testing.T) {
	store := newStore(t)
	bodyID, _ := seedDecisionRefs(t, store)

	_, err := NewDecisionService(store).Create(context.Background(), admin, decisionInput("D-2", bodyID, 999))
	assert.Equal(t, domain.KindNotFound, kindOf(t, err))
}

func TestFinalDecisionIsImmutable(t *testing.T) {
	for _, status := range []domain.DecisionStatus{domain.DecisionActive, domain.DecisionInactive, domain.DecisionRejected} {
		t.Run(string(status), func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()
			bodyID, typeID := seedDecisionRefs(t, store)
			svc := NewDecisionService(store)

			in := decisionInput("D-9", bodyID, typeID)
			in.Status = ptr(string(domain.DecisionApproved))
			decision, err := svc.Create(ctx, admin, in)
			require.NoError(t, err)

			decision, err = svc.Update(ctx, admin, decision.ID, &DecisionInput{Status: ptr(string(status))})
			require.NoError(t, err)
			assert.Equal(t, uint(2), decision.Version)

			_, err = svc.Update(ctx, admin, decision.ID, &DecisionInput{NameEn: ptr("Changed"), Number: ptr("D-10")})
			assert.Equal(t, domain.KindDecisionFinalState, kindOf(t, err))

			_, err = svc.Update(ctx, admin, decision.ID, &DecisionInput{Status: ptr(string(domain.DecisionDraft))})
			assert.Equal(t, domain.KindDecisionFinalState, kindOf(t, err))

			err = svc.Delete(ctx, decision.ID)
			assert.Equal(t, domain.KindDecisionFinalState, kindOf(t, err))

			stored, err := svc.GetByID(ctx, decision.ID)
			require.NoError(t, err)
			assert.Equal(t, "Loan approval", stored.NameEn)
			assert.Equal(t, "D-9", stored.Number)
			assert.Equal(t, status, stored.Status)
			assert.Equal(t, uint(2), stored.Version)
			assert.Equal(t, decision.UpdatedAt.Unix(), stored.UpdatedAt.Unix())
		})
	}
}

func TestDecisionNumberRecheckedOnUpdate(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	bodyID, typeID := seedDecisionRefs(t, store)
	svc := NewDecisionService(store)

	_, err := svc.Create(ctx, admin, decisionInput("D-1", bodyID, typeID))
	require.NoError(t, err)
	second, err := svc.Create(ctx, admin, decisionInput("D-2", bodyID, typeID))
	require.NoError(t, err)

	_, err = svc.Update(ctx, admin, second.ID, &DecisionInput{Number: ptr("D-1")})
	assert.Equal(t, domain.KindInvalidArgument, kindOf(t, err))
	assert.Contains(t, err.Error(), "Decision with number 'D-1' already exists")

	// resending its own number is not a collision
	updated, err := svc.Update(ctx, admin, second.ID, &DecisionInput{Number: ptr(" D-2 "), NameEn: ptr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "D-2", updated.Number)
	assert.Equal(t, "Renamed", updated.NameEn)

	updated, err = svc.Update(ctx, admin, second.ID, &DecisionInput{Number: ptr("D-3")})
	require.NoError(t, err)
	assert.Equal(t, "D-3", updated.Number)
}

// racingStore stands in for a second request that commits while a service
// is between its checks and its write
type racingStore struct {
	repositories.Store
	// hideTaken makes uniqueness checks miss rows the other request wrote
	hideTaken bool
	// beforeDelete runs in the transaction right before a decision delete
	beforeDelete func(tx *gorm.DB, id string)
}

func (s racingStore) Transaction(ctx context.Context, fn func(tx repositories.Store) error) error {
	return s.Store.Transaction(ctx, func(tx repositories.Store) error {
		return fn(racingStore{Store: tx, hideTaken: s.hideTaken, beforeDelete: s.beforeDelete})
	})
}

func (s racingStore) Roles() repositories.RoleRepository {
	if !s.hideTaken {
		return s.Store.Roles()
	}
	return blindRoles{s.Store.Roles()}
}

func (s racingStore) Decisions() repositories.DecisionRepository {
	return racingDecisions{DecisionRepository: s.Store.Decisions(), store: s}
}

type blindRoles struct{ repositories.RoleRepository }

func (blindRoles) ExistsByName(context.Context, string, uint) (bool, error) { return false, nil }

type racingDecisions struct {
	repositories.DecisionRepository
	store racingStore
}

func (d racingDecisions) ExistsByNumber(ctx context.Context, number, excludeID string) (bool, error) {
	if d.store.hideTaken {
		return false, nil
	}
	return d.DecisionRepository.ExistsByNumber(ctx, number, excludeID)
}

func (d racingDecisions) Delete(ctx context.Context, id string, expectedVersion uint) error {
	if d.store.beforeDelete != nil {
		d.store.beforeDelete(d.store.Conn(), id)
	}
	return d.DecisionRepository.Delete(ctx, id, expectedVersion)
}

func TestDecisionDeleteLosesToConcurrentActivation(t *testing.T) {
	base := newStore(t)
	ctx := context.Background()
	bodyID, typeID := seedDecisionRefs(t, base)

	decision, err := NewDecisionService(base).Create(ctx, admin, decisionInput("D-4", bodyID, typeID))
	require.NoError(t, err)

	store := racingStore{Store: base, beforeDelete: func(tx *gorm.DB, id string) {
		require.NoError(t, tx.Model(&models.Decision{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{"status": string(domain.DecisionActive), "version": gorm.Expr("version + 1")}).Error)
	}}
	err = NewDecisionService(store).Delete(ctx, decision.ID)
	assert.Equal(t, domain.KindConflict, kindOf(t, err))

	_, err = NewDecisionService(base).GetByID(ctx, decision.ID)
	require.NoError(t, err)
}

func TestLostUniquenessRaceIsNotAServerError(t *testing.T) {
	base := newStore(t)
	ctx := context.Background()
	store := racingStore{Store: base, hideTaken: true}

	roles := NewRoleService(store)
	_, err := roles.Create(ctx, &RoleInput{Name: ptr("AUDITOR")})
	require.NoError(t, err)
	_, err = roles.Create(ctx, &RoleInput{Name: ptr("AUDITOR")})
	assert.Equal(t, domain.KindAlreadyExists, kindOf(t, err))

	bodyID, typeID := seedDecisionRefs(t, base)
	decisions := NewDecisionService(store)
	_, err = decisions.Create(ctx, admin, decisionInput("D-5", bodyID, typeID))
	require.NoError(t, err)
	_, err = decisions.Create(ctx, admin, decisionInput("D-5", bodyID, typeID))
	assert.Equal(t, domain.KindInvalidArgument, kindOf(t, err))
	assert.Contains(t, err.Error(), "Decision with number 'D-5' already exists")

	other, err := decisions.Create(ctx, admin, decisionInput("D-6", bodyID, typeID))
	require.NoError(t, err)
	_, err = decisions.Update(ctx, admin, other.ID, &DecisionInput{Number: ptr("D-5")})
	assert.Equal(t, domain.KindInvalidArgument, kindOf(t, err))
}

func TestCurrencySearchIgnoresCyrillicCase(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	svc := NewCurrencyService(store)

	in := referenceInput("US Dollar", "Доллар США", "АКШ доллары")
	in.Code = ptr("USD")
	_, err := svc.Create(ctx, admin, in)
	require.NoError(t, err)

	params := pagination.New(0, 20, "id", "asc", repositories.ReferenceSortColumns)
	page, err := svc.Search(ctx, "доллар сша", params, "ru")
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalElements)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "USD", page.Content[0].Code)
}

func TestDraftDecisionIsDeleted(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	bodyID, typeID := seedDecisionRefs(t, store)
	svc := NewDecisionService(store)

	decision, err := svc.Create(ctx, admin, decisionInput("D-3", bodyID, typeID))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, decision.ID))

	exists, err := svc.ExistsByNumber(ctx, "D-3")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDecisionListFiltersByStatus(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	bodyID, typeID := seedDecisionRefs(t, store)
	svc := NewDecisionService(store)

	_, err := svc.Create(ctx, admin, decisionInput("D-1", bodyID, typeID))
	require.NoError(t, err)
	in := decisionInput("D-2", bodyID, typeID)
	in.Status = ptr(string(domain.DecisionApproved))
	_, err = svc.Create(ctx, admin, in)
	require.NoError(t, err)

	params := pagination.New(0, 10, "number", "asc", repositories.DecisionSortColumns)
	page, err := svc.List(ctx, repositories.DecisionFilter{Status: string(domain.DecisionApproved)}, params)
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "D-2", page.Content[0].Number)

	_, err = svc.List(ctx, repositories.DecisionFilter{Status: "BOGUS"}, params)
	assert.Equal(t, domain.KindInvalidArgument, kindOf(t, err))
}

func TestPermissionNameAndPairAreUnique(t *testing.T) {
	svc := NewPermissionService(newStore(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, &PermissionInput{Name: ptr("REPORT_READ"), Resource: ptr("REPORT"), Action: ptr("READ")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &PermissionInput{Name: ptr("REPORT_READ"), Resource: ptr("REPORT"), Action: ptr("VIEW")})
	assert.Equal(t, domain.KindAlreadyExists, kindOf(t, err))

	_, err = svc.Create(ctx, &PermissionInput{Name: ptr("REPORT_VIEW"), Resource: ptr("REPORT"), Action: ptr("READ")})
	assert.Equal(t, domain.KindAlreadyExists, kindOf(t, err))

	resources, err := svc.Resources(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"REPORT"}, resources)
}

func TestCreateUserGrantsUserRole(t *testing.T) {
	svc := NewUserService(newStore(t), newHasher())
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, &RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.Len(t, user.Roles, 1)
	assert.Equal(t, domain.RoleUser, user.Roles[0].Name)

	_, err = svc.CreateUser(ctx, &RegisterInput{Username: "alice", Email: "other@example.com", Password: "secret123"})
	assert.Equal(t, domain.KindAlreadyExists, kindOf(t, err))
	assert.Contains(t, err.Error(), "Username is already taken")

	_, err = svc.CreateUser(ctx, &RegisterInput{Username: "bob", Email: "alice@example.com", Password: "secret123"})
	assert.Equal(t, domain.KindAlreadyExists, kindOf(t, err))
	assert.Contains(t, err.Error(), "Email is already registered")
}

func TestCreateUserValidatesShape(t *testing.T) {
	svc := NewUserService(newStore(t), newHasher())

	_, err := svc.CreateUser(context.Background(), &RegisterInput{Username: "a b", Email: "nope", Password: "short"})
	require.Error(t, err)
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.KindValidation, derr.Kind)
	assert.Contains(t, derr.Fields, "username")
	assert.Contains(t, derr.Fields, "email")
	assert.Contains(t, derr.Fields, "password")
}

func newAuth(t *testing.T) (*AuthService, *UserService, *jwt.TokenService) {
	t.Helper()
	store := newStore(t)
	hasher := newHasher()
	users := NewUserService(store, hasher)
	tokens := jwt.NewTokenService(jwt.Config{Secret: "test-secret", AccessTTL: time.Hour, RefreshTTL: 24 * time.Hour})
	return NewAuthService(store, tokens, hasher, users), users, tokens
}

func TestAuthenticationFailuresLookTheSame(t *testing.T) {
	auth, users, _ := newAuth(t)
	ctx := context.Background()

	carol, err := users.CreateUser(ctx, &RegisterInput{Username: "carol", Email: "carol@example.com", Password: "secret123"})
	require.NoError(t, err)
	_, err = users.CreateUser(ctx, &RegisterInput{Username: "dave", Email: "dave@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NoError(t, users.Delete(ctx, carol.ID))

	attempts := []LoginInput{
		{Username: "nobody", Password: "secret123"},
		{Username: "dave", Password: "wrong-password"},
		{Username: "carol", Password: "secret123"},
	}
	for _, in := range attempts {
		_, err := auth.Login(ctx, &in)
		assert.ErrorIs(t, err, domain.ErrAuthentication, in.Username)
		assert.Equal(t, "Invalid username or password", err.Error(), in.Username)
	}
}

func TestLoginAndRefresh(t *testing.T) {
	auth, users, tokens := newAuth(t)
	ctx := context.Background()

	_, err := users.CreateUser(ctx, &RegisterInput{Username: "erin", Email: "erin@example.com", Password: "secret123"})
	require.NoError(t, err)

	login, err := auth.Login(ctx, &LoginInput{Username: "erin", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", login.TokenType)
	assert.Equal(t, int64(3600), login.ExpiresIn)
	assert.Equal(t, "erin", tokens.Subject(login.AccessToken))

	refreshed, err := auth.Refresh(ctx, &RefreshInput{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, "erin", refreshed.User.Username)

	_, err = auth.Refresh(ctx, &RefreshInput{RefreshToken: login.AccessToken})
	assert.Equal(t, domain.KindInvalidToken, kindOf(t, err))

	_, err = auth.Refresh(ctx, &RefreshInput{RefreshToken: "garbage"})
	assert.Equal(t, domain.KindInvalidToken, kindOf(t, err))
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	auth, users, _ := newAuth(t)
	ctx := context.Background()

	frank, err := users.CreateUser(ctx, &RegisterInput{Username: "frank", Email: "frank@example.com", Password: "secret123"})
	require.NoError(t, err)
	login, err := auth.Login(ctx, &LoginInput{Username: "frank", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, frank.ID))
	_, err = auth.Refresh(ctx, &RefreshInput{RefreshToken: login.RefreshToken})
	assert.Equal(t, domain.KindInvalidToken, kindOf(t, err))
}

func TestRolePermissionLinksAreIdempotent(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	roles := NewRoleService(store)
	permissions := NewPermissionService(store)

	role, err := roles.Create(ctx, &RoleInput{Name: ptr("AUDITOR")})
	require.NoError(t, err)
	perm, err := permissions.Create(ctx, &PermissionInput{Name: ptr("AUDIT_READ"), Resource: ptr("AUDIT"), Action: ptr("READ")})
	require.NoError(t, err)

	_, err = roles.AddPermission(ctx, role.ID, perm.ID)
	require.NoError(t, err)
	withPerm, err := roles.AddPermission(ctx, role.ID, perm.ID)
	require.NoError(t, err)
	assert.Len(t, withPerm.Permissions, 1)

	_, err = roles.AddPermission(ctx, role.ID, 999)
	assert.Equal(t, domain.KindNotFound, kindOf(t, err))

	_, err = roles.Create(ctx, &RoleInput{Name: ptr("AUDITOR")})
	assert.Equal(t, domain.KindAlreadyExists, kindOf(t, err))
}

func TestDeactivatedUserKeepsRoleLinks(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	users := NewUserService(store, newHasher())

	grace, err := users.CreateUser(ctx, &RegisterInput{Username: "grace", Email: "grace@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NoError(t, users.Delete(ctx, grace.ID))

	stored, err := users.GetByID(ctx, grace.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
	assert.Len(t, stored.Roles, 1)

	var count int64
	require.NoError(t, store.Conn().Model(&models.UserRole{}).Where("user_id = ?", grace.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
