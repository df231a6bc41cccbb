package repositories

import (
	"context"
	"testing"
	"time"

	"statefin-backend/internal/adapters/persistence/models"
	"statefin-backend/internal/core/domain"
	"statefin-backend/internal/pkg/pagination"
	"statefin-backend/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUserWithRole(t *testing.T, store Store) (*models.User, *models.Role) {
	t.Helper()
	ctx := context.Background()

	user := &models.User{Username: "alice", Email: "alice@example.com", Password: "x", Active: true}
	require.NoError(t, store.Users().Create(ctx, user))
	role := &models.Role{Name: "AUDITOR", Active: true}
	require.NoError(t, store.Roles().Create(ctx, role))
	return user, role
}

func TestUserRoleLinkIsIdempotentAndVisibleFromBothSides(t *testing.T) {
	store := NewStore(testutil.NewDB(t))
	ctx := context.Background()
	user, role := seedUserWithRole(t, store)

	require.NoError(t, store.Users().AddRole(ctx, user.ID, role.ID))
	require.NoError(t, store.Users().AddRole(ctx, user.ID, role.ID))

	roles, err := store.Users().Roles(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "AUDITOR", roles[0].Name)

	var links int64
	require.NoError(t, store.Conn().Model(&models.UserRole{}).Where("role_id = ?", role.ID).Count(&links).Error)
	assert.Equal(t, int64(1), links)

	require.NoError(t, store.Users().RemoveRole(ctx, user.ID, role.ID))
	require.NoError(t, store.Users().RemoveRole(ctx, user.ID, role.ID))

	roles, err = store.Users().Roles(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestActiveAuthoritiesSkipInactiveRolesAndPermissions(t *testing.T) {
	store := NewStore(testutil.NewDB(t))
	ctx := context.Background()
	user, role := seedUserWithRole(t, store)

	read := &models.Permission{Name: "REPORT_READ", Resource: "REPORT", Action: "READ", Active: true}
	write := &models.Permission{Name: "REPORT_WRITE", Resource: "REPORT", Action: "WRITE", Active: true}
	require.NoError(t, store.Permissions().Create(ctx, read))
	require.NoError(t, store.Permissions().Create(ctx, write))
	require.NoError(t, store.Roles().AddPermission(ctx, role.ID, read.ID))
	require.NoError(t, store.Roles().AddPermission(ctx, role.ID, write.ID))
	require.NoError(t, store.Users().AddRole(ctx, user.ID, role.ID))

	names, err := store.Users().ActivePermissionNames(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"REPORT_READ", "REPORT_WRITE"}, names)

	require.NoError(t, store.Permissions().Deactivate(ctx, write.ID))
	names, err = store.Users().ActivePermissionNames(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"REPORT_READ"}, names)

	require.NoError(t, store.Roles().Deactivate(ctx, role.ID))
	names, err = store.Users().ActivePermissionNames(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, names)

	roleNames, err := store.Users().ActiveRoleNames(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, roleNames)
}

func TestPermissionsByRoles(t *testing.T) {
	store := NewStore(testutil.NewDB(t))
	ctx := context.Background()

	a := &models.Role{Name: "A", Active: true}
	b := &models.Role{Name: "B", Active: true}
	require.NoError(t, store.Roles().Create(ctx, a))
	require.NoError(t, store.Roles().Create(ctx, b))
	p := &models.Permission{Name: "X_READ", Resource: "X", Action: "READ", Active: true}
	require.NoError(t, store.Permissions().Create(ctx, p))
	require.NoError(t, store.Roles().AddPermission(ctx, a.ID, p.ID))

	byRole, err := store.Roles().PermissionsByRoles(ctx, []uint{a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, byRole[a.ID], 1)
	assert.Equal(t, "X_READ", byRole[a.ID][0].Name)
	assert.Empty(t, byRole[b.ID])
}

func TestTransactionRollsBackOnError(t *testing.T) {
	store := NewStore(testutil.NewDB(t))
	ctx := context.Background()

	err := store.Transaction(ctx, func(tx Store) error {
		require.NoError(t, tx.Roles().Create(ctx, &models.Role{Name: "TEMP", Active: true}))
		return domain.InvalidArgument("boom")
	})
	require.Error(t, err)

	exists, err := store.Roles().ExistsByName(ctx, "TEMP", 0)
	require.NoError(t, err)
	assert.False(t, exists)
}

func newCurrency(code, nameRu string) *models.Currency {
	return &models.Currency{
		ReferenceBase: models.ReferenceBase{
			NameEn: "Currency " + code,
			NameRu: nameRu,
			NameKg: nameRu,
			Status: domain.ReferenceActive,
		},
		Code: code,
	}
}

func TestReferenceUpdateChecksVersion(t *testing.T) {
	store := NewStore(testutil.NewDB(t))
	ctx := context.Background()
	repo := References[models.Currency](store)

	usd := newCurrency("USD", "Доллар США")
	require.NoError(t, repo.Create(ctx, usd))
	assert.Equal(t, uint(1), usd.Version)

	first, err := repo.GetByID(ctx, usd.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, usd.ID)
	require.NoError(t, err)

	first.Symbol = "$"
	require.NoError(t, repo.Update(ctx, first, 1))
	assert.Equal(t, uint(2), first.Version)

	second.Symbol = "US$"
	err = repo.Update(ctx, second, 1)
	assert.ErrorIs(t, err, ErrStaleVersion)

	stored, err := repo.GetByID(ctx, usd.ID)
	require.NoError(t, err)
	assert.Equal(t, "$", stored.Symbol)
	assert.Equal(t, uint(2), stored.Version)
}

func TestReferenceSearchEscapesWildcards(t *testing.T) {
	store := NewStore(testutil.NewDB(t))
	ctx := context.Background()
	repo := References[models.CreditPurpose](store)

	for _, name := range []string{"Rate 50% off", "Rate 500 off", "Housing"} {
		require.NoError(t, repo.Create(ctx, &models.CreditPurpose{ReferenceBase: models.ReferenceBase{
			NameEn: name, NameRu: name, NameKg: name, Status: domain.ReferenceActive,
		}}))
	}

	params := pagination.New(0, 20, "id", "asc", ReferenceSortColumns)

	found, total, err := repo.Search(ctx, "50%", params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, found, 1)
	assert.Equal(t, "Rate 50% off", found[0].NameEn)

	found, total, err = repo.Search(ctx, "RATE", params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, found, 2)
}

func TestReferenceExistsByExcludesSelf(t *testing.T) {
	store := NewStore(testutil.NewDB(t))
	ctx := context.Background()
	repo := References[models.Currency](store)

	usd := newCurrency("USD", "Доллар")
	require.NoError(t, repo.Create(ctx, usd))

	taken, err := repo.ExistsBy(ctx, "code", "USD", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.ExistsBy(ctx, "code", "USD", usd.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	found, err := repo.GetBy(ctx, "code", "USD")
	require.NoError(t, err)
	assert.Equal(t, usd.ID, found.ID)
}

func TestDecisionUsageAndFilter(t *testing.T) {
	store := NewStore(testutil.NewDB(t))
	ctx := context.Background()

	body := &models.DecisionMakingBody{ReferenceBase: models.ReferenceBase{NameEn: "Board", NameRu: "Правление", NameKg: "Башкармалык", Status: domain.ReferenceActive}}
	require.NoError(t, References[models.DecisionMakingBody](store).Create(ctx, body))
	kind := &models.DecisionType{ReferenceBase: models.ReferenceBase{NameEn: "Resolution", NameRu: "Постановление", NameKg: "Токтом", Status: domain.ReferenceActive}}
	require.NoError(t, References[models.DecisionType](store).Create(ctx, kind))
	unused := &models.DecisionType{ReferenceBase: models.ReferenceBase{NameEn: "Order", NameRu: "Приказ", NameKg: "Буйрук", Status: domain.ReferenceActive}}
	require.NoError(t, References[models.DecisionType](store).Create(ctx, unused))

	decision := &models.Decision{
		ID:                   uuid.NewString(),
		NameEn:               "Rate change",
		NameRu:               "Изменение ставки",
		NameKg:               "Ставканы өзгөртүү",
		Date:                 time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Number:               "D-1",
		DecisionMakingBodyID: body.ID,
		DecisionTypeID:       kind.ID,
		Status:               domain.DecisionDraft,
		Version:              1,
	}
	require.NoError(t, store.Decisions().Create(ctx, decision))

	usage := DecisionUsage("decision_type_id")(store)
	used, err := usage.IsReferenced(ctx, kind.ID)
	require.NoError(t, err)
	assert.True(t, used)
	used, err = usage.IsReferenced(ctx, unused.ID)
	require.NoError(t, err)
	assert.False(t, used)

	params := pagination.New(0, 20, "number", "asc", DecisionSortColumns)

	// the type name matches through the join
	found, total, err := store.Decisions().List(ctx, DecisionFilter{SearchTerm: "resolution"}, params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, found, 1)
	require.NotNil(t, found[0].DecisionType)
	assert.Equal(t, "Resolution", found[0].DecisionType.NameEn)

	_, total, err = store.Decisions().List(ctx, DecisionFilter{DecisionTypeID: unused.ID}, params)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, total, err = store.Decisions().List(ctx, DecisionFilter{Status: string(domain.DecisionDraft), DecisionMakingBodyID: body.ID}, params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	taken, err := store.Decisions().ExistsByNumber(ctx, "D-1", decision.ID)
	require.NoError(t, err)
	assert.False(t, taken)
	taken, err = store.Decisions().ExistsByNumber(ctx, "D-1", "")
	require.NoError(t, err)
	assert.True(t, taken)
}

func newDecision(t *testing.T, store Store, number string) *models.Decision {
	t.Helper()
	ctx := context.Background()

	body := &models.DecisionMakingBody{ReferenceBase: models.ReferenceBase{NameEn: "Board " + number, NameRu: "Правление " + number, NameKg: "Башкармалык " + number, Status: domain.ReferenceActive}}
	require.NoError(t, References[models.DecisionMakingBody](store).Create(ctx, body))
	kind := &models.DecisionType{ReferenceBase: models.ReferenceBase{NameEn: "Resolution " + number, NameRu: "Постановление " + number, NameKg: "Токтом " + number, Status: domain.ReferenceActive}}
	require.NoError(t, References[models.DecisionType](store).Create(ctx, kind))

	decision := &models.Decision{
		ID:                   uuid.NewString(),
		NameEn:               "Rate change",
		NameRu:               "Изменение ставки",
		NameKg:               "Ставканы өзгөртүү",
		Date:                 time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Number:               number,
		DecisionMakingBodyID: body.ID,
		DecisionTypeID:       kind.ID,
		Status:               domain.DecisionDraft,
		Version:              1,
	}
	require.NoError(t, store.Decisions().Create(ctx, decision))
	return decision
}

func TestDecisionDeleteChecksVersion(t *testing.T) {
	store := NewStore(testutil.NewDB(t))
	ctx := context.Background()
	decision := newDecision(t, store, "D-7")

	// another request moved it on while this one held version 1
	decision.Status = domain.DecisionActive
	require.NoError(t, store.Decisions().Update(ctx, decision, 1))
	assert.Equal(t, uint(2), decision.Version)

	err := store.Decisions().Delete(ctx, decision.ID, 1)
	assert.ErrorIs(t, err, ErrStaleVersion)

	stored, err := store.Decisions().GetByID(ctx, decision.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionActive, stored.Status)

	require.NoError(t, store.Decisions().Delete(ctx, decision.ID, 2))
	_, err = store.Decisions().GetByID(ctx, decision.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReferenceSearchFoldsCyrillicCase(t *testing.T) {
	store := NewStore(testutil.NewDB(t))
	ctx := context.Background()
	repo := References[models.Currency](store)

	require.NoError(t, repo.Create(ctx, newCurrency("USD", "Доллар США")))
	require.NoError(t, repo.Create(ctx, newCurrency("EUR", "Евро")))

	params := pagination.New(0, 20, "id", "asc", ReferenceSortColumns)
	for _, term := range []string{"доллар сша", "ДОЛЛАР", "сШа"} {
		found, total, err := repo.Search(ctx, term, params)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total, term)
		require.Len(t, found, 1, term)
		assert.Equal(t, "USD", found[0].Code)
	}

	// the joined type name folds the same way
	decision := newDecision(t, store, "D-8")
	found, total, err := store.Decisions().List(ctx, DecisionFilter{SearchTerm: "постановление"}, pagination.New(0, 20, "number", "asc", DecisionSortColumns))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, found, 1)
	assert.Equal(t, decision.ID, found[0].ID)
}

func TestDuplicateKeysAreTranslated(t *testing.T) {
	store := NewStore(testutil.NewDB(t))
	ctx := context.Background()
	seedUserWithRole(t, store)

	err := store.Roles().Create(ctx, &models.Role{Name: "AUDITOR", Active: true})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	err = store.Users().Create(ctx, &models.User{Username: "alice", Email: "other@example.com", Password: "x", Active: true})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	decision := newDecision(t, store, "D-9")
	again := *decision
	again.ID = uuid.NewString()
	assert.ErrorIs(t, store.Decisions().Create(ctx, &again), gorm.ErrDuplicatedKey)
}
