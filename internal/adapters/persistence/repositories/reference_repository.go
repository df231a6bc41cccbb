package repositories

import (
	"context"

	"statefin-backend/internal/adapters/persistence/models"
	"statefin-backend/internal/core/domain"
	"statefin-backend/internal/pkg/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReferenceSortColumns are the sortBy values accepted by reference listings
var ReferenceSortColumns = pagination.SortColumns{
	"nameEn": "name_en",
	"nameRu": "name_ru",
	"nameKg": "name_kg",
	"status": "status",
}

// CurrencySortColumns adds code to the reference sort columns
var CurrencySortColumns = pagination.SortColumns{
	"nameEn": "name_en",
	"nameRu": "name_ru",
	"nameKg": "name_kg",
	"status": "status",
	"code":   "code",
}

// RepaymentOrderSortColumns adds priority to the reference sort columns
var RepaymentOrderSortColumns = pagination.SortColumns{
	"nameEn":        "name_en",
	"nameRu":        "name_ru",
	"nameKg":        "name_kg",
	"status":        "status",
	"code":          "code",
	"orderPriority": "order_priority",
}

var baseSearchColumns = []string{"name_en", "name_ru", "name_kg", "description"}

// searchable is implemented by references with extra free-text columns
type searchable interface {
	SearchColumns() []string
}

// RefPtr constrains P to be *T for a reference entity T
type RefPtr[T any] interface {
	*T
	models.Reference
}

// referenceRepository implements ReferenceRepository for any reference entity
type referenceRepository[T any, P RefPtr[T]] struct {
	db *gorm.DB
}

// NewReferenceRepository creates a repository for reference type T
func NewReferenceRepository[T any, P RefPtr[T]](db *gorm.DB) ReferenceRepository[P] {
	return &referenceRepository[T, P]{db: db}
}

// References returns the repository for T bound to the store's connection,
// so it joins any transaction the store belongs to.
func References[T any, P RefPtr[T]](s Store) ReferenceRepository[P] {
	return NewReferenceRepository[T, P](s.Conn())
}

func (r *referenceRepository[T, P]) model() P {
	return P(new(T))
}

func (r *referenceRepository[T, P]) searchColumns() []string {
	if s, ok := any(r.model()).(searchable); ok {
		return append(append([]string{}, baseSearchColumns...), s.SearchColumns()...)
	}
	return baseSearchColumns
}

func (r *referenceRepository[T, P]) Create(ctx context.Context, entity P) error {
	entity.Base().Version = 1
	return r.db.WithContext(ctx).Create(entity).Error
}

func (r *referenceRepository[T, P]) GetByID(ctx context.Context, id uint) (P, error) {
	entity := r.model()
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(entity).Error; err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *referenceRepository[T, P]) GetBy(ctx context.Context, column string, value any) (P, error) {
	entity := r.model()
	err := r.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).
		First(entity).Error
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// Update bumps the version and writes every column if nobody else has
func (r *referenceRepository[T, P]) Update(ctx context.Context, entity P, expectedVersion uint) error {
	entity.Base().Version = expectedVersion + 1
	res := r.db.WithContext(ctx).
		Model(entity).
		Where("version = ?", expectedVersion).
		Select("*").
		Omit("id", "created_at", "created_by").
		Updates(entity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleVersion
	}
	return nil
}

func (r *referenceRepository[T, P]) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(r.model()).Error
}

func (r *referenceRepository[T, P]) List(ctx context.Context, params *pagination.Params) ([]P, int64, error) {
	return r.page(r.db.WithContext(ctx), params)
}

// ListActive returns every ACTIVE row ordered by id
func (r *referenceRepository[T, P]) ListActive(ctx context.Context) ([]P, error) {
	var entities []P
	err := r.db.WithContext(ctx).Where("status = ?", domain.ReferenceActive).Order("id").Find(&entities).Error
	return entities, err
}

func (r *referenceRepository[T, P]) Search(ctx context.Context, term string, params *pagination.Params) ([]P, int64, error) {
	db := r.db.WithContext(ctx)
	if term != "" {
		db = whereLike(db, term, r.searchColumns()...)
	}
	return r.page(db, params)
}

func (r *referenceRepository[T, P]) page(db *gorm.DB, params *pagination.Params) ([]P, int64, error) {
	var entities []P
	var total int64

	db = db.Model(r.model()).Session(&gorm.Session{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := paginate(db, params).Find(&entities).Error; err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

func (r *referenceRepository[T, P]) ExistsBy(ctx context.Context, column string, value any, excludeID uint) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(r.model()),
		excludeID,
		clause.Eq{Column: clause.Column{Name: column}, Value: value},
	)
}

// UsageCheck builds the ReferenceUsage of one reference type over a store,
// so the check runs inside the caller's transaction.
type UsageCheck func(s Store) ReferenceUsage

// decisionUsage reports references held by decisions through one column
type decisionUsage struct {
	decisions DecisionRepository
	column    string
}

// DecisionUsage checks decisions.<column> for the id
func DecisionUsage(column string) UsageCheck {
	return func(s Store) ReferenceUsage {
		return &decisionUsage{decisions: s.Decisions(), column: column}
	}
}

func (u *decisionUsage) IsReferenced(ctx context.Context, id uint) (bool, error) {
	n, err := u.decisions.CountByColumn(ctx, u.column, id)
	return n > 0, err
}

// noDependents is the usage of references nothing points at yet
type noDependents struct{}

// NoDependents never reports a reference. Used by the types no aggregate
// links to yet.
func NoDependents() UsageCheck {
	return func(Store) ReferenceUsage { return noDependents{} }
}

func (noDependents) IsReferenced(context.Context, uint) (bool, error) {
	return false, nil
}
