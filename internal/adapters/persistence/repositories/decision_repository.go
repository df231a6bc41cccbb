package repositories

import (
	"context"

	"statefin-backend/internal/adapters/persistence/models"
	"statefin-backend/internal/pkg/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DecisionSortColumns are the sortBy values accepted by decision listings
var DecisionSortColumns = pagination.SortColumns{
	"nameEn": "name_en",
	"nameRu": "name_ru",
	"nameKg": "name_kg",
	"date":   "date",
	"number": "number",
	"status": "status",
}

// decisionRepository implements DecisionRepository interface
type decisionRepository struct {
	db *gorm.DB
}

// NewDecisionRepository creates a new decision repository
func NewDecisionRepository(db *gorm.DB) DecisionRepository {
	return &decisionRepository{db: db}
}

func (r *decisionRepository) Create(ctx context.Context, decision *models.Decision) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(decision).Error
}

// GetByID loads a decision with its body and type
func (r *decisionRepository) GetByID(ctx context.Context, id string) (*models.Decision, error) {
	var decision models.Decision
	err := r.db.WithContext(ctx).
		Preload("DecisionMakingBody").
		Preload("DecisionType").
		Where("id = ?", id).
		First(&decision).Error
	if err != nil {
		return nil, err
	}
	return &decision, nil
}

// Update bumps the version and writes every column if nobody else has
func (r *decisionRepository) Update(ctx context.Context, decision *models.Decision, expectedVersion uint) error {
	decision.Version = expectedVersion + 1
	res := r.db.WithContext(ctx).
		Model(decision).
		Where("version = ?", expectedVersion).
		Select("*").
		Omit("id", "created_at", "created_by", clause.Associations).
		Updates(decision)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleVersion
	}
	return nil
}

// Delete removes the decision only if the stored version is still expectedVersion
func (r *decisionRepository) Delete(ctx context.Context, id string, expectedVersion uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND version = ?", id, expectedVersion).
		Delete(&models.Decision{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleVersion
	}
	return nil
}

// List pages decisions matching filter. The search term also matches the
// names of the linked type and body.
func (r *decisionRepository) List(ctx context.Context, filter DecisionFilter, params *pagination.Params) ([]*models.Decision, int64, error) {
	var decisions []*models.Decision
	var total int64

	query := r.filtered(r.db.WithContext(ctx).Model(&models.Decision{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = r.filtered(r.db.WithContext(ctx).Model(&models.Decision{}), filter)
	err := query.
		Preload("DecisionMakingBody").
		Preload("DecisionType").
		Order(params.OrderOn("decisions")).
		Offset(params.Offset).
		Limit(params.Size).
		Find(&decisions).Error
	if err != nil {
		return nil, 0, err
	}
	return decisions, total, nil
}

func (r *decisionRepository) filtered(db *gorm.DB, f DecisionFilter) *gorm.DB {
	if f.SearchTerm != "" {
		db = db.
			Joins("LEFT JOIN decision_types dt ON dt.id = decisions.decision_type_id").
			Joins("LEFT JOIN decision_making_bodies dmb ON dmb.id = decisions.decision_making_body_id")
		db = whereLike(db, f.SearchTerm,
			"decisions.name_en", "decisions.name_ru", "decisions.name_kg",
			"decisions.number", "decisions.description",
			"dt.name_en", "dt.name_ru", "dt.name_kg",
			"dmb.name_en", "dmb.name_ru", "dmb.name_kg",
		)
	}
	if f.DecisionMakingBodyID != 0 {
		db = db.Where("decisions.decision_making_body_id = ?", f.DecisionMakingBodyID)
	}
	if f.DecisionTypeID != 0 {
		db = db.Where("decisions.decision_type_id = ?", f.DecisionTypeID)
	}
	if f.Status != "" {
		db = db.Where("decisions.status = ?", f.Status)
	}
	return db
}

func (r *decisionRepository) ExistsByNumber(ctx context.Context, number, excludeID string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.Decision{}), excludeID, "number = ?", number)
}

// CountByColumn counts decisions pointing at id through column
func (r *decisionRepository) CountByColumn(ctx context.Context, column string, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Decision{}).Where(clause.Eq{Column: clause.Column{Name: column}, Value: id}).Count(&count).Error
	return count, err
}
