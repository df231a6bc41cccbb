package services

import (
	"context"
	"log"
	"strings"
	"time"

	"statefin-backend/internal/adapters/persistence/models"
	"statefin-backend/internal/adapters/persistence/repositories"
	"statefin-backend/internal/core/domain"
	"statefin-backend/internal/pkg/pagination"
	"statefin-backend/internal/pkg/textnorm"
	"statefin-backend/internal/pkg/validation"

	"github.com/google/uuid"
)

// DecisionService manages decisions and guards their final states
type DecisionService struct {
	store repositories.Store
}

// NewDecisionService creates a new decision service
func NewDecisionService(store repositories.Store) *DecisionService {
	return &DecisionService{store: store}
}

// DecisionInput creates a decision, or partially updates one when fields are nil
type DecisionInput struct {
	NameEn               *string `json:"nameEn"`
	NameRu               *string `json:"nameRu"`
	NameKg               *string `json:"nameKg"`
	Date                 *string `json:"date" example:"2024-05-01"`
	Number               *string `json:"number"`
	DecisionMakingBodyID *uint   `json:"decisionMakingBodyId"`
	DecisionTypeID       *uint   `json:"decisionTypeId"`
	Description          *string `json:"description"`
	Status               *string `json:"status"`
	DocumentPackageID    *string `json:"documentPackageId"`
	// Version, when sent on update, must match the stored version
	Version *uint `json:"version"`
}

// Validate checks the input; create requires names, date, number, body and type
func (in *DecisionInput) Validate(create bool) map[string]string {
	errs := validation.Errors{}
	if create {
		required := map[string]bool{
			"nameEn":               in.NameEn == nil,
			"nameRu":               in.NameRu == nil,
			"nameKg":               in.NameKg == nil,
			"date":                 in.Date == nil,
			"number":               in.Number == nil,
			"decisionMakingBodyId": in.DecisionMakingBodyID == nil,
			"decisionTypeId":       in.DecisionTypeID == nil,
		}
		for field, missing := range required {
			if missing {
				errs.Add(field, field+" is required")
			}
		}
	}

	for field, v := range map[string]*string{"nameEn": in.NameEn, "nameRu": in.NameRu, "nameKg": in.NameKg} {
		errs.Optional(v, func(s string) {
			errs.Required(field, s)
			errs.MaxLen(field, s, 100)
		})
	}
	errs.Optional(in.Number, func(s string) {
		errs.Required("number", s)
		errs.MaxLen("number", s, 50)
	})
	errs.Optional(in.Description, func(s string) {
		errs.MaxLen("description", s, 1000)
	})
	errs.Optional(in.Date, func(s string) {
		if _, err := time.Parse(models.DateLayout, s); err != nil {
			errs.Add("date", "date must be formatted as YYYY-MM-DD")
		}
	})
	errs.Optional(in.Status, func(s string) {
		if !domain.DecisionStatus(s).Valid() {
			errs.Add("status", "status is not a known decision status")
		}
	})
	errs.Optional(in.DocumentPackageID, func(s string) {
		if _, err := uuid.Parse(s); err != nil {
			errs.Add("documentPackageId", "documentPackageId must be a UUID")
		}
	})
	return errs
}

// Create stores a new decision, DRAFT unless the input says otherwise
func (s *DecisionService) Create(ctx context.Context, principal *domain.Principal, in *DecisionInput) (*models.Decision, error) {
	if errs := in.Validate(true); len(errs) > 0 {
		return nil, domain.Validation(errs)
	}

	decision := &models.Decision{
		ID:        uuid.NewString(),
		Status:    domain.DecisionDraft,
		CreatedBy: auditName(principal),
		UpdatedBy: auditName(principal),
		Version:   1,
	}
	applyDecision(decision, in)

	var id string
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		// 1. Number must be unique
		if err := checkDecisionNumber(ctx, tx, decision.Number, ""); err != nil {
			return err
		}

		// 2. Body and type must exist
		if err := checkDecisionLinks(ctx, tx, decision); err != nil {
			return err
		}

		if err := tx.Decisions().Create(ctx, decision); err != nil {
			return duplicate(err, numberTaken(decision.Number))
		}
		id = decision.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Decision created: %s (number %s) by %s", id, decision.Number, decision.CreatedBy)
	return s.GetByID(ctx, id)
}

// GetByID returns a decision with its body and type
func (s *DecisionService) GetByID(ctx context.Context, id string) (*models.Decision, error) {
	decision, err := s.store.Decisions().GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Decision", id)
	}
	return decision, nil
}

// List pages over decisions matching filter; a zero filter returns all
func (s *DecisionService) List(ctx context.Context, filter repositories.DecisionFilter, params *pagination.Params) (*pagination.Page[*models.Decision], error) {
	if filter.Status != "" && !domain.DecisionStatus(filter.Status).Valid() {
		return nil, domain.InvalidArgument("Unknown decision status: %s", filter.Status)
	}
	filter.SearchTerm = strings.TrimSpace(filter.SearchTerm)

	decisions, total, err := s.store.Decisions().List(ctx, filter, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(decisions, params, total), nil
}

// Update applies the non-nil fields. A decision in a final state is never
// modified; the check runs before any field is touched.
func (s *DecisionService) Update(ctx context.Context, principal *domain.Principal, id string, in *DecisionInput) (*models.Decision, error) {
	if errs := in.Validate(false); len(errs) > 0 {
		return nil, domain.Validation(errs)
	}

	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		// 1. Load
		decision, err := tx.Decisions().GetByID(ctx, id)
		if err != nil {
			return notFound(err, "Decision", id)
		}

		// 2. Final-state guard
		if decision.IsFinalState() {
			return domain.DecisionFinalState(decision.Status)
		}
		version := decision.Version
		if err := checkVersion("Decision", id, version, in.Version); err != nil {
			return err
		}

		// 3. Patch, re-checking a changed number
		previousNumber := decision.Number
		applyDecision(decision, in)
		if decision.Number != previousNumber {
			if err := checkDecisionNumber(ctx, tx, decision.Number, decision.ID); err != nil {
				return err
			}
		}

		// 4. Body and type must exist
		if err := checkDecisionLinks(ctx, tx, decision); err != nil {
			return err
		}

		// 5. Save under the version check
		decision.UpdatedBy = auditName(principal)
		decision.DecisionMakingBody = nil
		decision.DecisionType = nil
		err = tx.Decisions().Update(ctx, decision, version)
		return duplicate(conflict(err, "Decision", id), numberTaken(decision.Number))
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Decision updated: %s by %s", id, auditName(principal))
	return s.GetByID(ctx, id)
}

// Delete removes a decision that is not in a final state
func (s *DecisionService) Delete(ctx context.Context, id string) error {
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		decision, err := tx.Decisions().GetByID(ctx, id)
		if err != nil {
			return notFound(err, "Decision", id)
		}
		if decision.IsFinalState() {
			return domain.DecisionFinalState(decision.Status)
		}
		// a concurrent move to a final state bumps the version
		return conflict(tx.Decisions().Delete(ctx, id, decision.Version), "Decision", id)
	})
	if err != nil {
		return err
	}
	log.Printf("✅ Decision deleted: %s", id)
	return nil
}

// ExistsByNumber reports whether a decision with this number exists
func (s *DecisionService) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	return s.store.Decisions().ExistsByNumber(ctx, strings.TrimSpace(number), "")
}

func applyDecision(d *models.Decision, in *DecisionInput) {
	if v := textnorm.NamePtr(in.NameEn); v != nil {
		d.NameEn = *v
	}
	if v := textnorm.NamePtr(in.NameRu); v != nil {
		d.NameRu = *v
	}
	if v := textnorm.NamePtr(in.NameKg); v != nil {
		d.NameKg = *v
	}
	if in.Date != nil {
		// validated already
		d.Date, _ = time.Parse(models.DateLayout, *in.Date)
	}
	if in.Number != nil {
		d.Number = strings.TrimSpace(*in.Number)
	}
	if in.DecisionMakingBodyID != nil {
		d.DecisionMakingBodyID = *in.DecisionMakingBodyID
	}
	if in.DecisionTypeID != nil {
		d.DecisionTypeID = *in.DecisionTypeID
	}
	if in.Description != nil {
		d.Description = *in.Description
	}
	if in.Status != nil {
		d.Status = domain.DecisionStatus(*in.Status)
	}
	if in.DocumentPackageID != nil {
		v := *in.DocumentPackageID
		d.DocumentPackageID = &v
	}
}

func checkDecisionNumber(ctx context.Context, tx repositories.Store, number, excludeID string) error {
	taken, err := tx.Decisions().ExistsByNumber(ctx, number, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return numberTaken(number)
	}
	return nil
}

func numberTaken(number string) error {
	return domain.InvalidArgument("Decision with number '%s' already exists", number)
}

func checkDecisionLinks(ctx context.Context, tx repositories.Store, d *models.Decision) error {
	if _, err := repositories.References[models.DecisionMakingBody](tx).GetByID(ctx, d.DecisionMakingBodyID); err != nil {
		return notFound(err, "Decision making body", d.DecisionMakingBodyID)
	}
	if _, err := repositories.References[models.DecisionType](tx).GetByID(ctx, d.DecisionTypeID); err != nil {
		return notFound(err, "Decision type", d.DecisionTypeID)
	}
	return nil
}
