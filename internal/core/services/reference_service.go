package services

import (
	"context"
	"errors"
	"log"

	"statefin-backend/internal/adapters/persistence/models"
	"statefin-backend/internal/adapters/persistence/repositories"
	"statefin-backend/internal/core/domain"
	"statefin-backend/internal/pkg/pagination"
	"statefin-backend/internal/pkg/textnorm"
	"statefin-backend/internal/pkg/validation"

	"gorm.io/gorm"
)

// ReferenceInput is the request body shared by every reference type. Fields a
// type does not have are ignored. On update nil fields are left unchanged.
type ReferenceInput struct {
	NameEn      *string `json:"nameEn"`
	NameRu      *string `json:"nameRu"`
	NameKg      *string `json:"nameKg"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	// Version, when sent on update, must match the stored version
	Version *uint `json:"version"`

	Code                     *string `json:"code"`
	Symbol                   *string `json:"symbol"`
	OrderPriority            *int    `json:"orderPriority"`
	Address                  *string `json:"address"`
	ContactPhone             *string `json:"contactPhone"`
	ContactEmail             *string `json:"contactEmail"`
	RegistrationNumberFormat *string `json:"registrationNumberFormat"`
}

// ReferenceKey is a unique column besides name_ru
type ReferenceKey[P any] struct {
	Column string
	Field  string
	Value  func(P) string
	// Normalize, when set, is applied to lookup values
	Normalize func(string) string
}

// ReferenceKind describes one reference type to the generic service
type ReferenceKind[P any] struct {
	// Name is used in messages, e.g. "Currency"
	Name  string
	Usage repositories.UsageCheck
	Keys  []ReferenceKey[P]
	// Validate checks the type-specific fields
	Validate func(in *ReferenceInput, create bool, errs validation.Errors)
	// Apply copies the type-specific fields onto the entity
	Apply func(entity P, in *ReferenceInput)
}

// ReferenceService implements CRUD, lifecycle and lookups for one reference type
type ReferenceService[T any, P repositories.RefPtr[T]] struct {
	store repositories.Store
	kind  ReferenceKind[P]
}

// NewReferenceService creates a service for the reference type described by kind
func NewReferenceService[T any, P repositories.RefPtr[T]](store repositories.Store, kind ReferenceKind[P]) *ReferenceService[T, P] {
	if kind.Usage == nil {
		kind.Usage = repositories.NoDependents()
	}
	return &ReferenceService[T, P]{store: store, kind: kind}
}

// Name is the display name of the reference type
func (s *ReferenceService[T, P]) Name() string {
	return s.kind.Name
}

func (s *ReferenceService[T, P]) repo(store repositories.Store) repositories.ReferenceRepository[P] {
	return repositories.References[T, P](store)
}

func (s *ReferenceService[T, P]) validate(in *ReferenceInput, create bool) map[string]string {
	errs := validation.Errors{}
	names := []struct {
		field string
		value *string
	}{{"nameEn", in.NameEn}, {"nameRu", in.NameRu}, {"nameKg", in.NameKg}}
	for _, n := range names {
		if create && n.value == nil {
			errs.Add(n.field, n.field+" is required")
		}
		errs.Optional(n.value, func(v string) {
			errs.Required(n.field, v)
			errs.MaxLen(n.field, v, 100)
		})
	}
	errs.Optional(in.Description, func(v string) {
		errs.MaxLen("description", v, 500)
	})
	errs.Optional(in.Status, func(v string) {
		if !domain.ReferenceStatus(v).Valid() {
			errs.Add("status", "status must be ACTIVE or INACTIVE")
		}
	})
	if s.kind.Validate != nil {
		s.kind.Validate(in, create, errs)
	}
	return errs
}

func (s *ReferenceService[T, P]) apply(entity P, in *ReferenceInput) {
	base := entity.Base()
	if v := textnorm.NamePtr(in.NameEn); v != nil {
		base.NameEn = *v
	}
	if v := textnorm.NamePtr(in.NameRu); v != nil {
		base.NameRu = *v
	}
	if v := textnorm.NamePtr(in.NameKg); v != nil {
		base.NameKg = *v
	}
	if in.Description != nil {
		base.Description = *in.Description
	}
	if in.Status != nil {
		base.Status = domain.ReferenceStatus(*in.Status)
	}
	if s.kind.Apply != nil {
		s.kind.Apply(entity, in)
	}
}

// checkKeys rejects a natural-key collision with another row
func (s *ReferenceService[T, P]) checkKeys(ctx context.Context, repo repositories.ReferenceRepository[P], entity P) error {
	base := entity.Base()
	taken, err := repo.ExistsBy(ctx, "name_ru", base.NameRu, base.ID)
	if err != nil {
		return err
	}
	if taken {
		return domain.InvalidArgument("%s with Russian name '%s' already exists", s.kind.Name, base.NameRu)
	}

	for _, key := range s.kind.Keys {
		value := key.Value(entity)
		if value == "" {
			continue
		}
		taken, err := repo.ExistsBy(ctx, key.Column, value, base.ID)
		if err != nil {
			return err
		}
		if taken {
			return domain.InvalidArgument("%s with %s '%s' already exists", s.kind.Name, key.Field, value)
		}
	}
	return nil
}

func (s *ReferenceService[T, P]) keyTaken() error {
	return domain.InvalidArgument("%s with the same Russian name or key already exists", s.kind.Name)
}

// Create stores a new entity, ACTIVE unless the input says otherwise
func (s *ReferenceService[T, P]) Create(ctx context.Context, principal *domain.Principal, in *ReferenceInput) (P, error) {
	if errs := s.validate(in, true); len(errs) > 0 {
		return nil, domain.Validation(errs)
	}

	entity := P(new(T))
	entity.Base().Status = domain.ReferenceActive
	s.apply(entity, in)
	entity.Base().CreatedBy = auditName(principal)
	entity.Base().UpdatedBy = auditName(principal)

	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		repo := s.repo(tx)
		if err := s.checkKeys(ctx, repo, entity); err != nil {
			return err
		}
		return duplicate(repo.Create(ctx, entity), s.keyTaken())
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ %s created: id=%d by %s", s.kind.Name, entity.Base().ID, entity.Base().CreatedBy)
	return entity, nil
}

// GetByID returns one entity localized to lang
func (s *ReferenceService[T, P]) GetByID(ctx context.Context, id uint, lang string) (P, error) {
	entity, err := s.repo(s.store).GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, s.kind.Name, id)
	}
	entity.Base().Localize(lang)
	return entity, nil
}

// GetByKey looks up by one of the kind's unique keys, e.g. a currency code
func (s *ReferenceService[T, P]) GetByKey(ctx context.Context, field, value, lang string) (P, error) {
	column, value, ok := s.lookupKey(field, value)
	if !ok {
		return nil, domain.InvalidArgument("%s has no unique field %s", s.kind.Name, field)
	}
	entity, err := s.repo(s.store).GetBy(ctx, column, value)
	if err != nil {
		return nil, s.notFoundBy(err, field, value)
	}
	entity.Base().Localize(lang)
	return entity, nil
}

// lookupKey resolves a key field to its column and normalized value
func (s *ReferenceService[T, P]) lookupKey(field, value string) (string, string, bool) {
	if field == "nameRu" {
		return "name_ru", textnorm.Name(value), true
	}
	for _, key := range s.kind.Keys {
		if key.Field != field {
			continue
		}
		if key.Normalize != nil {
			value = key.Normalize(value)
		}
		return key.Column, value, true
	}
	return "", "", false
}

func (s *ReferenceService[T, P]) notFoundBy(err error, field, value string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFoundBy(s.kind.Name, field, value)
	}
	return err
}

// List pages over all entities
func (s *ReferenceService[T, P]) List(ctx context.Context, params *pagination.Params, lang string) (*pagination.Page[P], error) {
	entities, total, err := s.repo(s.store).List(ctx, params)
	if err != nil {
		return nil, err
	}
	localize(entities, lang)
	return pagination.NewPage(entities, params, total), nil
}

// ListActive returns every ACTIVE entity
func (s *ReferenceService[T, P]) ListActive(ctx context.Context, lang string) ([]P, error) {
	entities, err := s.repo(s.store).ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if entities == nil {
		entities = []P{}
	}
	localize(entities, lang)
	return entities, nil
}

// Search pages over entities whose names or description contain term
func (s *ReferenceService[T, P]) Search(ctx context.Context, term string, params *pagination.Params, lang string) (*pagination.Page[P], error) {
	entities, total, err := s.repo(s.store).Search(ctx, term, params)
	if err != nil {
		return nil, err
	}
	localize(entities, lang)
	return pagination.NewPage(entities, params, total), nil
}

// Update applies the non-nil input fields under an optimistic version check
func (s *ReferenceService[T, P]) Update(ctx context.Context, principal *domain.Principal, id uint, in *ReferenceInput) (P, error) {
	if errs := s.validate(in, false); len(errs) > 0 {
		return nil, domain.Validation(errs)
	}

	var updated P
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		repo := s.repo(tx)
		entity, err := repo.GetByID(ctx, id)
		if err != nil {
			return notFound(err, s.kind.Name, id)
		}
		version := entity.Base().Version
		if err := checkVersion(s.kind.Name, id, version, in.Version); err != nil {
			return err
		}

		s.apply(entity, in)
		if err := s.checkKeys(ctx, repo, entity); err != nil {
			return err
		}
		entity.Base().UpdatedBy = auditName(principal)
		if err := repo.Update(ctx, entity, version); err != nil {
			return duplicate(conflict(err, s.kind.Name, id), s.keyTaken())
		}
		updated = entity
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ %s updated: id=%d by %s", s.kind.Name, id, updated.Base().UpdatedBy)
	return updated, nil
}

// Activate sets the status to ACTIVE
func (s *ReferenceService[T, P]) Activate(ctx context.Context, principal *domain.Principal, id uint) (P, error) {
	status := string(domain.ReferenceActive)
	return s.Update(ctx, principal, id, &ReferenceInput{Status: &status})
}

// Deactivate sets the status to INACTIVE
func (s *ReferenceService[T, P]) Deactivate(ctx context.Context, principal *domain.Principal, id uint) (P, error) {
	status := string(domain.ReferenceInactive)
	return s.Update(ctx, principal, id, &ReferenceInput{Status: &status})
}

// Delete removes the row. A row other aggregates point at is kept.
func (s *ReferenceService[T, P]) Delete(ctx context.Context, id uint) error {
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		repo := s.repo(tx)
		if _, err := repo.GetByID(ctx, id); err != nil {
			return notFound(err, s.kind.Name, id)
		}
		used, err := s.kind.Usage(tx).IsReferenced(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return domain.Conflict("%s with id %d is referenced and cannot be deleted, deactivate it instead", s.kind.Name, id)
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	log.Printf("✅ %s deleted: id=%d", s.kind.Name, id)
	return nil
}

// IsReferenced reports whether other aggregates point at the entity
func (s *ReferenceService[T, P]) IsReferenced(ctx context.Context, id uint) (bool, error) {
	if _, err := s.repo(s.store).GetByID(ctx, id); err != nil {
		return false, notFound(err, s.kind.Name, id)
	}
	return s.kind.Usage(s.store).IsReferenced(ctx, id)
}

// ExistsByKey reports whether a row with this natural key exists
func (s *ReferenceService[T, P]) ExistsByKey(ctx context.Context, field, value string) (bool, error) {
	column, value, ok := s.lookupKey(field, value)
	if !ok {
		return false, domain.InvalidArgument("%s has no unique field %s", s.kind.Name, field)
	}
	return s.repo(s.store).ExistsBy(ctx, column, value, 0)
}

func localize[P models.Reference](entities []P, lang string) {
	for _, e := range entities {
		e.Base().Localize(lang)
	}
}

// auditName is the username recorded in created_by/updated_by
func auditName(p *domain.Principal) string {
	if p == nil || p.Username == "" {
		return "system"
	}
	return p.Username
}
