package repositories

import (
	"context"
	"errors"
	"strings"

	"statefin-backend/internal/pkg/pagination"
	"statefin-backend/internal/pkg/textnorm"

	"gorm.io/gorm"
)

// ErrStaleVersion is returned by version-checked updates that matched no row
var ErrStaleVersion = errors.New("row was updated or deleted by another transaction")

// gormStore implements Store
type gormStore struct {
	db *gorm.DB
}

// NewStore creates a new store over db
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository             { return NewUserRepository(s.db) }
func (s *gormStore) Roles() RoleRepository             { return NewRoleRepository(s.db) }
func (s *gormStore) Permissions() PermissionRepository { return NewPermissionRepository(s.db) }
func (s *gormStore) Decisions() DecisionRepository     { return NewDecisionRepository(s.db) }
func (s *gormStore) Conn() *gorm.DB                    { return s.db }

// Transaction wraps gorm's Transaction; nested calls become savepoints
func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// paginate applies ORDER BY, OFFSET and LIMIT
func paginate(db *gorm.DB, params *pagination.Params) *gorm.DB {
	return db.Order(params.Order()).Offset(params.Offset).Limit(params.Size)
}

// whereLike matches term case-insensitively against any of columns
func whereLike(db *gorm.DB, term string, columns ...string) *gorm.DB {
	pattern := textnorm.LikePattern(term)
	conds := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		conds[i] = "LOWER(" + col + ") LIKE ? ESCAPE '" + textnorm.LikeEscape + "'"
		args[i] = pattern
	}
	return db.Where("("+strings.Join(conds, " OR ")+")", args...)
}

// exists counts rows matching query, skipping excludeID when set
func exists(db *gorm.DB, excludeID interface{}, query interface{}, args ...interface{}) (bool, error) {
	var count int64
	q := db.Where(query, args...)
	switch id := excludeID.(type) {
	case uint:
		if id != 0 {
			q = q.Where("id <> ?", id)
		}
	case string:
		if id != "" {
			q = q.Where("id <> ?", id)
		}
	}
	err := q.Count(&count).Error
	return count > 0, err
}
