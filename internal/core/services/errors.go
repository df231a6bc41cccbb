package services

import (
	"errors"

	"statefin-backend/internal/adapters/persistence/repositories"
	"statefin-backend/internal/core/domain"

	"gorm.io/gorm"
)

// notFound turns a missing row into a domain not-found error
func notFound(err error, resource string, key any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound(resource, key)
	}
	return err
}

// conflict turns a lost version race into a domain conflict
func conflict(err error, resource string, key any) error {
	if errors.Is(err, repositories.ErrStaleVersion) {
		return domain.Conflict("%s with id %v was modified by another request, reload and retry", resource, key)
	}
	return err
}

// checkVersion rejects a client that edited a stale copy
func checkVersion(resource string, key any, stored uint, sent *uint) error {
	if sent != nil && *sent != stored {
		return domain.Conflict("%s with id %v has version %d, request was based on version %d", resource, key, stored, *sent)
	}
	return nil
}

// duplicate maps a unique-index violation lost to a concurrent insert;
// the existence checks only cover requests that committed first
func duplicate(err error, mapped error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return mapped
	}
	return err
}
