package domain

import (
	"slices"
	"strings"
)

// Built-in role names
const (
	RoleUser    = "USER"
	RoleManager = "MANAGER"
	RoleAdmin   = "ADMIN"
)

// Principal is the authenticated identity attached to a request.
// Authorities and Roles are a snapshot taken when the token was issued.
type Principal struct {
	UserID      uint
	Username    string
	Email       string
	Authorities []string
	Roles       []string
}

// HasAuthority reports whether the principal holds the exact authority.
func (p *Principal) HasAuthority(name string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Authorities, name)
}

// HasRole reports whether the principal holds a role with this exact name.
func (p *Principal) HasRole(name string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Roles, name)
}

// IsAuthenticated reports whether p is a real, non-anonymous principal.
func (p *Principal) IsAuthenticated() bool {
	return p != nil && p.Username != ""
}

// ReferenceStatus is the binary lifecycle of a reference entity
type ReferenceStatus string

const (
	ReferenceActive   ReferenceStatus = "ACTIVE"
	ReferenceInactive ReferenceStatus = "INACTIVE"
)

// Valid reports whether s is a known status.
func (s ReferenceStatus) Valid() bool {
	return s == ReferenceActive || s == ReferenceInactive
}

// LocalizedName picks the name for a language tag: ru, kg/ky, anything else falls back to English.
func LocalizedName(lang, nameEn, nameRu, nameKg string) string {
	switch normalizeLang(lang) {
	case "ru":
		return nameRu
	case "kg", "ky":
		return nameKg
	default:
		return nameEn
	}
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if len(lang) > 2 {
		lang = lang[:2]
	}
	return lang
}
