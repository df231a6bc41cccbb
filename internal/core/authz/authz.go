// Package authz evaluates the access expression declared on each endpoint
// against the principal resolved for the request.
package authz

import (
	"strings"

	"statefin-backend/internal/core/domain"
)

// Kind tags the variant held by an Expr
type Kind int

const (
	KindAuthority Kind = iota
	KindRole
	KindAuthenticated
	KindAnd
	KindOr
)

// Expr is one of Authority(name), Role(name), Authenticated(), And(...) or Or(...).
// Build it with the constructors; the zero value is Authority("") and never matches.
type Expr struct {
	Kind     Kind
	Name     string
	Operands []Expr
}

// Authority requires an exact authority (permission name) in the principal.
func Authority(name string) Expr {
	return Expr{Kind: KindAuthority, Name: name}
}

// Role requires a role literally named name. No ROLE_ prefix is added.
func Role(name string) Expr {
	return Expr{Kind: KindRole, Name: name}
}

// Authenticated requires any non-anonymous principal.
func Authenticated() Expr {
	return Expr{Kind: KindAuthenticated}
}

// And is satisfied when every operand is.
func And(operands ...Expr) Expr {
	return Expr{Kind: KindAnd, Operands: operands}
}

// Or is satisfied when at least one operand is.
func Or(operands ...Expr) Expr {
	return Expr{Kind: KindOr, Operands: operands}
}

// Evaluate decides whether p satisfies e. A nil principal satisfies nothing.
func Evaluate(p *domain.Principal, e Expr) bool {
	if !p.IsAuthenticated() {
		return false
	}

	switch e.Kind {
	case KindAuthority:
		return e.Name != "" && p.HasAuthority(e.Name)
	case KindRole:
		return e.Name != "" && p.HasRole(e.Name)
	case KindAuthenticated:
		return true
	case KindAnd:
		for _, op := range e.Operands {
			if !Evaluate(p, op) {
				return false
			}
		}
		return true
	case KindOr:
		for _, op := range e.Operands {
			if Evaluate(p, op) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// String renders the expression the way it is declared, for logs.
func (e Expr) String() string {
	switch e.Kind {
	case KindAuthority:
		return "hasAuthority('" + e.Name + "')"
	case KindRole:
		return "hasRole('" + e.Name + "')"
	case KindAuthenticated:
		return "isAuthenticated()"
	case KindAnd, KindOr:
		sep := " and "
		if e.Kind == KindOr {
			sep = " or "
		}
		parts := make([]string, len(e.Operands))
		for i, op := range e.Operands {
			parts[i] = op.String()
		}
		return "(" + strings.Join(parts, sep) + ")"
	default:
		return "unknown"
	}
}
