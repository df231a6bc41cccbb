package authz_test

import (
	"testing"

	"statefin-backend/internal/core/authz"
	"statefin-backend/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	admin := &domain.Principal{
		UserID:      1,
		Username:    "admin",
		Authorities: []string{"USER_READ", "USER_WRITE"},
		Roles:       []string{"ADMIN"},
	}
	plain := &domain.Principal{UserID: 2, Username: "alice", Roles: []string{"USER"}}

	tests := []struct {
		name      string
		principal *domain.Principal
		expr      authz.Expr
		want      bool
	}{
		{"authority held", admin, authz.Authority("USER_READ"), true},
		{"authority missing", plain, authz.Authority("USER_READ"), false},
		{"authority is case sensitive", admin, authz.Authority("user_read"), false},
		{"role held", admin, authz.Role("ADMIN"), true},
		{"role is not prefixed", admin, authz.Role("ROLE_ADMIN"), false},
		{"role is not an authority", admin, authz.Authority("ADMIN"), false},
		{"authority is not a role", admin, authz.Role("USER_READ"), false},
		{"authenticated", plain, authz.Authenticated(), true},
		{"nil principal", nil, authz.Authenticated(), false},
		{"anonymous principal", &domain.Principal{}, authz.Authenticated(), false},
		{"and all held", admin, authz.And(authz.Role("ADMIN"), authz.Authority("USER_WRITE")), true},
		{"and one missing", admin, authz.And(authz.Role("ADMIN"), authz.Authority("USER_DELETE")), false},
		{"or one held", plain, authz.Or(authz.Role("ADMIN"), authz.Role("USER")), true},
		{"or none held", plain, authz.Or(authz.Role("ADMIN"), authz.Authority("USER_READ")), false},
		{"empty and", plain, authz.And(), true},
		{"empty or", plain, authz.Or(), false},
		{"zero value never matches", admin, authz.Expr{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authz.Evaluate(tt.principal, tt.expr))
		})
	}
}

func TestExprString(t *testing.T) {
	expr := authz.Or(authz.Role("ADMIN"), authz.And(authz.Authenticated(), authz.Authority("DECISION_READ")))
	assert.Equal(t, "(hasRole('ADMIN') or (isAuthenticated() and hasAuthority('DECISION_READ')))", expr.String())
}
