package moderation

import (
	"testing"

	"blog_api/internal/pkg/apperror"
	"blog_api/internal/pkg/identity"

	"github.com/stretchr/testify/assert"
)

func TestCanMutate(t *testing.T) {
	admin := identity.Principal{ID: "admin", Role: identity.RoleAdmin}
	owner := identity.Principal{ID: "u1", Role: identity.RoleUser}
	other := identity.Principal{ID: "u2", Role: identity.RoleUser}
	unknown := identity.Principal{ID: "u1", Role: identity.Role("GUEST")}

	tests := []struct {
		name      string
		principal identity.Principal
		ownerID   string
		adminOnly bool
		want      bool
	}{
		{"admin on foreign resource", admin, "u1", false, true},
		{"admin on admin field", admin, "u1", true, true},
		{"owner", owner, "u1", false, true},
		{"owner on admin field", owner, "u1", true, false},
		{"non owner", other, "u1", false, false},
		{"unknown role", unknown, "u1", false, false},
		{"empty principal", identity.Principal{Role: identity.RoleUser}, "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanMutate(tt.principal, tt.ownerID, tt.adminOnly))
		})
	}
}

func TestAuthorize(t *testing.T) {
	err := Authorize(identity.Principal{ID: "u2", Role: identity.RoleUser}, "u1")
	assert.True(t, apperror.Is(err, apperror.KindAuthorization))

	assert.NoError(t, Authorize(identity.Principal{ID: "u1", Role: identity.RoleUser}, "u1"))
}

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, RequireAdmin(identity.Principal{ID: "a", Role: identity.RoleAdmin}))

	err := RequireAdmin(identity.Principal{ID: "u", Role: identity.RoleUser})
	assert.True(t, apperror.Is(err, apperror.KindAuthorization))
}

type fakePatch struct{ featured *bool }

func (f *fakePatch) SanitizeAdminFields() { f.featured = nil }

func TestSanitize(t *testing.T) {
	yes := true

	p := &fakePatch{featured: &yes}
	Sanitize(identity.Principal{ID: "u", Role: identity.RoleUser}, p)
	assert.Nil(t, p.featured)

	p = &fakePatch{featured: &yes}
	Sanitize(identity.Principal{ID: "a", Role: identity.RoleAdmin}, p)
	assert.NotNil(t, p.featured)
}
