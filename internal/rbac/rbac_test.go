package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ugcgo/ugcgo-backend/internal/models"
)

func TestRBAC_CheckPermissionWithRole(t *testing.T) {
	rbac := NewRBAC(nil)

	tests := []struct {
		name       string
		role       Role
		permission Permission
		want       bool
	}{
		{"Admin can grant credits", RoleAdmin, PermissionCreditsGrant, true},
		{"Admin can list users", RoleAdmin, PermissionUsersList, true},
		{"Admin can create video", RoleAdmin, PermissionVideoCreate, true},

		{"User can create video", RoleUser, PermissionVideoCreate, true},
		{"User can consume credits", RoleUser, PermissionCreditsConsume, true},
		{"User CANNOT grant credits", RoleUser, PermissionCreditsGrant, false},
		{"User CANNOT list users", RoleUser, PermissionUsersList, false},

		{"Unknown role has no permissions", "super_hacker", PermissionVideoCreate, false},
		{"Empty role has no permissions", "", PermissionSubscriptionView, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rbac.CheckPermissionWithRole(tt.role, tt.permission))
		})
	}
}

func TestRBAC_RoleFor(t *testing.T) {
	rbac := NewRBAC([]string{" Admin@Example.com ", ""})

	assert.Equal(t, RoleAdmin, rbac.RoleFor(&models.Identity{ID: "1", Email: "admin@example.com"}))
	assert.Equal(t, RoleAdmin, rbac.RoleFor(&models.Identity{ID: "1", Email: "ADMIN@example.COM"}))
	assert.Equal(t, RoleUser, rbac.RoleFor(&models.Identity{ID: "2", Email: "user@example.com"}))
	assert.Equal(t, RoleUser, rbac.RoleFor(&models.Identity{ID: "3"}))
	assert.Equal(t, Role(""), rbac.RoleFor(nil))
}

func TestRBAC_Can(t *testing.T) {
	rbac := NewRBAC([]string{"admin@example.com"})
	admin := &models.Identity{ID: "1", Email: "admin@example.com"}
	user := &models.Identity{ID: "2", Email: "user@example.com"}

	assert.True(t, rbac.Can(admin, PermissionCreditsGrant))
	assert.False(t, rbac.Can(user, PermissionCreditsGrant))
	assert.False(t, rbac.Can(nil, PermissionVideoCreate))
}

func TestRBAC_EmptyAllowList(t *testing.T) {
	rbac := NewRBAC(nil)
	assert.False(t, rbac.Can(&models.Identity{ID: "1", Email: ""}, PermissionUsersList))
}
