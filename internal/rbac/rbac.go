package rbac

import (
	"slices"
	"strings"

	"github.com/ugcgo/ugcgo-backend/internal/models"
)

// Permission is an action guarded by the policy
type Permission string

const (
	// Subscriber permissions
	PermissionSubscriptionView Permission = "subscription:view"
	PermissionVideoCreate      Permission = "video:create"
	PermissionCreditsConsume   Permission = "credits:consume"

	// Administrative permissions
	PermissionCreditsGrant Permission = "credits:grant"
	PermissionUsersList    Permission = "users:list"
)

// Role of an identity
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Policy decides what an identity may do
type Policy interface {
	Can(identity *models.Identity, permission Permission) bool
}

// RBAC assigns the admin role to a configured email allow-list
type RBAC struct {
	rolePermissions map[Role][]Permission
	adminEmails     map[string]struct{}
}

var _ Policy = (*RBAC)(nil)

// NewRBAC builds the policy. Emails are compared case-insensitively.
func NewRBAC(adminEmails []string) *RBAC {
	r := &RBAC{
		rolePermissions: make(map[Role][]Permission),
		adminEmails:     make(map[string]struct{}, len(adminEmails)),
	}
	for _, e := range adminEmails {
		if e = normalizeEmail(e); e != "" {
			r.adminEmails[e] = struct{}{}
		}
	}

	r.initializeRolePermissions()
	return r
}

func (r *RBAC) initializeRolePermissions() {
	r.rolePermissions[RoleUser] = []Permission{
		PermissionSubscriptionView,
		PermissionVideoCreate,
		PermissionCreditsConsume,
	}

	r.rolePermissions[RoleAdmin] = append(slices.Clone(r.rolePermissions[RoleUser]),
		PermissionCreditsGrant,
		PermissionUsersList,
	)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RoleFor returns the role of an identity. Identities without an email are users.
func (r *RBAC) RoleFor(identity *models.Identity) Role {
	if identity == nil {
		return ""
	}
	if email := normalizeEmail(identity.Email); email != "" {
		if _, ok := r.adminEmails[email]; ok {
			return RoleAdmin
		}
	}
	return RoleUser
}

// Can reports whether the identity holds the permission
func (r *RBAC) Can(identity *models.Identity, permission Permission) bool {
	return r.CheckPermissionWithRole(r.RoleFor(identity), permission)
}

// CheckPermissionWithRole checks a permission for a role
func (r *RBAC) CheckPermissionWithRole(role Role, permission Permission) bool {
	return slices.Contains(r.rolePermissions[role], permission)
}
