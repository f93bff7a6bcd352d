package service

import (
	casbin "github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/spec-kit/office-helpdesk/internal/domain"
)

const permissionModel = `
[request_definition]
r = sub, act

[policy_definition]
p = sub, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.act == p.act
`

var allPermissions = []string{
	domain.PermViewDashboard,
	domain.PermCreateTicket,
	domain.PermEditTicket,
	domain.PermEditOwnTicket,
	domain.PermDeleteTicket,
	domain.PermAssignTicket,
	domain.PermManageUsers,
	domain.PermManageCategories,
	domain.PermViewAnalytics,
	domain.PermManageSettings,
}

// rolePermissions is enumerated per role; roles do not inherit from each other.
var rolePermissions = map[domain.UserRole][]string{
	domain.UserRoleAdmin: {
		domain.PermViewDashboard,
		domain.PermCreateTicket,
		domain.PermEditTicket,
		domain.PermDeleteTicket,
		domain.PermAssignTicket,
		domain.PermManageUsers,
		domain.PermManageCategories,
		domain.PermViewAnalytics,
		domain.PermManageSettings,
	},
	domain.UserRoleManager: {
		domain.PermViewDashboard,
		domain.PermCreateTicket,
		domain.PermEditTicket,
		domain.PermAssignTicket,
		domain.PermViewAnalytics,
		domain.PermManageSettings,
	},
	domain.UserRoleUser: {
		domain.PermViewDashboard,
		domain.PermCreateTicket,
		domain.PermEditOwnTicket,
	},
}

// PermissionTable answers role/permission lookups.
type PermissionTable struct {
	enforcer *casbin.Enforcer
}

// NewPermissionTable loads the static role table into a casbin enforcer.
func NewPermissionTable() (*PermissionTable, error) {
	m, err := model.NewModelFromString(permissionModel)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	for role, perms := range rolePermissions {
		for _, perm := range perms {
			if _, err := enforcer.AddPolicy(string(role), perm); err != nil {
				return nil, err
			}
		}
	}
	return &PermissionTable{enforcer: enforcer}, nil
}

// Allowed reports whether role grants permission. Unknown roles grant nothing.
func (p *PermissionTable) Allowed(role domain.UserRole, permission string) bool {
	if p == nil || role == "" || permission == "" {
		return false
	}
	ok, err := p.enforcer.Enforce(string(role), permission)
	return err == nil && ok
}

// Permissions lists what role grants, in table order.
func (p *PermissionTable) Permissions(role domain.UserRole) []string {
	var granted []string
	for _, perm := range allPermissions {
		if p.Allowed(role, perm) {
			granted = append(granted, perm)
		}
	}
	return granted
}
