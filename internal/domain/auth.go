package domain

import "time"

// Permission names checked against the role table.
const (
	PermViewDashboard    = "view_dashboard"
	PermCreateTicket     = "create_ticket"
	PermEditTicket       = "edit_ticket"
	PermEditOwnTicket    = "edit_own_ticket"
	PermDeleteTicket     = "delete_ticket"
	PermAssignTicket     = "assign_ticket"
	PermManageUsers      = "manage_users"
	PermManageCategories = "manage_categories"
	PermViewAnalytics    = "view_analytics"
	PermManageSettings   = "manage_settings"
)

// Session is the authenticated-user context returned by login.
type Session struct {
	User      User
	Token     string
	ExpiresAt time.Time
}
