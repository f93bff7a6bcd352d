package domain

import "time"

// UserRole is the unit permissions are granted to.
type UserRole string

const (
	UserRoleUser    UserRole = "user"
	UserRoleAdmin   UserRole = "admin"
	UserRoleManager UserRole = "manager"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleUser, UserRoleAdmin, UserRoleManager:
		return true
	}
	return false
}

// User is an office employee who reports, watches or resolves tickets.
type User struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Avatar     string     `json:"avatar,omitempty"`
	Role       UserRole   `json:"role"`
	Department string     `json:"department,omitempty"`
	Position   string     `json:"position,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastActive *time.Time `json:"lastActive,omitempty"`
	IsActive   bool       `json:"isActive"`
}
