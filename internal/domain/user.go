package domain

import "time"

// UserRole enumerates RBAC roles carried in identity tokens.
type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"
	RoleManager    UserRole = "MANAGER"
	RoleTechnician UserRole = "TECHNICIAN"
	RoleEmployee   UserRole = "EMPLOYEE"
)

// IsStaff reports whether the role may manage assets and tickets.
func (r UserRole) IsStaff() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleTechnician
}

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User is the domain model for organization members.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	Department   string
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
