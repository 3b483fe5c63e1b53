package dto

import (
	"time"

	"github.com/spec-kit/asset-service/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// CreateUserRequest payload for admin provisioning.
type CreateUserRequest struct {
	Name       string          `json:"name" validate:"required"`
	Email      string          `json:"email" validate:"required,email"`
	Password   string          `json:"password" validate:"required,min=8"`
	Role       domain.UserRole `json:"role" validate:"required,oneof=ADMIN MANAGER TECHNICIAN EMPLOYEE"`
	Department string          `json:"department"`
}

// UpdateUserRequest payload. Omitted fields stay unchanged.
type UpdateUserRequest struct {
	Name       *string            `json:"name"`
	Role       *domain.UserRole   `json:"role"`
	Department *string            `json:"department"`
	Status     *domain.UserStatus `json:"status"`
}

// UserResponse serializes one account. Password hash never leaves the
// persistence layer.
type UserResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Role       domain.UserRole   `json:"role"`
	Department string            `json:"department"`
	Status     domain.UserStatus `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
}

// NewUserResponse maps the domain model.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		Department: user.Department,
		Status:     user.Status,
		CreatedAt:  user.CreatedAt,
	}
}
