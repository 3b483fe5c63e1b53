package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/asset-service/internal/auth"
	"github.com/spec-kit/asset-service/internal/domain"
	"github.com/spec-kit/asset-service/internal/events"
	"github.com/spec-kit/asset-service/internal/repository"
	apperrors "github.com/spec-kit/asset-service/pkg/util/errorutil"
)

var knownRoles = map[domain.UserRole]struct{}{
	domain.RoleAdmin:      {},
	domain.RoleManager:    {},
	domain.RoleTechnician: {},
	domain.RoleEmployee:   {},
}

// UserService manages organization member accounts. Account creation is
// admin-only; enforcement happens at the route level.
type UserService struct {
	users      repository.UserRepository
	audit      *AuditRecorder
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, audit *AuditRecorder, bcryptCost int) *UserService {
	return &UserService{users: users, audit: audit, bcryptCost: bcryptCost}
}

// CreateUserInput carries the fields an admin supplies for a new account.
type CreateUserInput struct {
	Name       string
	Email      string
	Password   string
	Role       domain.UserRole
	Department string
}

// CreateUser provisions a new account with an initial password.
func (s *UserService) CreateUser(ctx context.Context, actor events.Actor, input CreateUserInput) (*domain.User, error) {
	if input.Name == "" || input.Email == "" {
		return nil, apperrors.NewValidationError("name and email are required", nil)
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	if _, ok := knownRoles[input.Role]; !ok {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		Department:   input.Department,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit.Record(ctx, domain.AuditEntityUser, user.ID, "user_created", actor,
		"account provisioned",
		nil,
		map[string]any{"email": user.Email, "role": user.Role, "department": user.Department})
	return user, nil
}

// UpdateUserInput carries mutable account fields. Nil pointers leave the
// field unchanged.
type UpdateUserInput struct {
	Name       *string
	Role       *domain.UserRole
	Department *string
	Status     *domain.UserStatus
}

// UpdateUser applies role, department, and status changes.
func (s *UserService) UpdateUser(ctx context.Context, actor events.Actor, userID string, input UpdateUserInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	previous := map[string]any{"name": user.Name, "role": user.Role, "department": user.Department, "status": user.Status}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Role != nil {
		if _, ok := knownRoles[*input.Role]; !ok {
			return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": *input.Role})
		}
		user.Role = *input.Role
	}
	if input.Department != nil {
		user.Department = *input.Department
	}
	if input.Status != nil {
		if *input.Status != domain.UserStatusActive && *input.Status != domain.UserStatusSuspended {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": *input.Status})
		}
		user.Status = *input.Status
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit.Record(ctx, domain.AuditEntityUser, user.ID, "user_updated", actor,
		"account updated",
		previous,
		map[string]any{"name": user.Name, "role": user.Role, "department": user.Department, "status": user.Status})
	return user, nil
}

// GetUser fetches one account.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ListUsers pages through all accounts.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}
