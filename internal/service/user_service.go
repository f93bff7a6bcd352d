package service

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/spec-kit/office-helpdesk/internal/clock"
	"github.com/spec-kit/office-helpdesk/internal/config"
	"github.com/spec-kit/office-helpdesk/internal/domain"
	"github.com/spec-kit/office-helpdesk/internal/observability"
	"github.com/spec-kit/office-helpdesk/internal/seed"
	apperrors "github.com/spec-kit/office-helpdesk/pkg/util"
)

// UserDirectory resolves users by id or email.
type UserDirectory interface {
	GetUserByID(id string) (domain.User, bool)
	GetUserByEmail(email string) (domain.User, bool)
}

var (
	opFetchUsers       = operation{"fetch_users", "Failed to fetch users"}
	opCreateUser       = operation{"create_user", "Failed to create user"}
	opUpdateUser       = operation{"update_user", "Failed to update user"}
	opDeleteUser       = operation{"delete_user", "Failed to delete user"}
	opToggleUserStatus = operation{"toggle_user_status", "Failed to toggle user status"}
)

// UserService owns the user directory.
type UserService struct {
	*opRunner

	clock clock.Clock
	mu    sync.RWMutex
	users []domain.User
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	Clock   clock.Clock
	Logger  *zap.Logger
	Metrics *observability.Metrics
	Config  config.StoreConfig
}

// UserInput describes user creation payload.
type UserInput struct {
	Name       string
	Email      string
	Avatar     string
	Role       domain.UserRole
	Department string
	Position   string
	Phone      string
}

// UserUpdate holds the fields to merge into a user. Nil fields are untouched.
type UserUpdate struct {
	Name       *string
	Email      *string
	Avatar     *string
	Role       *domain.UserRole
	Department *string
	Position   *string
	Phone      *string
}

// NewUserService constructs the service. The directory starts with the seeded users.
func NewUserService(deps UserDependencies) *UserService {
	if deps.Clock == nil {
		deps.Clock = clock.Real()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &UserService{
		opRunner: newOpRunner(deps.Config, deps.Metrics, deps.Logger),
		clock:    deps.Clock,
		users:    seed.Users(deps.Clock.Now()),
	}
}

// FetchUsers resets the directory to the seeded users.
func (s *UserService) FetchUsers(ctx context.Context) error {
	return s.run(ctx, opFetchUsers, func() error {
		users := seed.Users(s.clock.Now())
		s.mu.Lock()
		s.users = users
		s.mu.Unlock()
		return nil
	})
}

// Users returns a copy of the directory.
func (s *UserService) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUsers(s.users)
}

func (s *UserService) GetUserByID(id string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := lo.Find(s.users, func(u domain.User) bool { return u.ID == id })
	return cloneUser(user), ok
}

func (s *UserService) GetUserByEmail(email string) (domain.User, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := lo.Find(s.users, func(u domain.User) bool { return strings.ToLower(u.Email) == email })
	return cloneUser(user), ok
}

// CreateUser appends an active user.
func (s *UserService) CreateUser(ctx context.Context, input UserInput) (domain.User, error) {
	var created domain.User
	err := s.run(ctx, opCreateUser, func() error {
		name := strings.TrimSpace(input.Name)
		email := strings.TrimSpace(input.Email)
		if name == "" || email == "" {
			return apperrors.NewValidationError("name and email are required", nil)
		}
		role := input.Role
		if role == "" {
			role = domain.UserRoleUser
		}
		if !role.Valid() {
			return apperrors.NewValidationError("invalid role", map[string]any{"role": role})
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.emailTakenLocked(email, "") {
			return apperrors.NewConflict("email already in use", map[string]any{"email": email})
		}
		created = domain.User{
			ID:         "user-" + uuid.NewString(),
			Name:       name,
			Email:      email,
			Avatar:     input.Avatar,
			Role:       role,
			Department: input.Department,
			Position:   input.Position,
			Phone:      input.Phone,
			CreatedAt:  s.clock.Now(),
			IsActive:   true,
		}
		s.users = append(s.users, created)
		return nil
	})
	return created, err
}

// UpdateUser merges update into the user with the given id.
func (s *UserService) UpdateUser(ctx context.Context, id string, update UserUpdate) (domain.User, error) {
	var updated domain.User
	err := s.run(ctx, opUpdateUser, func() error {
		if update.Role != nil && !update.Role.Valid() {
			return apperrors.NewValidationError("invalid role", map[string]any{"role": *update.Role})
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		idx := s.indexLocked(id)
		if idx < 0 {
			return apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		user := s.users[idx]
		if update.Name != nil {
			user.Name = strings.TrimSpace(*update.Name)
		}
		if update.Email != nil {
			email := strings.TrimSpace(*update.Email)
			if s.emailTakenLocked(email, id) {
				return apperrors.NewConflict("email already in use", map[string]any{"email": email})
			}
			user.Email = email
		}
		if update.Avatar != nil {
			user.Avatar = *update.Avatar
		}
		if update.Role != nil {
			user.Role = *update.Role
		}
		if update.Department != nil {
			user.Department = *update.Department
		}
		if update.Position != nil {
			user.Position = *update.Position
		}
		if update.Phone != nil {
			user.Phone = *update.Phone
		}
		if user.Name == "" || user.Email == "" {
			return apperrors.NewValidationError("name and email are required", nil)
		}
		s.users[idx] = user
		updated = cloneUser(user)
		return nil
	})
	return updated, err
}

// DeleteUser removes the user. Deleting an unknown id is not an error.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	return s.run(ctx, opDeleteUser, func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.users = lo.Reject(s.users, func(u domain.User, _ int) bool { return u.ID == id })
		return nil
	})
}

// ToggleUserStatus flips the active flag. Reactivation stamps LastActive.
func (s *UserService) ToggleUserStatus(ctx context.Context, id string) (domain.User, error) {
	var toggled domain.User
	err := s.run(ctx, opToggleUserStatus, func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		idx := s.indexLocked(id)
		if idx < 0 {
			return apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		user := s.users[idx]
		if !user.IsActive {
			now := s.clock.Now()
			user.LastActive = &now
		}
		user.IsActive = !user.IsActive
		s.users[idx] = user
		toggled = cloneUser(user)
		return nil
	})
	return toggled, err
}

// SearchUsers matches name, email, department or position case-insensitively.
func (s *UserService) SearchUsers(query string) []domain.User {
	query = strings.ToLower(strings.TrimSpace(query))
	users := s.Users()
	if query == "" {
		return users
	}
	return lo.Filter(users, func(u domain.User, _ int) bool {
		return strings.Contains(strings.ToLower(u.Name), query) ||
			strings.Contains(strings.ToLower(u.Email), query) ||
			strings.Contains(strings.ToLower(u.Department), query) ||
			strings.Contains(strings.ToLower(u.Position), query)
	})
}

// UsersByDepartment returns every user when department is empty.
func (s *UserService) UsersByDepartment(department string) []domain.User {
	users := s.Users()
	if department == "" {
		return users
	}
	return lo.Filter(users, func(u domain.User, _ int) bool { return u.Department == department })
}

// UsersByRole returns every user when role is empty.
func (s *UserService) UsersByRole(role domain.UserRole) []domain.User {
	users := s.Users()
	if role == "" {
		return users
	}
	return lo.Filter(users, func(u domain.User, _ int) bool { return u.Role == role })
}

func (s *UserService) indexLocked(id string) int {
	_, idx, ok := lo.FindIndexOf(s.users, func(u domain.User) bool { return u.ID == id })
	if !ok {
		return -1
	}
	return idx
}

func (s *UserService) emailTakenLocked(email, exceptID string) bool {
	return lo.ContainsBy(s.users, func(u domain.User) bool {
		return u.ID != exceptID && strings.EqualFold(u.Email, email)
	})
}

func cloneUser(u domain.User) domain.User {
	if u.LastActive != nil {
		lastActive := *u.LastActive
		u.LastActive = &lastActive
	}
	return u
}

func cloneUsers(users []domain.User) []domain.User {
	return lo.Map(users, func(u domain.User, _ int) domain.User { return cloneUser(u) })
}
