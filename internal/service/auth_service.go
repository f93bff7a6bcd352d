package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/spec-kit/office-helpdesk/internal/config"
	"github.com/spec-kit/office-helpdesk/internal/domain"
	"github.com/spec-kit/office-helpdesk/internal/observability"
	"github.com/spec-kit/office-helpdesk/internal/repository"
	"github.com/spec-kit/office-helpdesk/internal/seed"
	apperrors "github.com/spec-kit/office-helpdesk/pkg/util"
)

var (
	opLogin     = operation{"login", "Invalid credentials"}
	opCheckAuth = operation{"check_auth", "Failed to restore session"}
)

// CredentialVerifier checks a login attempt.
type CredentialVerifier interface {
	Verify(email, password string) bool
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	GenerateToken(user domain.User) (string, time.Time, error)
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	Users       UserDirectory
	Feed        *NotificationFeed
	Permissions *PermissionTable
	Sessions    repository.SessionRepository
	Credentials CredentialVerifier
	Tokens      TokenIssuer
	Logger      *zap.Logger
	Metrics     *observability.Metrics
	Config      config.StoreConfig
}

// SettingsUpdate holds the settings fields to merge. Nil fields are untouched.
type SettingsUpdate struct {
	Theme                *domain.Theme
	EmailNotifications   *bool
	DesktopNotifications *bool
	Language             *string
}

// AuthService owns the session identity, its notification feed and settings.
type AuthService struct {
	*opRunner

	users       UserDirectory
	feed        *NotificationFeed
	permissions *PermissionTable
	sessions    repository.SessionRepository
	credentials CredentialVerifier
	tokens      TokenIssuer
	logger      *zap.Logger

	mu             sync.RWMutex
	session        *domain.Session
	notifications  []domain.Notification
	settings       *domain.UserSettings
	storedSettings map[string]domain.UserSettings
}

// NewAuthService builds the service in the anonymous state.
func NewAuthService(deps AuthDependencies) *AuthService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	stored := lo.SliceToMap(seed.UserSettings(), func(s domain.UserSettings) (string, domain.UserSettings) {
		return s.UserID, s
	})
	return &AuthService{
		opRunner:       newOpRunner(deps.Config, deps.Metrics, deps.Logger),
		users:          deps.Users,
		feed:           deps.Feed,
		permissions:    deps.Permissions,
		sessions:       deps.Sessions,
		credentials:    deps.Credentials,
		tokens:         deps.Tokens,
		logger:         deps.Logger,
		storedSettings: stored,
	}
}

// Login verifies the credentials and opens a session for the matching user.
// A failed attempt leaves any existing session untouched.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	var session domain.Session
	err := s.run(ctx, opLogin, func() error {
		user, ok := s.users.GetUserByEmail(email)
		if !ok || s.credentials == nil || !s.credentials.Verify(email, password) {
			return apperrors.NewInvalidCredentials()
		}
		var err error
		session, err = s.open(user)
		if err != nil {
			return err
		}
		if s.sessions != nil {
			if err := s.sessions.Save(ctx, user); err != nil {
				s.logger.Warn("session not persisted", zap.String("user_id", user.ID), zap.Error(err))
			}
		}
		return nil
	})
	return session, err
}

// Logout clears the session and its persisted copy.
func (s *AuthService) Logout(ctx context.Context) {
	s.mu.Lock()
	s.session = nil
	s.notifications = nil
	s.settings = nil
	s.mu.Unlock()

	if s.sessions != nil {
		if err := s.sessions.Clear(ctx); err != nil {
			s.logger.Warn("persisted session not cleared", zap.Error(err))
		}
	}
}

// CheckAuth restores the persisted session, if any, and reports whether a
// session is now open.
func (s *AuthService) CheckAuth(ctx context.Context) (bool, error) {
	authenticated := false
	err := s.run(ctx, opCheckAuth, func() error {
		if s.sessions == nil {
			return nil
		}
		stored, ok := s.sessions.Load(ctx)
		if !ok {
			return nil
		}
		user := *stored
		if current, found := s.users.GetUserByID(user.ID); found {
			user = current
		}
		if _, err := s.open(user); err != nil {
			return err
		}
		authenticated = true
		return nil
	})
	return authenticated, err
}

func (s *AuthService) open(user domain.User) (domain.Session, error) {
	session := domain.Session{User: user}
	if s.tokens != nil {
		token, expiresAt, err := s.tokens.GenerateToken(user)
		if err != nil {
			return domain.Session{}, apperrors.NewInternalError(err)
		}
		session.Token = token
		session.ExpiresAt = expiresAt
	}

	var notifications []domain.Notification
	if s.feed != nil {
		notifications = s.feed.ForUser(user.ID)
	}
	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	settings, ok := s.storedSettings[user.ID]
	if !ok {
		settings = domain.DefaultUserSettings(user.ID)
	}
	s.session = &session
	s.notifications = notifications
	s.settings = &settings
	return session, nil
}

// CurrentUser returns the session user.
func (s *AuthService) CurrentUser() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return domain.User{}, false
	}
	return s.session.User, true
}

// Session returns the open session.
func (s *AuthService) Session() (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return domain.Session{}, false
	}
	return *s.session, true
}

// IsAuthenticated reports whether a session is open.
func (s *AuthService) IsAuthenticated() bool {
	_, ok := s.CurrentUser()
	return ok
}

// Notifications returns the session feed, newest first.
func (s *AuthService) Notifications() []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Notification{}, s.notifications...)
}

// UnreadNotificationsCount counts unread notifications in the session feed.
func (s *AuthService) UnreadNotificationsCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return unreadCount(s.notifications)
}

// UserSettings returns the session settings.
func (s *AuthService) UserSettings() (domain.UserSettings, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return domain.UserSettings{}, false
	}
	return *s.settings, true
}

// MarkNotificationAsRead flags one notification as read. Unknown ids are ignored.
func (s *AuthService) MarkNotificationAsRead(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return
	}
	for i := range s.notifications {
		if s.notifications[i].ID == id && !s.notifications[i].IsRead {
			s.notifications[i].IsRead = true
			if s.feed != nil {
				s.feed.MarkRead(s.session.User.ID, id)
			}
		}
	}
}

// MarkAllNotificationsAsRead flags every session notification as read.
func (s *AuthService) MarkAllNotificationsAsRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return
	}
	ids := make([]string, 0, len(s.notifications))
	for i := range s.notifications {
		s.notifications[i].IsRead = true
		ids = append(ids, s.notifications[i].ID)
	}
	if s.feed != nil && len(ids) > 0 {
		s.feed.MarkRead(s.session.User.ID, ids...)
	}
}

// UpdateUserSettings merges update into the session settings. Without a
// session it does nothing.
func (s *AuthService) UpdateUserSettings(update SettingsUpdate) error {
	if update.Theme != nil {
		switch *update.Theme {
		case domain.ThemeLight, domain.ThemeDark, domain.ThemeSystem:
		default:
			return apperrors.NewValidationError("invalid theme", map[string]any{"theme": *update.Theme})
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil || s.settings == nil {
		return nil
	}
	settings := *s.settings
	if update.Theme != nil {
		settings.Theme = *update.Theme
	}
	if update.EmailNotifications != nil {
		settings.EmailNotifications = *update.EmailNotifications
	}
	if update.DesktopNotifications != nil {
		settings.DesktopNotifications = *update.DesktopNotifications
	}
	if update.Language != nil {
		settings.Language = *update.Language
	}
	s.settings = &settings
	s.storedSettings[settings.UserID] = settings
	return nil
}

// HasPermission checks the session role against the permission table.
func (s *AuthService) HasPermission(permission string) bool {
	user, ok := s.CurrentUser()
	if !ok {
		return false
	}
	return s.permissions.Allowed(user.Role, permission)
}

// Deliver adds a live notification to the session feed when it belongs to
// the session user.
func (s *AuthService) Deliver(n domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil || s.session.User.ID != n.UserID {
		return
	}
	s.notifications = append([]domain.Notification{n}, s.notifications...)
}

func unreadCount(notifications []domain.Notification) int {
	return lo.CountBy(notifications, func(n domain.Notification) bool { return !n.IsRead })
}
