package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/office-helpdesk/internal/domain"
	apperrors "github.com/spec-kit/office-helpdesk/pkg/util"
)

func TestLoginOpensSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	session, err := f.svc.Login(ctx, "admin@office.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "user2", session.User.ID)
	assert.Equal(t, domain.UserRoleAdmin, session.User.Role)
	assert.NotEmpty(t, session.Token)
	assert.True(t, f.svc.IsAuthenticated())

	stored, ok := f.sessions.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, "user2", stored.ID)

	settings, ok := f.svc.UserSettings()
	require.True(t, ok)
	assert.Equal(t, domain.ThemeDark, settings.Theme)
}

func TestLoginWithWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, "user@office.com", "wrong")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidCredentials))
	assert.Equal(t, "Invalid credentials", f.svc.LastError())
	assert.False(t, f.svc.IsAuthenticated())
	_, ok := f.sessions.Load(ctx)
	assert.False(t, ok)

	_, err = f.svc.Login(ctx, "robert@office.com", "user123")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidCredentials))
}

func TestFailedLoginKeepsExistingSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.svc.Login(ctx, "user@office.com", "user123")
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "admin@office.com", "nope")
	require.Error(t, err)
	user, ok := f.svc.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "user1", user.ID)
}

func TestLogoutClearsSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.svc.Login(ctx, "user@office.com", "user123")
	require.NoError(t, err)

	f.svc.Logout(ctx)
	assert.False(t, f.svc.IsAuthenticated())
	assert.Empty(t, f.svc.Notifications())
	_, ok := f.svc.UserSettings()
	assert.False(t, ok)
	_, ok = f.sessions.Load(ctx)
	assert.False(t, ok)

	f.svc.Logout(ctx)
	assert.False(t, f.svc.IsAuthenticated())
}

func TestCheckAuthRestoresPersistedSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	ok, err := f.svc.CheckAuth(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	user, _ := f.users.GetUserByID("user1")
	require.NoError(t, f.sessions.Save(ctx, user))

	ok, err = f.svc.CheckAuth(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	current, _ := f.svc.CurrentUser()
	assert.Equal(t, "user1", current.ID)
	assert.Len(t, f.svc.Notifications(), 4)
}

func TestNotificationsNewestFirstAndReadState(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.svc.Login(ctx, "user@office.com", "user123")
	require.NoError(t, err)

	notifications := f.svc.Notifications()
	require.Len(t, notifications, 4)
	assert.Equal(t, []string{"notif1", "notif2", "notif3", "notif4"}, []string{
		notifications[0].ID, notifications[1].ID, notifications[2].ID, notifications[3].ID,
	})
	assert.Equal(t, 3, f.svc.UnreadNotificationsCount())

	f.svc.MarkNotificationAsRead("notif3")
	f.svc.MarkNotificationAsRead("unknown")
	assert.Equal(t, 2, f.svc.UnreadNotificationsCount())

	f.svc.MarkAllNotificationsAsRead()
	assert.Equal(t, 0, f.svc.UnreadNotificationsCount())

	// read state survives a fresh login
	f.svc.Logout(ctx)
	_, err = f.svc.Login(ctx, "user@office.com", "user123")
	require.NoError(t, err)
	assert.Equal(t, 0, f.svc.UnreadNotificationsCount())
}

func TestMarkReadWithoutSessionIsNoop(t *testing.T) {
	f := newAuthFixture(t)
	f.svc.MarkAllNotificationsAsRead()
	f.svc.MarkNotificationAsRead("notif1")
	assert.Equal(t, 0, f.svc.UnreadNotificationsCount())

	unread := 0
	for _, n := range f.feed.ForUser("user1") {
		if !n.IsRead {
			unread++
		}
	}
	assert.Equal(t, 3, unread)
}

func TestUserSettings(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.UpdateUserSettings(SettingsUpdate{Language: ptr("fr")}))
	_, ok := f.svc.UserSettings()
	assert.False(t, ok)

	_, err := f.svc.Login(ctx, "user@office.com", "user123")
	require.NoError(t, err)
	settings, _ := f.svc.UserSettings()
	assert.Equal(t, domain.UserSettings{UserID: "user1", Theme: domain.ThemeLight, EmailNotifications: true, DesktopNotifications: true, Language: "en"}, settings)

	require.NoError(t, f.svc.UpdateUserSettings(SettingsUpdate{Theme: ptr(domain.ThemeDark), EmailNotifications: ptr(false)}))
	settings, _ = f.svc.UserSettings()
	assert.Equal(t, domain.ThemeDark, settings.Theme)
	assert.False(t, settings.EmailNotifications)
	assert.True(t, settings.DesktopNotifications)
	assert.Equal(t, "en", settings.Language)

	err = f.svc.UpdateUserSettings(SettingsUpdate{Theme: ptr(domain.Theme("neon"))})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))

	f.svc.Logout(ctx)
	_, err = f.svc.Login(ctx, "user@office.com", "user123")
	require.NoError(t, err)
	settings, _ = f.svc.UserSettings()
	assert.Equal(t, domain.ThemeDark, settings.Theme)
}

func TestSettingsDefaultForUserWithoutRow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user, _ := f.users.GetUserByID("user5")
	require.NoError(t, f.sessions.Save(ctx, user))
	ok, err := f.svc.CheckAuth(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	settings, _ := f.svc.UserSettings()
	assert.Equal(t, domain.DefaultUserSettings("user5"), settings)
	assert.Empty(t, f.svc.Notifications())
}

func TestHasPermission(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	assert.False(t, f.svc.HasPermission(domain.PermViewDashboard))

	_, err := f.svc.Login(ctx, "user@office.com", "user123")
	require.NoError(t, err)
	assert.True(t, f.svc.HasPermission(domain.PermCreateTicket))
	assert.False(t, f.svc.HasPermission(domain.PermManageUsers))

	_, err = f.svc.Login(ctx, "admin@office.com", "admin123")
	require.NoError(t, err)
	assert.True(t, f.svc.HasPermission(domain.PermManageUsers))
}

func TestDeliverOnlyToSessionUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.svc.Login(ctx, "user@office.com", "user123")
	require.NoError(t, err)

	f.svc.Deliver(domain.Notification{ID: "live", UserID: "user1", Type: domain.NotificationTicketAssigned, CreatedAt: testNow})
	f.svc.Deliver(domain.Notification{ID: "other", UserID: "user2", CreatedAt: testNow})

	notifications := f.svc.Notifications()
	require.Len(t, notifications, 5)
	assert.Equal(t, "live", notifications[0].ID)
	assert.Equal(t, 4, f.svc.UnreadNotificationsCount())
}
