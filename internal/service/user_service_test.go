package service

import (
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/office-helpdesk/internal/clock"
	"github.com/spec-kit/office-helpdesk/internal/domain"
	apperrors "github.com/spec-kit/office-helpdesk/pkg/util"
)

func newTestUserService() (*UserService, *clock.Fake) {
	clk := clock.NewFake(testNow)
	return NewUserService(UserDependencies{Clock: clk, Config: noLatency}), clk
}

func TestUserLookups(t *testing.T) {
	svc, _ := newTestUserService()

	assert.Len(t, svc.Users(), 8)
	user, ok := svc.GetUserByID("user2")
	require.True(t, ok)
	assert.Equal(t, domain.UserRoleAdmin, user.Role)

	user, ok = svc.GetUserByEmail("  USER@office.com ")
	require.True(t, ok)
	assert.Equal(t, "user1", user.ID)

	_, ok = svc.GetUserByID("ghost")
	assert.False(t, ok)
}

func TestUserQueries(t *testing.T) {
	svc, _ := newTestUserService()

	assert.Equal(t, []string{"user4"}, userIDs(svc.SearchUsers("hr")))
	assert.Equal(t, []string{"user5", "user7"}, userIDs(svc.SearchUsers("MANAGER")))
	assert.Len(t, svc.SearchUsers(""), 8)
	assert.Equal(t, []string{"user2"}, userIDs(svc.UsersByDepartment("IT")))
	assert.Len(t, svc.UsersByDepartment(""), 8)
	assert.Equal(t, []string{"user5", "user7"}, userIDs(svc.UsersByRole(domain.UserRoleManager)))
}

func TestCreateUser(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, UserInput{Name: "Ann Lee", Email: "ann@office.com", Department: "IT"})
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleUser, created.Role)
	assert.True(t, created.IsActive)
	assert.True(t, created.CreatedAt.Equal(testNow))
	assert.Len(t, svc.Users(), 9)

	_, err = svc.CreateUser(ctx, UserInput{Name: "Dup", Email: "ANN@office.com"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	assert.Equal(t, "Failed to create user", svc.LastError())

	_, err = svc.CreateUser(ctx, UserInput{Name: "No Mail"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))

	_, err = svc.CreateUser(ctx, UserInput{Name: "Bad", Email: "bad@office.com", Role: "owner"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
}

func TestUpdateUser(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	updated, err := svc.UpdateUser(ctx, "user3", UserUpdate{Position: ptr("Senior Analyst"), Role: ptr(domain.UserRoleManager)})
	require.NoError(t, err)
	assert.Equal(t, "Senior Analyst", updated.Position)
	assert.Equal(t, domain.UserRoleManager, updated.Role)
	assert.Equal(t, "Robert Johnson", updated.Name)

	_, err = svc.UpdateUser(ctx, "user3", UserUpdate{Email: ptr("admin@office.com")})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	_, err = svc.UpdateUser(ctx, "ghost", UserUpdate{Name: ptr("x")})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	_, err = svc.UpdateUser(ctx, "user3", UserUpdate{Name: ptr(" ")})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))

	user, _ := svc.GetUserByID("user3")
	assert.Equal(t, "robert@office.com", user.Email)
}

func TestDeleteAndToggleUser(t *testing.T) {
	svc, clk := newTestUserService()
	ctx := context.Background()

	require.NoError(t, svc.DeleteUser(ctx, "user8"))
	require.NoError(t, svc.DeleteUser(ctx, "user8"))
	assert.Len(t, svc.Users(), 7)

	clk.Advance(time.Hour)
	toggled, err := svc.ToggleUserStatus(ctx, "user6")
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)
	require.NotNil(t, toggled.LastActive)
	assert.True(t, toggled.LastActive.Equal(testNow.Add(time.Hour)))

	toggled, err = svc.ToggleUserStatus(ctx, "user6")
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	_, err = svc.ToggleUserStatus(ctx, "ghost")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	require.NoError(t, svc.FetchUsers(ctx))
	assert.Len(t, svc.Users(), 8)
}

func userIDs(users []domain.User) []string {
	return lo.Map(users, func(u domain.User, _ int) string { return u.ID })
}
