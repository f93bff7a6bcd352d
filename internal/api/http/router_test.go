package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/office-helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/office-helpdesk/internal/auth"
	"github.com/spec-kit/office-helpdesk/internal/clock"
	"github.com/spec-kit/office-helpdesk/internal/config"
	"github.com/spec-kit/office-helpdesk/internal/events"
	"github.com/spec-kit/office-helpdesk/internal/observability"
	"github.com/spec-kit/office-helpdesk/internal/persistence"
	"github.com/spec-kit/office-helpdesk/internal/repository"
	"github.com/spec-kit/office-helpdesk/internal/service"
)

type testServer struct {
	app *fiber.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	clk := clock.NewFake(time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC))
	storeCfg := config.StoreConfig{EscalationThreshold: service.DefaultEscalationThreshold}
	store := persistence.NewMemoryStore()
	dispatcher := events.NewInMemoryDispatcher(logger)

	users := service.NewUserService(service.UserDependencies{Clock: clk, Config: storeCfg})
	tickets := service.NewTicketService(service.TicketDependencies{
		Repo:       repository.NewTicketSnapshotRepository(store, "oms_tickets", logger),
		Users:      users,
		Dispatcher: dispatcher,
		Clock:      clk,
		Metrics:    metrics,
		Config:     storeCfg,
	})
	require.NoError(t, tickets.FetchTickets(context.Background()))
	require.NoError(t, tickets.FetchCategories(context.Background()))

	perms, err := service.NewPermissionTable()
	require.NoError(t, err)
	creds, err := auth.NewCredentialTable(auth.DemoCredentials, bcrypt.MinCost)
	require.NoError(t, err)
	tokens := auth.NewTokenManager("test-secret", 5)
	authService := service.NewAuthService(service.AuthDependencies{
		Users:       users,
		Feed:        service.NewNotificationFeed(clk),
		Permissions: perms,
		Sessions:    repository.NewSessionRepository(store, "user", logger),
		Credentials: creds,
		Tokens:      tokens,
		Config:      storeCfg,
	})
	stats := service.NewStatsService(tickets, users)
	stats.RegisterHandlers(dispatcher)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("office-helpdesk", "test", store),
		Auth:           handlers.NewAuthHandler(authService, perms),
		Tickets:        handlers.NewTicketsHandler(tickets, authService),
		Categories:     handlers.NewCategoriesHandler(tickets),
		Users:          handlers.NewUsersHandler(users),
		Stats:          handlers.NewStatsHandler(stats),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, authService),
		Sessions:       authService,
		Metrics:        metrics,
	})
	return &testServer{app: app}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	status, body := s.do(t, fiber.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, fiber.StatusOK, status, body)
	return body["data"].(map[string]any)["auth"].(map[string]any)["token"].(string)
}

func errorCode(body map[string]any) string {
	errBody, _ := body["error"].(map[string]any)
	code, _ := errBody["code"].(string)
	return code
}

func data(body map[string]any) map[string]any {
	out, _ := body["data"].(map[string]any)
	return out
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, fiber.MethodGet, "/health/live", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "alive", body["status"])

	status, body = s.do(t, fiber.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ready", body["status"])

	status, _ = s.do(t, fiber.MethodGet, "/metrics", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestLoginAndSession(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, fiber.MethodPost, "/auth/login", "", map[string]string{"email": "user@office.com", "password": "bad"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(body))

	status, body = s.do(t, fiber.MethodPost, "/auth/login", "", `{"email":`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, body = s.do(t, fiber.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	token := s.login(t, "user@office.com", "user123")
	status, body = s.do(t, fiber.MethodGet, "/auth/me", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	me := data(body)
	assert.Equal(t, "user1", me["user"].(map[string]any)["id"])
	assert.Equal(t, 3.0, me["unreadNotifications"])
	assert.ElementsMatch(t, []any{"view_dashboard", "create_ticket", "edit_own_ticket"}, me["permissions"])

	// a new login replaces the session
	adminToken := s.login(t, "admin@office.com", "admin123")
	status, _ = s.do(t, fiber.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = s.do(t, fiber.MethodPost, "/auth/logout", adminToken, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = s.do(t, fiber.MethodGet, "/auth/me", adminToken, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestNotificationsAndSettings(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "user@office.com", "user123")

	status, body := s.do(t, fiber.MethodGet, "/notifications", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, data(body)["items"], 4)
	assert.Equal(t, 3.0, data(body)["unread"])

	status, body = s.do(t, fiber.MethodPost, "/notifications/notif1/read", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 2.0, data(body)["unread"])

	status, body = s.do(t, fiber.MethodPost, "/notifications/read-all", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 0.0, data(body)["unread"])

	status, body = s.do(t, fiber.MethodPut, "/settings", token, map[string]any{"theme": "dark"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "dark", data(body)["theme"])
	assert.Equal(t, "en", data(body)["language"])

	status, body = s.do(t, fiber.MethodPut, "/settings", token, map[string]any{"theme": "neon"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestTicketLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "user@office.com", "user123")

	status, body := s.do(t, fiber.MethodGet, "/tickets?status=open&priority=high", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 2.0, data(body)["total"])

	status, body = s.do(t, fiber.MethodPost, "/tickets", token, map[string]any{
		"title": "Keyboard missing keys", "description": "The E key fell off.", "categoryId": "cat1", "tags": []string{"hardware"},
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	created := data(body)
	id := created["id"].(string)
	assert.Equal(t, "open", created["status"])
	assert.Equal(t, "medium", created["priority"])
	assert.Equal(t, "low", created["severity"])
	assert.Equal(t, "user1", created["reporter"].(map[string]any)["id"])

	status, body = s.do(t, fiber.MethodPost, "/tickets/"+id+"/upvote", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1.0, data(body)["upvotes"])
	status, body = s.do(t, fiber.MethodPost, "/tickets/"+id+"/upvote", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 0.0, data(body)["upvotes"])

	status, body = s.do(t, fiber.MethodPut, "/tickets/"+id+"/status", token, map[string]string{"status": "resolved"})
	require.Equal(t, fiber.StatusOK, status)
	assert.NotNil(t, data(body)["resolvedAt"])

	status, body = s.do(t, fiber.MethodPost, "/tickets/"+id+"/comments", token, map[string]any{"content": "<script>x</script>Fixed it"})
	require.Equal(t, fiber.StatusCreated, status)
	comments := data(body)["comments"].([]any)
	require.Len(t, comments, 1)
	assert.Equal(t, "Fixed it", comments[0].(map[string]any)["content"])

	status, body = s.do(t, fiber.MethodPost, "/tickets/"+id+"/watchers", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []any{"user1"}, data(body)["watchers"])

	status, body = s.do(t, fiber.MethodDelete, "/tickets/"+id+"/attachments/nope", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestTicketPermissions(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "user@office.com", "user123")

	status, body := s.do(t, fiber.MethodDelete, "/tickets/ticket1", token, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	status, _ = s.do(t, fiber.MethodPut, "/tickets/ticket2/priority", token, map[string]string{"priority": "urgent"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = s.do(t, fiber.MethodPut, "/tickets/ticket1/priority", token, map[string]string{"priority": "urgent"})
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = s.do(t, fiber.MethodPut, "/tickets/ticket1/assignee", token, map[string]string{"userId": "user5"})
	assert.Equal(t, fiber.StatusForbidden, status)

	// reassigning through the general update needs assign_ticket too
	status, body = s.do(t, fiber.MethodPut, "/tickets/ticket1", token, map[string]any{"assigneeId": "user5"})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))
	status, body = s.do(t, fiber.MethodGet, "/tickets/ticket1", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assignee, _ := data(body)["assignee"].(map[string]any)
	assert.NotEqual(t, "user5", assignee["id"])

	status, body = s.do(t, fiber.MethodPut, "/tickets/ticket1", token, map[string]any{"title": "PC will not boot"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "PC will not boot", data(body)["title"])

	adminToken := s.login(t, "admin@office.com", "admin123")
	status, body = s.do(t, fiber.MethodPost, "/tickets", adminToken, map[string]any{
		"title": "Salary review", "description": "Confidential", "categoryId": "cat5", "isPrivate": true,
	})
	require.Equal(t, fiber.StatusCreated, status)
	privateID := data(body)["id"].(string)

	status, _ = s.do(t, fiber.MethodDelete, "/tickets/ticket1", adminToken, nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = s.do(t, fiber.MethodDelete, "/tickets/ticket1", adminToken, nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	token = s.login(t, "user@office.com", "user123")
	status, body = s.do(t, fiber.MethodGet, "/tickets", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 9.0, data(body)["total"])

	status, body = s.do(t, fiber.MethodGet, "/tickets/"+privateID, token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))

	status, body = s.do(t, fiber.MethodPost, "/tickets/"+privateID+"/upvote", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Nil(t, data(body))
	status, body = s.do(t, fiber.MethodPost, "/tickets/"+privateID+"/watchers", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Nil(t, data(body))
	status, _ = s.do(t, fiber.MethodDelete, "/tickets/"+privateID+"/watchers", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	adminToken = s.login(t, "admin@office.com", "admin123")
	status, body = s.do(t, fiber.MethodGet, "/tickets/"+privateID, adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 0.0, data(body)["upvotes"])
	assert.Empty(t, data(body)["watchers"])
}

func TestCategoriesUsersAndStats(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "user@office.com", "user123")

	status, body := s.do(t, fiber.MethodGet, "/categories", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 7)

	status, _ = s.do(t, fiber.MethodPost, "/categories", token, map[string]string{"name": "Printing"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = s.do(t, fiber.MethodGet, "/users?role=manager", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 2)

	status, body = s.do(t, fiber.MethodGet, "/stats/dashboard", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 10.0, data(body)["totalTickets"])

	adminToken := s.login(t, "admin@office.com", "admin123")
	status, body = s.do(t, fiber.MethodPost, "/categories", adminToken, map[string]string{"name": "Printing"})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, 0.0, data(body)["itemCount"])

	status, body = s.do(t, fiber.MethodPost, "/users", adminToken, map[string]string{"name": "Ann", "email": "user@office.com"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errorCode(body))

	status, body = s.do(t, fiber.MethodPost, "/users/user6/toggle-status", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, data(body)["isActive"])

	status, body = s.do(t, fiber.MethodGet, "/users/ghost", adminToken, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}
