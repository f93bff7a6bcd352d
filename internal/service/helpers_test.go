package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/office-helpdesk/internal/auth"
	"github.com/spec-kit/office-helpdesk/internal/clock"
	"github.com/spec-kit/office-helpdesk/internal/config"
	"github.com/spec-kit/office-helpdesk/internal/domain"
	"github.com/spec-kit/office-helpdesk/internal/events"
	"github.com/spec-kit/office-helpdesk/internal/persistence"
	"github.com/spec-kit/office-helpdesk/internal/repository"
)

var testNow = time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC)

// noLatency keeps store calls instantaneous.
var noLatency = config.StoreConfig{EscalationThreshold: DefaultEscalationThreshold}

type ticketFixture struct {
	svc        *TicketService
	users      *UserService
	clock      *clock.Fake
	store      *persistence.MemoryStore
	repo       repository.TicketSnapshotRepository
	dispatcher events.Dispatcher
	recorder   *eventRecorder
}

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) record(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *eventRecorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newTicketFixture(t *testing.T, cfg config.StoreConfig) *ticketFixture {
	t.Helper()
	clk := clock.NewFake(testNow)
	store := persistence.NewMemoryStore()
	repo := repository.NewTicketSnapshotRepository(store, "oms_tickets", zap.NewNop())
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	recorder := &eventRecorder{}
	events.SubscribeAll(dispatcher, recorder.record)
	users := NewUserService(UserDependencies{Clock: clk, Config: noLatency})

	svc := NewTicketService(TicketDependencies{
		Repo:       repo,
		Users:      users,
		Dispatcher: dispatcher,
		Clock:      clk,
		Config:     cfg,
	})
	return &ticketFixture{svc: svc, users: users, clock: clk, store: store, repo: repo, dispatcher: dispatcher, recorder: recorder}
}

// loaded returns a fixture with seeded tickets and categories fetched.
func loaded(t *testing.T) *ticketFixture {
	t.Helper()
	f := newTicketFixture(t, noLatency)
	require.NoError(t, f.svc.FetchTickets(context.Background()))
	require.NoError(t, f.svc.FetchCategories(context.Background()))
	return f
}

type failingSnapshots struct {
	saves int
}

func (f *failingSnapshots) Load(context.Context) ([]domain.Ticket, bool) { return nil, false }

func (f *failingSnapshots) Save(context.Context, []domain.Ticket) error {
	f.saves++
	return errors.New("quota exceeded")
}

type authFixture struct {
	svc      *AuthService
	users    *UserService
	feed     *NotificationFeed
	sessions repository.SessionRepository
	store    *persistence.MemoryStore
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	clk := clock.NewFake(testNow)
	store := persistence.NewMemoryStore()
	sessions := repository.NewSessionRepository(store, "user", zap.NewNop())
	users := NewUserService(UserDependencies{Clock: clk, Config: noLatency})
	feed := NewNotificationFeed(clk)
	perms, err := NewPermissionTable()
	require.NoError(t, err)
	creds, err := auth.NewCredentialTable(auth.DemoCredentials, bcrypt.MinCost)
	require.NoError(t, err)

	svc := NewAuthService(AuthDependencies{
		Users:       users,
		Feed:        feed,
		Permissions: perms,
		Sessions:    sessions,
		Credentials: creds,
		Tokens:      auth.NewTokenManager("test-secret", 5),
		Config:      noLatency,
	})
	return &authFixture{svc: svc, users: users, feed: feed, sessions: sessions, store: store}
}

func ptr[T any](v T) *T {
	return &v
}
