package repository

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/office-helpdesk/internal/domain"
	"github.com/spec-kit/office-helpdesk/internal/persistence"
	apperrors "github.com/spec-kit/office-helpdesk/pkg/util"
)

// SessionRepository persists the signed-in user across restarts.
type SessionRepository interface {
	Load(ctx context.Context) (*domain.User, bool)
	Save(ctx context.Context, user domain.User) error
	Clear(ctx context.Context) error
}

type sessionRepository struct {
	store  persistence.KeyValueStore
	key    string
	logger *zap.Logger
}

// NewSessionRepository constructs repository.
func NewSessionRepository(store persistence.KeyValueStore, key string, logger *zap.Logger) SessionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &sessionRepository{store: store, key: key, logger: logger}
}

func (r *sessionRepository) Load(ctx context.Context) (*domain.User, bool) {
	raw, err := r.store.Get(ctx, r.key)
	if err != nil {
		if !errors.Is(err, persistence.ErrKeyNotFound) {
			r.logger.Warn("session unreadable", zap.String("key", r.key), zap.Error(err))
		}
		return nil, false
	}

	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == "" {
		r.logger.Warn("session malformed", zap.String("key", r.key), zap.Error(err))
		return nil, false
	}
	return &user, true
}

func (r *sessionRepository) Save(ctx context.Context, user domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return apperrors.NewStorageError("encode session", err)
	}
	if err := r.store.Set(ctx, r.key, string(raw)); err != nil {
		return apperrors.NewStorageError("save session", err)
	}
	return nil
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, r.key); err != nil {
		return apperrors.NewStorageError("clear session", err)
	}
	return nil
}
