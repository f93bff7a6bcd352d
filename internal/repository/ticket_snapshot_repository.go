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

// TicketSnapshotRepository persists the whole ticket collection as one blob.
type TicketSnapshotRepository interface {
	// Load returns false when nothing usable is stored.
	Load(ctx context.Context) ([]domain.Ticket, bool)
	Save(ctx context.Context, tickets []domain.Ticket) error
}

type ticketSnapshotRepository struct {
	store  persistence.KeyValueStore
	key    string
	logger *zap.Logger
}

// NewTicketSnapshotRepository constructs repository.
func NewTicketSnapshotRepository(store persistence.KeyValueStore, key string, logger *zap.Logger) TicketSnapshotRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ticketSnapshotRepository{store: store, key: key, logger: logger}
}

func (r *ticketSnapshotRepository) Load(ctx context.Context) ([]domain.Ticket, bool) {
	raw, err := r.store.Get(ctx, r.key)
	if err != nil {
		if !errors.Is(err, persistence.ErrKeyNotFound) {
			r.logger.Warn("ticket snapshot unreadable", zap.String("key", r.key), zap.Error(err))
		}
		return nil, false
	}

	var tickets []domain.Ticket
	if err := json.Unmarshal([]byte(raw), &tickets); err != nil {
		r.logger.Warn("ticket snapshot malformed", zap.String("key", r.key), zap.Error(err))
		return nil, false
	}
	if tickets == nil {
		return nil, false
	}
	return tickets, true
}

func (r *ticketSnapshotRepository) Save(ctx context.Context, tickets []domain.Ticket) error {
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	raw, err := json.Marshal(tickets)
	if err != nil {
		return apperrors.NewStorageError("encode tickets", err)
	}
	if err := r.store.Set(ctx, r.key, string(raw)); err != nil {
		return apperrors.NewStorageError("save tickets", err)
	}
	return nil
}
