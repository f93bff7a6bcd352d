package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/office-helpdesk/internal/config"
	"github.com/spec-kit/office-helpdesk/internal/observability"
	apperrors "github.com/spec-kit/office-helpdesk/pkg/util"
)

// operation names a store call for metrics and the failure message shown in LastError.
type operation struct {
	name    string
	failure string
}

// opRunner carries the loading and error state shared by every call of one store.
type opRunner struct {
	latency *latencySimulator
	metrics *observability.Metrics
	logger  *zap.Logger

	inFlight atomic.Int32

	errMu   sync.RWMutex
	lastErr string
}

func newOpRunner(cfg config.StoreConfig, metrics *observability.Metrics, logger *zap.Logger) *opRunner {
	minDelay, maxDelay := cfg.LatencyRange()
	return &opRunner{
		latency: newLatencySimulator(minDelay, maxDelay),
		metrics: metrics,
		logger:  logger,
	}
}

// run clears the last error, waits out the simulated latency and executes fn.
// A failure is recorded in LastError and returned to the caller.
func (r *opRunner) run(ctx context.Context, op operation, fn func() error) error {
	start := time.Now()
	r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	r.setError("")

	err := r.latency.Wait(ctx)
	if err == nil {
		err = fn()
	}
	if err != nil {
		r.setError(op.failure)
		if domainErr := apperrors.ToDomainError(err); domainErr.Code == apperrors.CodeInternal {
			r.logger.Error(op.failure, zap.String("operation", op.name), zap.Error(err))
		} else {
			r.logger.Debug(op.failure, zap.String("operation", op.name), zap.Error(err))
		}
	}
	r.metrics.RecordOperation(op.name, err, time.Since(start))
	return err
}

func (r *opRunner) setError(msg string) {
	r.errMu.Lock()
	r.lastErr = msg
	r.errMu.Unlock()
}

// IsLoading reports whether any call is in flight.
func (r *opRunner) IsLoading() bool {
	return r.inFlight.Load() > 0
}

// LastError returns the failure message of the most recent failed call, or "".
func (r *opRunner) LastError() string {
	r.errMu.RLock()
	defer r.errMu.RUnlock()
	return r.lastErr
}
