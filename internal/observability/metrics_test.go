package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/office-helpdesk/internal/config"
	apperrors "github.com/spec-kit/office-helpdesk/pkg/util"
)

func TestRecordOperation(t *testing.T) {
	m := NewMetrics()

	m.RecordOperation("upvote_ticket", nil, 10*time.Millisecond)
	m.RecordOperation("upvote_ticket", nil, 10*time.Millisecond)
	m.RecordOperation("upvote_ticket", apperrors.NewNotFound("ticket", nil), time.Millisecond)
	m.RecordOperation("create_ticket", errors.New("boom"), time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("upvote_ticket", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("upvote_ticket", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.opErrors.WithLabelValues("upvote_ticket", apperrors.CodeNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.opErrors.WithLabelValues("create_ticket", apperrors.CodeInternal)))
}

func TestRecordRequestAndError(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/tickets/:id", "GET", 200, time.Millisecond)
	m.RecordError("/tickets/:id", "GET", apperrors.CodeNotFound)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCount.WithLabelValues("/tickets/:id", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorCount.WithLabelValues("/tickets/:id", "GET", apperrors.CodeNotFound)))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordOperation("fetch_tickets", nil, 0)
		m.RecordRequest("/", "GET", 200, 0)
		m.RecordError("/", "GET", "X")
	})
	assert.Nil(t, m.Registry())
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "chatty"})
	assert.NoError(t, err)
	assert.NotNil(t, logger)
	assert.False(t, logger.Core().Enabled(-1))
}

func TestNewLoggerWritesRotatingFile(t *testing.T) {
	path := t.TempDir() + "/helpdesk.log"
	logger, err := NewLogger(config.LoggerConfig{Level: "debug", FilePath: path, MaxSizeMB: 1})
	assert.NoError(t, err)
	logger.Info("hello")
	_ = logger.Sync()
	assert.FileExists(t, path)
}
