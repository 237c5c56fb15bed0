package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm/logger"
)

func newObservedLogger(level logger.LogLevel, logSQL bool, slow time.Duration) (*queryLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return newQueryLogger(zap.New(core), level, logSQL, slow), logs
}

func traceQuery(l *queryLogger, began time.Time, err error) {
	l.Trace(context.Background(), began, func() (string, int64) {
		return "SELECT * FROM ledger_entries WHERE entry_checksum = ?", 1
	}, err)
}

func TestQueryLoggerSilencesNotFound(t *testing.T) {
	l, logs := newObservedLogger(logger.Warn, false, time.Second)

	traceQuery(l, time.Now(), logger.ErrRecordNotFound)

	assert.Zero(t, logs.Len())
}

func TestQueryLoggerReportsFailures(t *testing.T) {
	l, logs := newObservedLogger(logger.Warn, false, time.Second)

	traceQuery(l, time.Now(), errors.New("connection reset"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "query failed", entry.Message)
	// Query text stays out of production logs even on failure.
	assert.NotContains(t, entry.ContextMap(), "query")
}

func TestQueryLoggerFlagsSlowQueries(t *testing.T) {
	l, logs := newObservedLogger(logger.Warn, true, 10*time.Millisecond)

	traceQuery(l, time.Now().Add(-time.Second), nil)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "slow query", entry.Message)
	assert.Contains(t, entry.ContextMap(), "query")
	assert.Contains(t, entry.ContextMap(), "threshold")
}

func TestQueryLoggerLogsRoutineQueriesOnlyWhenAsked(t *testing.T) {
	quiet, quietLogs := newObservedLogger(logger.Info, false, time.Second)
	traceQuery(quiet, time.Now(), nil)
	assert.Zero(t, quietLogs.Len())

	verbose, verboseLogs := newObservedLogger(logger.Info, true, time.Second)
	traceQuery(verbose, time.Now(), nil)
	require.Equal(t, 1, verboseLogs.Len())
	assert.Equal(t, "query", verboseLogs.All()[0].Message)
}

func TestQueryLoggerDefaultsSlowThreshold(t *testing.T) {
	l := newQueryLogger(zap.NewNop(), logger.Warn, false, 0)

	assert.Equal(t, defaultSlowThreshold, l.slowThreshold)
}
