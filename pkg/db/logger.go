package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

const defaultSlowThreshold = 200 * time.Millisecond

// queryLogger adapts zap to gorm's logger.Interface. Not-found results are
// routine during ledger reconciliation (every FindByKey miss means "create"),
// so they are never logged as errors. Query text is withheld unless logSQL is
// set, including on failures.
type queryLogger struct {
	log           *zap.Logger
	level         logger.LogLevel
	logSQL        bool
	slowThreshold time.Duration
}

func newQueryLogger(log *zap.Logger, level logger.LogLevel, logSQL bool, slowThreshold time.Duration) *queryLogger {
	if slowThreshold <= 0 {
		slowThreshold = defaultSlowThreshold
	}
	return &queryLogger{
		log:           log.Named("db"),
		level:         level,
		logSQL:        logSQL,
		slowThreshold: slowThreshold,
	}
}

func (l *queryLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *queryLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Info {
		l.log.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *queryLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Warn {
		l.log.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *queryLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= logger.Error {
		l.log.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && !errors.Is(err, logger.ErrRecordNotFound) && l.level >= logger.Error:
		sql, rows := fc()
		l.log.Error("query failed", l.fields(sql, rows, elapsed, zap.Error(err))...)

	case elapsed > l.slowThreshold && l.level >= logger.Warn:
		sql, rows := fc()
		l.log.Warn("slow query", l.fields(sql, rows, elapsed, zap.Duration("threshold", l.slowThreshold))...)

	case l.level >= logger.Info && l.logSQL:
		sql, rows := fc()
		l.log.Info("query", l.fields(sql, rows, elapsed)...)
	}
}

func (l *queryLogger) fields(sql string, rows int64, elapsed time.Duration, extra ...zap.Field) []zap.Field {
	fields := []zap.Field{
		zap.String("caller", utils.FileWithLineNum()),
		zap.Duration("took", elapsed),
	}
	if rows >= 0 {
		fields = append(fields, zap.Int64("rows", rows))
	}
	if l.logSQL {
		fields = append(fields, zap.String("query", sql))
	}
	return append(fields, extra...)
}
