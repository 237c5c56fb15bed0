// Package db provides the gorm database connection module.
package db

import (
	"context"
	"strings"
	"time"

	"github.com/clipfuellabs/clipfuel/internal/config"
	"github.com/clipfuellabs/clipfuel/internal/observability"
	"github.com/glebarez/sqlite"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var Module = fx.Module("database",
	fx.Provide(New),
	fx.Invoke(RegisterLifecycle),
)

func New(cfg config.Config, log *zap.Logger, tracing *observability.Tracing) (*gorm.DB, error) {
	logLevel := logger.Info
	logSQL := true
	if cfg.AppEnv == "production" {
		logLevel = logger.Warn
		logSQL = false
	}

	gormLogger := newQueryLogger(log, logLevel, logSQL, cfg.SlowQueryThreshold)

	var db *gorm.DB
	var err error
	for i := 0; i < 5; i++ {
		db, err = gorm.Open(dialectorFor(cfg.DatabaseDSN), &gorm.Config{Logger: gormLogger})
		if err == nil {
			break
		}
		log.Warn("database not ready, retrying in 3 seconds", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(3 * time.Second)
	}
	if err != nil {
		return nil, err
	}

	// Query spans only make sense once the tracer provider exports somewhere.
	if tracing.Enabled() {
		if err := db.Use(otelgorm.NewPlugin()); err != nil {
			log.Warn("failed to register db telemetry plugin", zap.Error(err))
		}
	}

	return db, nil
}

func dialectorFor(dsn string) gorm.Dialector {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return postgres.Open(dsn)
	}
	return sqlite.Open(dsn)
}

// NewTest opens an in-memory sqlite database for service and repository tests.
func NewTest() (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
}

type lifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	DB        *gorm.DB
	Log       *zap.Logger
}

func RegisterLifecycle(p lifecycleParams) error {
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(time.Hour)

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			p.Log.Info("closing database connection pool")
			return sqlDB.Close()
		},
	})
	return nil
}
