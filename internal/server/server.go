// Package server exposes the accrual engine's HTTP surface: the run trigger,
// a read-only ledger listing, and operational endpoints.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	accrualdomain "github.com/clipfuellabs/clipfuel/internal/accrual/domain"
	"github.com/clipfuellabs/clipfuel/internal/config"
	ledgerdomain "github.com/clipfuellabs/clipfuel/internal/ledger/domain"
)

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(Run),
)

type Server struct {
	engine *gin.Engine
	log    *zap.Logger
	cfg    config.Config

	db         *gorm.DB
	accrualSvc accrualdomain.Service
	ledgerRepo ledgerdomain.Repository
}

type Params struct {
	fx.In

	Cfg        config.Config
	Log        *zap.Logger
	DB         *gorm.DB
	AccrualSvc accrualdomain.Service
	LedgerRepo ledgerdomain.Repository
}

func NewServer(p Params) *Server {
	if p.Cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine:     gin.New(),
		log:        p.Log.Named("server"),
		cfg:        p.Cfg,
		db:         p.DB,
		accrualSvc: p.AccrualSvc,
		ledgerRepo: p.LedgerRepo,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.Use(gin.Recovery())

	s.engine.GET("/healthz", s.Healthz)
	s.engine.GET("/readyz", s.Readyz)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.engine.Group("/v1")
	v1.POST("/accruals/run", s.RunAccruals)
	v1.GET("/ledger/entries", s.ListLedgerEntries)
}

func (s *Server) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Readyz(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func Run(lc fx.Lifecycle, log *zap.Logger, cfg config.Config, s *Server) {
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      s.engine,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("starting HTTP server", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("HTTP server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down HTTP server", zap.String("addr", cfg.HTTPAddr))
			return srv.Shutdown(ctx)
		},
	})
}
