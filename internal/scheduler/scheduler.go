// Package scheduler periodically triggers accrual runs. Overlapping runs are
// already safe (every ledger write is guarded), so the redis lock only avoids
// wasted work across replicas; without redis the scheduler runs unguarded.
package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	accrualdomain "github.com/clipfuellabs/clipfuel/internal/accrual/domain"
	"github.com/clipfuellabs/clipfuel/internal/clock"
	"github.com/clipfuellabs/clipfuel/internal/config"
)

const runLockKey = "clipfuel:accrual:run_lock"

// releaseLockScript deletes the lock only while it still holds our token, so
// a replica whose lock expired mid-run cannot delete a successor's lock.
var releaseLockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

var Module = fx.Module("scheduler",
	fx.Provide(New),
)

type Scheduler struct {
	cfg      config.Config
	log      *zap.Logger
	clock    clock.Clock
	accruals accrualdomain.Service
	redis    *redis.Client
}

type Params struct {
	fx.In

	Cfg      config.Config
	Log      *zap.Logger
	Clock    clock.Clock
	Accruals accrualdomain.Service
	Redis    *redis.Client `optional:"true"`
}

func New(p Params) *Scheduler {
	return &Scheduler{
		cfg:      p.Cfg,
		log:      p.Log.Named("scheduler"),
		clock:    p.Clock,
		accruals: p.Accruals,
		redis:    p.Redis,
	}
}

func (s *Scheduler) RunForever(ctx context.Context) {
	interval := s.cfg.AccrualInterval
	if interval <= 0 {
		interval = time.Hour
	}

	s.log.Info("scheduler started", zap.Duration("interval", interval))

	s.RunOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce triggers a full accrual run, guarded by the run lock when redis is
// configured.
func (s *Scheduler) RunOnce(ctx context.Context) {
	release, acquired := s.acquireRunLock(ctx)
	if !acquired {
		s.log.Info("accrual run already in progress elsewhere, skipping")
		return
	}
	defer release()

	started := s.clock.Now()
	summary, err := s.accruals.Run(ctx, accrualdomain.RunRequest{})
	if err != nil {
		s.log.Error("scheduled accrual run failed", zap.Error(err))
		return
	}

	s.log.Info("scheduled accrual run completed",
		zap.String("run_id", summary.RunID),
		zap.Duration("took", s.clock.Now().Sub(started)),
		zap.Int("entries_created", summary.LedgerEntriesCreated),
		zap.Int("entries_updated", summary.LedgerEntriesUpdated),
		zap.Int("entries_skipped", summary.EntriesSkipped),
		zap.Int("errors", len(summary.Errors)),
	)
}

func (s *Scheduler) acquireRunLock(ctx context.Context) (func(), bool) {
	if s.redis == nil {
		return func() {}, true
	}

	ttl := s.cfg.RunLockTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	token := uuid.NewString()
	acquired, err := s.redis.SetNX(ctx, runLockKey, token, ttl).Result()
	if err != nil {
		// Lock is advisory; correctness comes from the ledger CAS.
		s.log.Warn("run lock unavailable, proceeding without it", zap.Error(err))
		return func() {}, true
	}
	if !acquired {
		return func() {}, false
	}

	return func() {
		if err := releaseLockScript.Run(context.Background(), s.redis, []string{runLockKey}, token).Err(); err != nil {
			s.log.Warn("failed to release run lock", zap.Error(err))
		}
	}, true
}
