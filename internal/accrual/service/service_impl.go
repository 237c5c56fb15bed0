package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	accrualdomain "github.com/clipfuellabs/clipfuel/internal/accrual/domain"
	"github.com/clipfuellabs/clipfuel/internal/accrual/repository"
	boostdomain "github.com/clipfuellabs/clipfuel/internal/boost/domain"
	campaigndomain "github.com/clipfuellabs/clipfuel/internal/campaign/domain"
	"github.com/clipfuellabs/clipfuel/internal/clock"
	demographicsdomain "github.com/clipfuellabs/clipfuel/internal/demographics/domain"
	ledgerdomain "github.com/clipfuellabs/clipfuel/internal/ledger/domain"
	"github.com/clipfuellabs/clipfuel/internal/observability"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	log   *zap.Logger
	clock clock.Clock
	genID *snowflake.Node

	runs         accrualdomain.Repository
	campaigns    campaigndomain.Repository
	boosts       boostdomain.Repository
	demographics demographicsdomain.Resolver
	reconciler   ledgerdomain.Reconciler
	metrics      *observability.Metrics
}

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Clock        clock.Clock
	GenID        *snowflake.Node
	Campaigns    campaigndomain.Repository
	Boosts       boostdomain.Repository
	Demographics demographicsdomain.Resolver
	Reconciler   ledgerdomain.Reconciler
	Metrics      *observability.Metrics `optional:"true"`
}

func NewService(p Params) accrualdomain.Service {
	return &Service{
		log:   p.Log.Named("accrual.service"),
		clock: p.Clock,
		genID: p.GenID,

		runs:         repository.NewRepository(p.DB),
		campaigns:    p.Campaigns,
		boosts:       p.Boosts,
		demographics: p.Demographics,
		reconciler:   p.Reconciler,
		metrics:      p.Metrics,
	}
}

// runFilter is the parsed form of a RunRequest.
type runFilter struct {
	campaigns  bool
	boosts     bool
	campaignID *snowflake.ID
	boostID    *snowflake.ID
}

func (s *Service) Run(ctx context.Context, req accrualdomain.RunRequest) (*accrualdomain.RunSummary, error) {
	filter, err := parseFilter(req)
	if err != nil {
		return nil, err
	}

	started := s.clock.Now()
	summary := &accrualdomain.RunSummary{
		RunID:     uuid.NewString(),
		Errors:    []string{},
		StartedAt: started,
	}

	record := accrualdomain.RunRecord{
		ID:         s.genID.Generate(),
		RunID:      summary.RunID,
		Status:     accrualdomain.RunStatusRunning,
		SourceType: req.SourceType,
		SourceID:   req.SourceID,
		StartedAt:  started,
	}
	if err := s.runs.InsertRun(ctx, record); err != nil {
		return nil, fmt.Errorf("record accrual run: %w", err)
	}

	s.log.Info("accrual run started",
		zap.String("run_id", summary.RunID),
		zap.String("source_type", req.SourceType),
		zap.String("source_id", req.SourceID),
	)

	if filter.campaigns {
		if err := s.processCampaigns(ctx, filter.campaignID, summary); err != nil {
			s.failRun(ctx, record.ID, summary)
			return nil, err
		}
	}
	if filter.boosts {
		if err := s.processBoosts(ctx, filter.boostID, summary); err != nil {
			s.failRun(ctx, record.ID, summary)
			return nil, err
		}
	}

	finished := s.clock.Now()
	summary.FinishedAt = finished
	summary.Success = true

	status := accrualdomain.RunStatusCompleted
	if len(summary.Errors) > 0 {
		status = accrualdomain.RunStatusCompletedWithErrors
	}
	if err := s.runs.FinishRun(ctx, record.ID, status, *summary, finished); err != nil {
		s.log.Warn("failed to finalize accrual run record", zap.String("run_id", summary.RunID), zap.Error(err))
	}

	if s.metrics != nil {
		s.metrics.EntriesCreated.Add(float64(summary.LedgerEntriesCreated))
		s.metrics.EntriesUpdated.Add(float64(summary.LedgerEntriesUpdated))
		s.metrics.EntriesSkipped.Add(float64(summary.EntriesSkipped))
		s.metrics.ItemErrors.Add(float64(len(summary.Errors)))
		s.metrics.RunDuration.Observe(finished.Sub(started).Seconds())
	}

	s.log.Info("accrual run finished",
		zap.String("run_id", summary.RunID),
		zap.String("status", string(status)),
		zap.Int("campaigns_processed", summary.CampaignsProcessed),
		zap.Int("boosts_processed", summary.BoostsProcessed),
		zap.Int("entries_created", summary.LedgerEntriesCreated),
		zap.Int("entries_updated", summary.LedgerEntriesUpdated),
		zap.Int("entries_skipped", summary.EntriesSkipped),
		zap.Int("errors", len(summary.Errors)),
	)

	return summary, nil
}

func (s *Service) failRun(ctx context.Context, id snowflake.ID, summary *accrualdomain.RunSummary) {
	// Best effort: the run already failed on an infrastructure error.
	if err := s.runs.FinishRun(ctx, id, accrualdomain.RunStatusFailed, *summary, s.clock.Now()); err != nil {
		s.log.Warn("failed to mark accrual run failed", zap.String("run_id", summary.RunID), zap.Error(err))
	}
}

func (s *Service) processCampaigns(ctx context.Context, id *snowflake.ID, summary *accrualdomain.RunSummary) error {
	var campaigns []campaigndomain.Campaign
	if id != nil {
		campaign, err := s.campaigns.GetActive(ctx, *id)
		if err != nil {
			return fmt.Errorf("load campaign %s: %w", id.String(), err)
		}
		if campaign == nil {
			return accrualdomain.ErrSourceNotFound
		}
		campaigns = []campaigndomain.Campaign{*campaign}
	} else {
		var err error
		campaigns, err = s.campaigns.ListActive(ctx)
		if err != nil {
			return fmt.Errorf("list active campaigns: %w", err)
		}
	}

	for _, campaign := range campaigns {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.accrueCampaign(ctx, campaign, summary); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("campaign %s: %v", campaign.ID, err))
			continue
		}
		summary.CampaignsProcessed++
	}
	return nil
}

func (s *Service) processBoosts(ctx context.Context, id *snowflake.ID, summary *accrualdomain.RunSummary) error {
	var boosts []boostdomain.Boost
	if id != nil {
		boost, err := s.boosts.GetActive(ctx, *id)
		if err != nil {
			return fmt.Errorf("load boost %s: %w", id.String(), err)
		}
		if boost == nil {
			return accrualdomain.ErrSourceNotFound
		}
		boosts = []boostdomain.Boost{*boost}
	} else {
		var err error
		boosts, err = s.boosts.ListActive(ctx)
		if err != nil {
			return fmt.Errorf("list active boosts: %w", err)
		}
	}

	for _, boost := range boosts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.accrueBoost(ctx, boost, summary); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("boost %s: %v", boost.ID, err))
			continue
		}
		summary.BoostsProcessed++
	}
	return nil
}

// reconcile feeds one candidate to the ledger reconciler and folds the
// outcome into the summary. Failures stay scoped to the submission.
func (s *Service) reconcile(ctx context.Context, cand ledgerdomain.Candidate, summary *accrualdomain.RunSummary) {
	outcome, err := s.reconciler.Reconcile(ctx, cand)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf(
			"submission %s (%s): %v", cand.Key.SubmissionID, cand.Key.PaymentType, err,
		))
		return
	}

	switch outcome {
	case ledgerdomain.OutcomeCreated:
		summary.LedgerEntriesCreated++
	case ledgerdomain.OutcomeUpdated:
		summary.LedgerEntriesUpdated++
	case ledgerdomain.OutcomeSkipped:
		summary.EntriesSkipped++
	}
}
