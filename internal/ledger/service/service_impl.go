package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/clipfuellabs/clipfuel/internal/clock"
	ledgerdomain "github.com/clipfuellabs/clipfuel/internal/ledger/domain"
	"github.com/clipfuellabs/clipfuel/internal/ledger/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	repo  ledgerdomain.Repository
	log   *zap.Logger
	clock clock.Clock
	genID *snowflake.Node
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	GenID *snowflake.Node
}

func NewService(p Params) ledgerdomain.Reconciler {
	return &Service{
		repo:  repository.NewRepository(p.DB),
		log:   p.Log.Named("ledger.service"),
		clock: p.Clock,
		genID: p.GenID,
	}
}

// NewWithRepository wires an explicit repository, used by tests.
func NewWithRepository(repo ledgerdomain.Repository, log *zap.Logger, clk clock.Clock, genID *snowflake.Node) *Service {
	return &Service{repo: repo, log: log.Named("ledger.service"), clock: clk, genID: genID}
}

// Reconcile merges one computed accrual into the ledger. Writes against a
// previously observed status are guarded by a compare-and-swap; a failed swap
// means the payout process moved the entry concurrently and the candidate is
// deferred to the next run.
func (s *Service) Reconcile(ctx context.Context, cand ledgerdomain.Candidate) (ledgerdomain.Outcome, error) {
	if err := validateCandidate(cand); err != nil {
		return ledgerdomain.OutcomeSkipped, err
	}

	existing, err := s.repo.FindByKey(ctx, cand.Key)
	if err != nil {
		return ledgerdomain.OutcomeSkipped, err
	}

	now := s.clock.Now()

	if existing == nil {
		return s.insert(ctx, cand, now)
	}

	switch existing.Status {
	case ledgerdomain.EntryStatusLocked, ledgerdomain.EntryStatusClearing:
		// Claimed by the payout process; never race a disbursement.
		return ledgerdomain.OutcomeSkipped, nil

	case ledgerdomain.EntryStatusPaid:
		if cand.Key.PaymentType == ledgerdomain.PaymentTypeMilestone {
			// Milestones are one-time payments; once paid they stay closed.
			return ledgerdomain.OutcomeSkipped, nil
		}
		if cand.AccruedCents <= existing.PaidCents {
			return ledgerdomain.OutcomeSkipped, nil
		}
		// More is owed than was disbursed: raise the accrual and reopen.
		return s.swap(ctx, existing, cand, ledgerdomain.EntryStatusPaid, now)

	case ledgerdomain.EntryStatusPending:
		if unchanged(existing, cand) {
			return ledgerdomain.OutcomeSkipped, nil
		}
		return s.swap(ctx, existing, cand, ledgerdomain.EntryStatusPending, now)

	default:
		s.log.Warn("ledger entry has unknown status, skipping",
			zap.String("entry_id", existing.ID.String()),
			zap.String("status", string(existing.Status)),
		)
		return ledgerdomain.OutcomeSkipped, nil
	}
}

func (s *Service) insert(ctx context.Context, cand ledgerdomain.Candidate, now time.Time) (ledgerdomain.Outcome, error) {
	entry := ledgerdomain.Entry{
		ID:                 s.genID.Generate(),
		CreatorID:          cand.CreatorID,
		SourceType:         cand.SourceType,
		SourceID:           cand.SourceID,
		SubmissionID:       cand.Key.SubmissionID,
		PaymentType:        cand.Key.PaymentType,
		MilestoneThreshold: cand.Key.MilestoneThreshold,
		EntryChecksum:      cand.Key.Checksum(),
		ViewsSnapshot:      cand.ViewsSnapshot,
		RateCents:          cand.RateCents,
		AccruedCents:       cand.AccruedCents,
		PaidCents:          0,
		Status:             ledgerdomain.EntryStatusPending,
		LastCalculatedAt:   now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	created, err := s.repo.Insert(ctx, entry)
	if err != nil {
		return ledgerdomain.OutcomeSkipped, err
	}
	if !created {
		s.log.Info("ledger entry inserted by a concurrent run, skipping",
			zap.String("submission_id", cand.Key.SubmissionID.String()),
			zap.String("payment_type", string(cand.Key.PaymentType)),
		)
		return ledgerdomain.OutcomeSkipped, nil
	}
	return ledgerdomain.OutcomeCreated, nil
}

func (s *Service) swap(ctx context.Context, existing *ledgerdomain.Entry, cand ledgerdomain.Candidate, expected ledgerdomain.EntryStatus, now time.Time) (ledgerdomain.Outcome, error) {
	swapped, err := s.repo.CompareAndSwapStatus(ctx, existing.ID, expected, ledgerdomain.EntryUpdate{
		AccruedCents:     cand.AccruedCents,
		ViewsSnapshot:    cand.ViewsSnapshot,
		RateCents:        cand.RateCents,
		Status:           ledgerdomain.EntryStatusPending,
		LastCalculatedAt: now,
	})
	if err != nil {
		return ledgerdomain.OutcomeSkipped, err
	}
	if !swapped {
		s.log.Info("ledger entry status changed concurrently, deferring to next run",
			zap.String("entry_id", existing.ID.String()),
			zap.String("expected_status", string(expected)),
		)
		return ledgerdomain.OutcomeSkipped, nil
	}
	return ledgerdomain.OutcomeUpdated, nil
}

func unchanged(existing *ledgerdomain.Entry, cand ledgerdomain.Candidate) bool {
	return existing.AccruedCents == cand.AccruedCents &&
		existing.ViewsSnapshot == cand.ViewsSnapshot &&
		existing.RateCents == cand.RateCents
}

func validateCandidate(cand ledgerdomain.Candidate) error {
	if cand.Key.SubmissionID == 0 || cand.CreatorID == 0 || cand.SourceID == 0 {
		return ledgerdomain.ErrInvalidCandidate
	}
	if !cand.Key.PaymentType.Valid() {
		return ledgerdomain.ErrInvalidCandidate
	}
	if cand.AccruedCents < 0 {
		return ledgerdomain.ErrInvalidCandidate
	}

	// Milestone and view-bonus keys need the threshold disambiguator;
	// cpm and flat-rate keys must not carry one.
	hasThreshold := cand.Key.MilestoneThreshold != nil
	switch cand.Key.PaymentType {
	case ledgerdomain.PaymentTypeMilestone, ledgerdomain.PaymentTypeViewBonus:
		if !hasThreshold {
			return ledgerdomain.ErrInvalidCandidate
		}
	default:
		if hasThreshold {
			return ledgerdomain.ErrInvalidCandidate
		}
	}
	return nil
}
