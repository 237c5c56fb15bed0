package service

import (
	"context"
	"fmt"

	accrualdomain "github.com/clipfuellabs/clipfuel/internal/accrual/domain"
	boostdomain "github.com/clipfuellabs/clipfuel/internal/boost/domain"
	ledgerdomain "github.com/clipfuellabs/clipfuel/internal/ledger/domain"
)

func (s *Service) accrueBoost(ctx context.Context, boost boostdomain.Boost, summary *accrualdomain.RunSummary) error {
	submissions, err := s.boosts.ListApprovedSubmissions(ctx, boost.ID)
	if err != nil {
		return fmt.Errorf("list approved submissions: %w", err)
	}
	if len(submissions) == 0 {
		return nil
	}

	var rules []boostdomain.ViewBonusRule
	if boost.ViewBonusesEnabled {
		rules, err = s.boosts.ListActiveBonusRules(ctx, boost.ID)
		if err != nil {
			return fmt.Errorf("list bonus rules: %w", err)
		}
	}

	for _, sub := range submissions {
		for _, cand := range boostCandidates(boost, sub, rules) {
			s.reconcile(ctx, cand, summary)
		}
	}
	return nil
}

// boostCandidates computes every accrual owed for one approved boost
// submission: the flat-rate payout plus, per active bonus rule, either a
// one-time milestone payment or a CPM-style view bonus.
func boostCandidates(boost boostdomain.Boost, sub boostdomain.BoostSubmission, rules []boostdomain.ViewBonusRule) []ledgerdomain.Candidate {
	views := sub.Views()
	candidates := make([]ledgerdomain.Candidate, 0, 1+len(rules))

	if sub.PayoutCents > 0 {
		candidates = append(candidates, ledgerdomain.Candidate{
			Key: ledgerdomain.EntryKey{
				SubmissionID: sub.ID,
				PaymentType:  ledgerdomain.PaymentTypeFlatRate,
			},
			CreatorID:     sub.CreatorID,
			SourceType:    ledgerdomain.SourceTypeBoost,
			SourceID:      boost.ID,
			AccruedCents:  sub.PayoutCents,
			ViewsSnapshot: 0,
			RateCents:     sub.PayoutCents,
		})
	}

	for _, rule := range rules {
		if cand, ok := bonusCandidate(boost, sub, rule, views); ok {
			candidates = append(candidates, cand)
		}
	}

	return candidates
}

// bonusCandidate evaluates one bonus rule against a submission's view count,
// producing zero or one candidate write.
func bonusCandidate(boost boostdomain.Boost, sub boostdomain.BoostSubmission, rule boostdomain.ViewBonusRule, views int64) (ledgerdomain.Candidate, bool) {
	switch rule.BonusType {
	case boostdomain.BonusTypeMilestone:
		if views < rule.ViewThreshold {
			return ledgerdomain.Candidate{}, false
		}
		threshold := rule.ViewThreshold
		return ledgerdomain.Candidate{
			Key: ledgerdomain.EntryKey{
				SubmissionID:       sub.ID,
				PaymentType:        ledgerdomain.PaymentTypeMilestone,
				MilestoneThreshold: &threshold,
			},
			CreatorID:     sub.CreatorID,
			SourceType:    ledgerdomain.SourceTypeBoost,
			SourceID:      boost.ID,
			AccruedCents:  rule.BonusCents,
			ViewsSnapshot: views,
			RateCents:     rule.BonusCents,
		}, true

	case boostdomain.BonusTypeCPM:
		minViews := rule.MinimumViews()
		if views < minViews {
			return ledgerdomain.Candidate{}, false
		}
		eligibleViews := views - minViews
		amountCents := roundCents(float64(eligibleViews) / 1000 * float64(rule.CPMRateCents))
		if amountCents <= 0 {
			return ledgerdomain.Candidate{}, false
		}
		// The threshold disambiguates between multiple CPM-style rules
		// on the same boost.
		threshold := rule.ViewThreshold
		return ledgerdomain.Candidate{
			Key: ledgerdomain.EntryKey{
				SubmissionID:       sub.ID,
				PaymentType:        ledgerdomain.PaymentTypeViewBonus,
				MilestoneThreshold: &threshold,
			},
			CreatorID:     sub.CreatorID,
			SourceType:    ledgerdomain.SourceTypeBoost,
			SourceID:      boost.ID,
			AccruedCents:  amountCents,
			ViewsSnapshot: views,
			RateCents:     rule.CPMRateCents,
		}, true
	}

	return ledgerdomain.Candidate{}, false
}
