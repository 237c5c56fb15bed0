package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	accrualdomain "github.com/clipfuellabs/clipfuel/internal/accrual/domain"
	campaigndomain "github.com/clipfuellabs/clipfuel/internal/campaign/domain"
	demographicsdomain "github.com/clipfuellabs/clipfuel/internal/demographics/domain"
	ledgerdomain "github.com/clipfuellabs/clipfuel/internal/ledger/domain"
)

func (s *Service) accrueCampaign(ctx context.Context, campaign campaigndomain.Campaign, summary *accrualdomain.RunSummary) error {
	submissions, err := s.campaigns.ListApprovedSubmissions(ctx, campaign.ID)
	if err != nil {
		return fmt.Errorf("list approved submissions: %w", err)
	}
	if len(submissions) == 0 {
		return nil
	}

	creatorIDs := make([]snowflake.ID, 0, len(submissions))
	for _, sub := range submissions {
		creatorIDs = append(creatorIDs, sub.CreatorID)
	}

	multipliers, err := s.demographics.Multipliers(ctx, creatorIDs)
	if err != nil {
		return fmt.Errorf("resolve demographics: %w", err)
	}

	for _, sub := range submissions {
		multiplier, ok := multipliers[sub.CreatorID]
		if !ok {
			multiplier = demographicsdomain.DefaultMultiplier
		}
		s.reconcile(ctx, campaignCandidate(campaign, sub, multiplier), summary)
	}
	return nil
}

// campaignCandidate computes the CPM accrual for one approved video
// submission. The flat per-video component is not subject to the demographics
// multiplier, and rounding happens once on the final sum.
func campaignCandidate(campaign campaigndomain.Campaign, sub campaigndomain.VideoSubmission, multiplier float64) ledgerdomain.Candidate {
	cpmEarnings := float64(sub.Views) / 1000 * float64(campaign.CPMRateCents) * multiplier
	totalCents := roundCents(cpmEarnings + float64(campaign.FlatRateCents))

	return ledgerdomain.Candidate{
		Key: ledgerdomain.EntryKey{
			SubmissionID: sub.ID,
			PaymentType:  ledgerdomain.PaymentTypeCPM,
		},
		CreatorID:     sub.CreatorID,
		SourceType:    ledgerdomain.SourceTypeCampaign,
		SourceID:      campaign.ID,
		AccruedCents:  totalCents,
		ViewsSnapshot: sub.Views,
		RateCents:     campaign.CPMRateCents,
	}
}
