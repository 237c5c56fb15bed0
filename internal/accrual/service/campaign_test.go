package service

import (
	"testing"

	campaigndomain "github.com/clipfuellabs/clipfuel/internal/campaign/domain"
	ledgerdomain "github.com/clipfuellabs/clipfuel/internal/ledger/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignCandidateAppliesDemographicsMultiplier(t *testing.T) {
	campaign := campaigndomain.Campaign{ID: 10, CPMRateCents: 1000}
	sub := campaigndomain.VideoSubmission{ID: 20, CampaignID: 10, CreatorID: 30, Views: 50000}

	cand := campaignCandidate(campaign, sub, 0.80)

	// (50000/1000) * $10.00 * 0.80 = $400.00
	assert.Equal(t, int64(40000), cand.AccruedCents)
	assert.Equal(t, int64(50000), cand.ViewsSnapshot)
	assert.Equal(t, int64(1000), cand.RateCents)
	assert.Equal(t, ledgerdomain.PaymentTypeCPM, cand.Key.PaymentType)
	assert.Equal(t, sub.ID, cand.Key.SubmissionID)
	assert.Nil(t, cand.Key.MilestoneThreshold)
	assert.Equal(t, ledgerdomain.SourceTypeCampaign, cand.SourceType)
	assert.Equal(t, campaign.ID, cand.SourceID)
	assert.Equal(t, sub.CreatorID, cand.CreatorID)
}

func TestCampaignCandidateDefaultMultiplier(t *testing.T) {
	campaign := campaigndomain.Campaign{ID: 10, CPMRateCents: 1000}
	sub := campaigndomain.VideoSubmission{ID: 20, CampaignID: 10, CreatorID: 30, Views: 50000}

	cand := campaignCandidate(campaign, sub, 0.4)

	// 50 * $10.00 * 0.4 = $200.00
	assert.Equal(t, int64(20000), cand.AccruedCents)
}

func TestCampaignCandidateFlatRateNotMultiplied(t *testing.T) {
	campaign := campaigndomain.Campaign{ID: 10, CPMRateCents: 1000, FlatRateCents: 500}
	sub := campaigndomain.VideoSubmission{ID: 20, CampaignID: 10, CreatorID: 30, Views: 50000}

	cand := campaignCandidate(campaign, sub, 0.5)

	// 50 * $10.00 * 0.5 = $250.00, plus the full $5.00 per-video bonus
	assert.Equal(t, int64(25500), cand.AccruedCents)
}

func TestCampaignCandidateRoundsOnceOnFinalSum(t *testing.T) {
	campaign := campaigndomain.Campaign{ID: 10, CPMRateCents: 100}
	sub := campaigndomain.VideoSubmission{ID: 20, CampaignID: 10, CreatorID: 30, Views: 5}

	cand := campaignCandidate(campaign, sub, 1)

	// 0.005 * $1.00 = 0.5 cents, rounded half-up to a whole cent
	require.Equal(t, int64(1), cand.AccruedCents)
}

func TestRoundCentsHalfUp(t *testing.T) {
	assert.Equal(t, int64(0), roundCents(0.4999))
	assert.Equal(t, int64(1), roundCents(0.5))
	assert.Equal(t, int64(2), roundCents(1.5))
	assert.Equal(t, int64(100), roundCents(99.5))
	assert.Equal(t, int64(99), roundCents(99.49))
}
