package service

import (
	"testing"

	boostdomain "github.com/clipfuellabs/clipfuel/internal/boost/domain"
	ledgerdomain "github.com/clipfuellabs/clipfuel/internal/ledger/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func TestBoostCandidatesFlatRateOnly(t *testing.T) {
	boost := boostdomain.Boost{ID: 1}
	sub := boostdomain.BoostSubmission{ID: 2, BoostID: 1, CreatorID: 3, PayoutCents: 15000}

	cands := boostCandidates(boost, sub, nil)

	require.Len(t, cands, 1)
	assert.Equal(t, ledgerdomain.PaymentTypeFlatRate, cands[0].Key.PaymentType)
	assert.Equal(t, int64(15000), cands[0].AccruedCents)
	assert.Equal(t, int64(0), cands[0].ViewsSnapshot)
	assert.Equal(t, int64(15000), cands[0].RateCents)
	assert.Nil(t, cands[0].Key.MilestoneThreshold)
}

func TestBoostCandidatesZeroPayoutProducesNoFlatEntry(t *testing.T) {
	boost := boostdomain.Boost{ID: 1}
	sub := boostdomain.BoostSubmission{ID: 2, BoostID: 1, CreatorID: 3, PayoutCents: 0}

	cands := boostCandidates(boost, sub, nil)

	assert.Empty(t, cands)
}

func TestBoostCandidatesMilestoneRequiresThreshold(t *testing.T) {
	boost := boostdomain.Boost{ID: 1, ViewBonusesEnabled: true}
	rule := boostdomain.ViewBonusRule{
		ID:            7,
		BoostID:       1,
		BonusType:     boostdomain.BonusTypeMilestone,
		ViewThreshold: 100000,
		BonusCents:    5000,
		IsActive:      true,
	}

	below := boostdomain.BoostSubmission{ID: 2, BoostID: 1, CreatorID: 3, ViewCount: int64Ptr(80000)}
	assert.Empty(t, boostCandidates(boost, below, []boostdomain.ViewBonusRule{rule}))

	above := boostdomain.BoostSubmission{ID: 2, BoostID: 1, CreatorID: 3, ViewCount: int64Ptr(120000)}
	cands := boostCandidates(boost, above, []boostdomain.ViewBonusRule{rule})

	require.Len(t, cands, 1)
	assert.Equal(t, ledgerdomain.PaymentTypeMilestone, cands[0].Key.PaymentType)
	require.NotNil(t, cands[0].Key.MilestoneThreshold)
	assert.Equal(t, int64(100000), *cands[0].Key.MilestoneThreshold)
	assert.Equal(t, int64(5000), cands[0].AccruedCents)
	assert.Equal(t, int64(120000), cands[0].ViewsSnapshot)
}

func TestBoostCandidatesViewBonusEligibleViews(t *testing.T) {
	boost := boostdomain.Boost{ID: 1, ViewBonusesEnabled: true}
	rule := boostdomain.ViewBonusRule{
		ID:            8,
		BoostID:       1,
		BonusType:     boostdomain.BonusTypeCPM,
		ViewThreshold: 10000,
		MinViews:      int64Ptr(10000),
		CPMRateCents:  200,
		IsActive:      true,
	}
	sub := boostdomain.BoostSubmission{ID: 2, BoostID: 1, CreatorID: 3, ViewCount: int64Ptr(60000)}

	cands := boostCandidates(boost, sub, []boostdomain.ViewBonusRule{rule})

	// eligible = 60000 - 10000; (50000/1000) * $2.00 = $100.00
	require.Len(t, cands, 1)
	assert.Equal(t, ledgerdomain.PaymentTypeViewBonus, cands[0].Key.PaymentType)
	assert.Equal(t, int64(10000), cands[0].AccruedCents)
	assert.Equal(t, int64(60000), cands[0].ViewsSnapshot)
	assert.Equal(t, int64(200), cands[0].RateCents)
	require.NotNil(t, cands[0].Key.MilestoneThreshold)
	assert.Equal(t, int64(10000), *cands[0].Key.MilestoneThreshold)
}

func TestBoostCandidatesViewBonusBelowGate(t *testing.T) {
	boost := boostdomain.Boost{ID: 1, ViewBonusesEnabled: true}
	rule := boostdomain.ViewBonusRule{
		BonusType:    boostdomain.BonusTypeCPM,
		MinViews:     int64Ptr(10000),
		CPMRateCents: 200,
		IsActive:     true,
	}
	sub := boostdomain.BoostSubmission{ID: 2, BoostID: 1, CreatorID: 3, ViewCount: int64Ptr(9000)}

	assert.Empty(t, boostCandidates(boost, sub, []boostdomain.ViewBonusRule{rule}))
}

func TestBoostCandidatesViewBonusSuppressesZeroAmount(t *testing.T) {
	boost := boostdomain.Boost{ID: 1, ViewBonusesEnabled: true}
	rule := boostdomain.ViewBonusRule{
		BonusType:    boostdomain.BonusTypeCPM,
		MinViews:     int64Ptr(10000),
		CPMRateCents: 1,
		IsActive:     true,
	}
	// eligible = 100 views at 1 cent per thousand = 0.1 cents, rounds to 0
	sub := boostdomain.BoostSubmission{ID: 2, BoostID: 1, CreatorID: 3, ViewCount: int64Ptr(10100)}

	assert.Empty(t, boostCandidates(boost, sub, []boostdomain.ViewBonusRule{rule}))
}

func TestBoostCandidatesViewBonusGateFallsBackToThreshold(t *testing.T) {
	boost := boostdomain.Boost{ID: 1, ViewBonusesEnabled: true}
	rule := boostdomain.ViewBonusRule{
		BonusType:     boostdomain.BonusTypeCPM,
		ViewThreshold: 20000,
		CPMRateCents:  100,
		IsActive:      true,
	}
	sub := boostdomain.BoostSubmission{ID: 2, BoostID: 1, CreatorID: 3, ViewCount: int64Ptr(30000)}

	cands := boostCandidates(boost, sub, []boostdomain.ViewBonusRule{rule})

	// eligible = 30000 - 20000; (10000/1000) * $1.00 = $10.00
	require.Len(t, cands, 1)
	assert.Equal(t, int64(1000), cands[0].AccruedCents)
}

func TestBoostCandidatesNilViewCountTreatedAsZero(t *testing.T) {
	boost := boostdomain.Boost{ID: 1, ViewBonusesEnabled: true}
	rule := boostdomain.ViewBonusRule{
		BonusType:     boostdomain.BonusTypeMilestone,
		ViewThreshold: 1000,
		BonusCents:    5000,
		IsActive:      true,
	}
	sub := boostdomain.BoostSubmission{ID: 2, BoostID: 1, CreatorID: 3, PayoutCents: 7500}

	cands := boostCandidates(boost, sub, []boostdomain.ViewBonusRule{rule})

	require.Len(t, cands, 1)
	assert.Equal(t, ledgerdomain.PaymentTypeFlatRate, cands[0].Key.PaymentType)
}

func TestBoostCandidatesComposeAcrossRules(t *testing.T) {
	boost := boostdomain.Boost{ID: 1, ViewBonusesEnabled: true}
	rules := []boostdomain.ViewBonusRule{
		{BonusType: boostdomain.BonusTypeMilestone, ViewThreshold: 50000, BonusCents: 2500, IsActive: true},
		{BonusType: boostdomain.BonusTypeMilestone, ViewThreshold: 100000, BonusCents: 5000, IsActive: true},
		{BonusType: boostdomain.BonusTypeCPM, ViewThreshold: 10000, MinViews: int64Ptr(10000), CPMRateCents: 200, IsActive: true},
	}
	sub := boostdomain.BoostSubmission{ID: 2, BoostID: 1, CreatorID: 3, PayoutCents: 15000, ViewCount: int64Ptr(60000)}

	cands := boostCandidates(boost, sub, rules)

	// flat + the 50k milestone + the view bonus; the 100k milestone is unmet
	require.Len(t, cands, 3)
	types := make([]ledgerdomain.PaymentType, 0, len(cands))
	for _, cand := range cands {
		types = append(types, cand.Key.PaymentType)
	}
	assert.Contains(t, types, ledgerdomain.PaymentTypeFlatRate)
	assert.Contains(t, types, ledgerdomain.PaymentTypeMilestone)
	assert.Contains(t, types, ledgerdomain.PaymentTypeViewBonus)
}
