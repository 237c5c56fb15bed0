package service

import (
	"testing"

	accrualdomain "github.com/clipfuellabs/clipfuel/internal/accrual/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterDefaultsToBothSources(t *testing.T) {
	filter, err := parseFilter(accrualdomain.RunRequest{})

	require.NoError(t, err)
	assert.True(t, filter.campaigns)
	assert.True(t, filter.boosts)
	assert.Nil(t, filter.campaignID)
	assert.Nil(t, filter.boostID)
}

func TestParseFilterNarrowsToCampaigns(t *testing.T) {
	filter, err := parseFilter(accrualdomain.RunRequest{SourceType: "campaign"})

	require.NoError(t, err)
	assert.True(t, filter.campaigns)
	assert.False(t, filter.boosts)
}

func TestParseFilterTargetsSingleBoost(t *testing.T) {
	filter, err := parseFilter(accrualdomain.RunRequest{SourceType: "boost", SourceID: "1234567890123456"})

	require.NoError(t, err)
	assert.False(t, filter.campaigns)
	assert.True(t, filter.boosts)
	require.NotNil(t, filter.boostID)
	assert.Equal(t, "1234567890123456", filter.boostID.String())
}

func TestParseFilterRejectsUnknownSourceType(t *testing.T) {
	_, err := parseFilter(accrualdomain.RunRequest{SourceType: "payout"})

	assert.ErrorIs(t, err, accrualdomain.ErrInvalidSourceType)
}

func TestParseFilterRejectsIDWithoutType(t *testing.T) {
	_, err := parseFilter(accrualdomain.RunRequest{SourceID: "1234567890123456"})

	assert.ErrorIs(t, err, accrualdomain.ErrInvalidSourceID)
}

func TestParseFilterRejectsMalformedID(t *testing.T) {
	_, err := parseFilter(accrualdomain.RunRequest{SourceType: "campaign", SourceID: "not-a-snowflake"})

	assert.ErrorIs(t, err, accrualdomain.ErrInvalidSourceID)
}

func TestParseFilterTrimsWhitespace(t *testing.T) {
	filter, err := parseFilter(accrualdomain.RunRequest{SourceType: "  campaign  "})

	require.NoError(t, err)
	assert.True(t, filter.campaigns)
	assert.False(t, filter.boosts)
}
