package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	demographicsdomain "github.com/clipfuellabs/clipfuel/internal/demographics/domain"
	"github.com/clipfuellabs/clipfuel/internal/demographics/repository"
	"github.com/clipfuellabs/clipfuel/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) demographicsdomain.Resolver {
	t.Helper()
	gdb, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&demographicsdomain.CreatorDemographics{}))

	now := time.Now().UTC()
	records := []demographicsdomain.CreatorDemographics{
		{CreatorID: 101, Score: 75, UpdatedAt: now},
		{CreatorID: 102, Score: 0, UpdatedAt: now},
		{CreatorID: 103, Score: -10, UpdatedAt: now},
	}
	require.NoError(t, gdb.Create(&records).Error)

	return &Service{repo: repository.NewRepository(gdb)}
}

func TestMultipliersScaleRecordedScores(t *testing.T) {
	resolver := newTestResolver(t)

	got, err := resolver.Multipliers(context.Background(), []snowflake.ID{101})

	require.NoError(t, err)
	assert.InDelta(t, 0.75, got[101], 1e-9)
}

func TestMultipliersDefaultWithoutPositiveScore(t *testing.T) {
	resolver := newTestResolver(t)

	got, err := resolver.Multipliers(context.Background(), []snowflake.ID{102, 103, 999})

	require.NoError(t, err)
	assert.InDelta(t, demographicsdomain.DefaultMultiplier, got[102], 1e-9)
	assert.InDelta(t, demographicsdomain.DefaultMultiplier, got[103], 1e-9)
	assert.InDelta(t, demographicsdomain.DefaultMultiplier, got[999], 1e-9)
}

func TestMultipliersDeduplicateRequestedIDs(t *testing.T) {
	resolver := newTestResolver(t)

	got, err := resolver.Multipliers(context.Background(), []snowflake.ID{101, 101, 102})

	require.NoError(t, err)
	assert.Len(t, got, 2)
}
