// Package domain contains the creator demographics read model. Scores are
// produced by the analytics ingestion pipeline; the engine only reads them.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// DefaultMultiplier applies to creators without a recorded positive score.
const DefaultMultiplier = 0.4

type CreatorDemographics struct {
	CreatorID snowflake.ID `gorm:"primaryKey"`
	Score     int64        `gorm:"not null;default:0"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CreatorDemographics) TableName() string { return "creator_demographics" }

type Repository interface {
	ListScores(ctx context.Context, creatorIDs []snowflake.ID) (map[snowflake.ID]int64, error)
}

// Resolver maps creator ids to the quality multiplier used by CPM campaign
// calculations. The result contains an entry for every requested id.
type Resolver interface {
	Multipliers(ctx context.Context, creatorIDs []snowflake.ID) (map[snowflake.ID]float64, error)
}
