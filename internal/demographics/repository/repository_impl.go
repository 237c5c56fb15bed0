package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	demographicsdomain "github.com/clipfuellabs/clipfuel/internal/demographics/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) demographicsdomain.Repository {
	return &repository{db: db}
}

func (r *repository) ListScores(ctx context.Context, creatorIDs []snowflake.ID) (map[snowflake.ID]int64, error) {
	scores := make(map[snowflake.ID]int64, len(creatorIDs))
	if len(creatorIDs) == 0 {
		return scores, nil
	}

	var rows []demographicsdomain.CreatorDemographics
	err := r.db.WithContext(ctx).
		Where("creator_id IN ?", creatorIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		scores[row.CreatorID] = row.Score
	}
	return scores, nil
}
