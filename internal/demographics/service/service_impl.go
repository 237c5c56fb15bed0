package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	demographicsdomain "github.com/clipfuellabs/clipfuel/internal/demographics/domain"
	"github.com/clipfuellabs/clipfuel/internal/demographics/repository"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Service struct {
	repo demographicsdomain.Repository
}

type Params struct {
	fx.In

	DB *gorm.DB
}

func NewResolver(p Params) demographicsdomain.Resolver {
	return &Service{repo: repository.NewRepository(p.DB)}
}

func (s *Service) Multipliers(ctx context.Context, creatorIDs []snowflake.ID) (map[snowflake.ID]float64, error) {
	unique := dedupe(creatorIDs)

	scores, err := s.repo.ListScores(ctx, unique)
	if err != nil {
		return nil, err
	}

	multipliers := make(map[snowflake.ID]float64, len(unique))
	for _, id := range unique {
		multipliers[id] = demographicsdomain.DefaultMultiplier
		if score, ok := scores[id]; ok && score > 0 {
			multipliers[id] = float64(score) / 100
		}
	}
	return multipliers, nil
}

func dedupe(ids []snowflake.ID) []snowflake.ID {
	seen := make(map[snowflake.ID]struct{}, len(ids))
	out := make([]snowflake.ID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
