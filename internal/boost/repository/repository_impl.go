package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	boostdomain "github.com/clipfuellabs/clipfuel/internal/boost/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) boostdomain.Repository {
	return &repository{db: db}
}

func (r *repository) ListActive(ctx context.Context) ([]boostdomain.Boost, error) {
	var boosts []boostdomain.Boost
	err := r.db.WithContext(ctx).
		Where("status = ?", boostdomain.BoostStatusActive).
		Order("id").
		Find(&boosts).Error
	return boosts, err
}

func (r *repository) GetActive(ctx context.Context, id snowflake.ID) (*boostdomain.Boost, error) {
	var boost boostdomain.Boost
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, boostdomain.BoostStatusActive).
		First(&boost).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &boost, nil
}

func (r *repository) ListApprovedSubmissions(ctx context.Context, boostID snowflake.ID) ([]boostdomain.BoostSubmission, error) {
	var submissions []boostdomain.BoostSubmission
	err := r.db.WithContext(ctx).
		Where("boost_id = ? AND status = ?", boostID, boostdomain.SubmissionStatusApproved).
		Order("id").
		Find(&submissions).Error
	return submissions, err
}

func (r *repository) ListActiveBonusRules(ctx context.Context, boostID snowflake.ID) ([]boostdomain.ViewBonusRule, error) {
	var rules []boostdomain.ViewBonusRule
	err := r.db.WithContext(ctx).
		Where("boost_id = ? AND is_active = ?", boostID, true).
		Order("view_threshold").
		Find(&rules).Error
	return rules, err
}
