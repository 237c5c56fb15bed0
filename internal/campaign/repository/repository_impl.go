package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	campaigndomain "github.com/clipfuellabs/clipfuel/internal/campaign/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) campaigndomain.Repository {
	return &repository{db: db}
}

func (r *repository) ListActive(ctx context.Context) ([]campaigndomain.Campaign, error) {
	var campaigns []campaigndomain.Campaign
	err := r.db.WithContext(ctx).
		Where("status = ? AND cpm_rate_cents > 0", campaigndomain.CampaignStatusActive).
		Order("id").
		Find(&campaigns).Error
	return campaigns, err
}

func (r *repository) GetActive(ctx context.Context, id snowflake.ID) (*campaigndomain.Campaign, error) {
	var campaign campaigndomain.Campaign
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ? AND cpm_rate_cents > 0", id, campaigndomain.CampaignStatusActive).
		First(&campaign).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &campaign, nil
}

func (r *repository) ListApprovedSubmissions(ctx context.Context, campaignID snowflake.ID) ([]campaigndomain.VideoSubmission, error) {
	var submissions []campaigndomain.VideoSubmission
	err := r.db.WithContext(ctx).
		Where("campaign_id = ? AND status = ? AND views > 0", campaignID, campaigndomain.SubmissionStatusApproved).
		Order("id").
		Find(&submissions).Error
	return submissions, err
}
