// Package domain contains the CPM campaign read models. Campaigns and video
// submissions are owned by the application's review flows; the accrual engine
// never writes them.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
)

type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusApproved SubmissionStatus = "approved"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

type Campaign struct {
	ID            snowflake.ID   `gorm:"primaryKey"`
	BrandID       snowflake.ID   `gorm:"not null;index"`
	Name          string         `gorm:"type:text;not null"`
	PaymentType   string         `gorm:"type:text;not null;default:cpm"`
	CPMRateCents  int64          `gorm:"not null;default:0"`
	FlatRateCents int64          `gorm:"not null;default:0"`
	Status        CampaignStatus `gorm:"type:text;not null;index"`
	CreatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Campaign) TableName() string { return "campaigns" }

type VideoSubmission struct {
	ID         snowflake.ID     `gorm:"primaryKey"`
	CampaignID snowflake.ID     `gorm:"not null;index:idx_video_submissions_campaign_status"`
	CreatorID  snowflake.ID     `gorm:"not null;index"`
	VideoURL   string           `gorm:"type:text"`
	Views      int64            `gorm:"not null;default:0"`
	Status     SubmissionStatus `gorm:"type:text;not null;index:idx_video_submissions_campaign_status"`
	CreatedAt  time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (VideoSubmission) TableName() string { return "video_submissions" }

type Repository interface {
	// ListActive returns campaigns eligible for accrual: active with a
	// positive CPM rate.
	ListActive(ctx context.Context) ([]Campaign, error)
	// GetActive returns nil when the campaign does not exist or is not
	// eligible for accrual.
	GetActive(ctx context.Context, id snowflake.ID) (*Campaign, error)
	// ListApprovedSubmissions returns approved submissions with views > 0.
	ListApprovedSubmissions(ctx context.Context, campaignID snowflake.ID) ([]VideoSubmission, error)
}
