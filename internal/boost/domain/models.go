// Package domain contains the boost program read models: flat-rate retainers
// plus optional view bonus rules. All records are owned by upstream flows.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type BoostStatus string

const (
	BoostStatusDraft     BoostStatus = "draft"
	BoostStatusActive    BoostStatus = "active"
	BoostStatusPaused    BoostStatus = "paused"
	BoostStatusCompleted BoostStatus = "completed"
)

type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusApproved SubmissionStatus = "approved"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

// BonusType distinguishes one-time milestone payments from recurring
// CPM-style view bonuses.
type BonusType string

const (
	BonusTypeMilestone BonusType = "milestone"
	BonusTypeCPM       BonusType = "cpm"
)

type Boost struct {
	ID                   snowflake.ID `gorm:"primaryKey"`
	BrandID              snowflake.ID `gorm:"not null;index"`
	Name                 string       `gorm:"type:text;not null"`
	MonthlyRetainerCents int64        `gorm:"not null;default:0"`
	ViewBonusesEnabled   bool         `gorm:"not null;default:false"`
	Status               BoostStatus  `gorm:"type:text;not null;index"`
	CreatedAt            time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt            time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Boost) TableName() string { return "boosts" }

type BoostSubmission struct {
	ID          snowflake.ID     `gorm:"primaryKey"`
	BoostID     snowflake.ID     `gorm:"not null;index:idx_boost_submissions_boost_status"`
	CreatorID   snowflake.ID     `gorm:"not null;index"`
	PayoutCents int64            `gorm:"not null;default:0"`
	// ViewCount mirrors the linked analytics record; nil when no record
	// has been ingested yet.
	ViewCount *int64           `gorm:"column:view_count"`
	Status    SubmissionStatus `gorm:"type:text;not null;index:idx_boost_submissions_boost_status"`
	CreatedAt time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (BoostSubmission) TableName() string { return "boost_submissions" }

// Views returns the linked view count, zero when none exists.
func (s BoostSubmission) Views() int64 {
	if s.ViewCount == nil {
		return 0
	}
	return *s.ViewCount
}

type ViewBonusRule struct {
	ID            snowflake.ID `gorm:"primaryKey"`
	BoostID       snowflake.ID `gorm:"not null;index"`
	BonusType     BonusType    `gorm:"type:text;not null"`
	ViewThreshold int64        `gorm:"not null;default:0"`
	// MinViews gates CPM-style bonuses; when nil the threshold doubles as
	// the gate.
	MinViews     *int64    `gorm:"column:min_views"`
	BonusCents   int64     `gorm:"not null;default:0"`
	CPMRateCents int64     `gorm:"not null;default:0"`
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ViewBonusRule) TableName() string { return "view_bonus_rules" }

// MinimumViews returns the gate for CPM-style rules.
func (r ViewBonusRule) MinimumViews() int64 {
	if r.MinViews != nil {
		return *r.MinViews
	}
	return r.ViewThreshold
}

type Repository interface {
	ListActive(ctx context.Context) ([]Boost, error)
	// GetActive returns nil when the boost does not exist or is not active.
	GetActive(ctx context.Context, id snowflake.ID) (*Boost, error)
	ListApprovedSubmissions(ctx context.Context, boostID snowflake.ID) ([]BoostSubmission, error)
	ListActiveBonusRules(ctx context.Context, boostID snowflake.ID) ([]ViewBonusRule, error)
}
