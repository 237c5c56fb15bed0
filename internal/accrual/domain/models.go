// Package domain contains the accrual run contracts: requests, summaries and
// the persisted run records.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type RunStatus string

const (
	RunStatusRunning             RunStatus = "running"
	RunStatusCompleted           RunStatus = "completed"
	RunStatusCompletedWithErrors RunStatus = "completed_with_errors"
	RunStatusFailed              RunStatus = "failed"
)

// RunRequest optionally narrows a run to one source type, or one source.
type RunRequest struct {
	SourceType string `json:"source_type,omitempty"`
	SourceID   string `json:"source_id,omitempty"`
}

type RunSummary struct {
	RunID                string    `json:"run_id"`
	Success              bool      `json:"success"`
	CampaignsProcessed   int       `json:"campaigns_processed"`
	BoostsProcessed      int       `json:"boosts_processed"`
	LedgerEntriesCreated int       `json:"ledger_entries_created"`
	LedgerEntriesUpdated int       `json:"ledger_entries_updated"`
	EntriesSkipped       int       `json:"entries_skipped"`
	Errors               []string  `json:"errors"`
	StartedAt            time.Time `json:"started_at"`
	FinishedAt           time.Time `json:"finished_at"`
}

// RunRecord persists one invocation of the batch for post-hoc inspection.
type RunRecord struct {
	ID                 snowflake.ID   `gorm:"primaryKey"`
	RunID              string         `gorm:"type:text;not null;uniqueIndex"`
	Status             RunStatus      `gorm:"type:text;not null;index"`
	SourceType         string         `gorm:"type:text;not null;default:''"`
	SourceID           string         `gorm:"type:text;not null;default:''"`
	CampaignsProcessed int            `gorm:"not null;default:0"`
	BoostsProcessed    int            `gorm:"not null;default:0"`
	EntriesCreated     int            `gorm:"not null;default:0"`
	EntriesUpdated     int            `gorm:"not null;default:0"`
	EntriesSkipped     int            `gorm:"not null;default:0"`
	ErrorCount         int            `gorm:"not null;default:0"`
	Errors             datatypes.JSON `gorm:"column:errors"`
	StartedAt          time.Time      `gorm:"not null"`
	FinishedAt         *time.Time
}

func (RunRecord) TableName() string { return "accrual_runs" }
