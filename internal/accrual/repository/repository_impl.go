package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	accrualdomain "github.com/clipfuellabs/clipfuel/internal/accrual/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) accrualdomain.Repository {
	return &repository{db: db}
}

func (r *repository) InsertRun(ctx context.Context, record accrualdomain.RunRecord) error {
	return r.db.WithContext(ctx).Create(&record).Error
}

func (r *repository) FinishRun(ctx context.Context, id snowflake.ID, status accrualdomain.RunStatus, summary accrualdomain.RunSummary, finishedAt time.Time) error {
	errorsJSON, err := json.Marshal(summary.Errors)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&accrualdomain.RunRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":              status,
			"campaigns_processed": summary.CampaignsProcessed,
			"boosts_processed":    summary.BoostsProcessed,
			"entries_created":     summary.LedgerEntriesCreated,
			"entries_updated":     summary.LedgerEntriesUpdated,
			"entries_skipped":     summary.EntriesSkipped,
			"error_count":         len(summary.Errors),
			"errors":              errorsJSON,
			"finished_at":         finishedAt,
		}).Error
}
