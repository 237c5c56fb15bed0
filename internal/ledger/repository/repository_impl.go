package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	ledgerdomain "github.com/clipfuellabs/clipfuel/internal/ledger/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ledgerdomain.Repository {
	return &repository{db: db}
}

func (r *repository) FindByKey(ctx context.Context, key ledgerdomain.EntryKey) (*ledgerdomain.Entry, error) {
	var entry ledgerdomain.Entry
	err := r.db.WithContext(ctx).
		Where("entry_checksum = ?", key.Checksum()).
		First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repository) Insert(ctx context.Context, entry ledgerdomain.Entry) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entry_checksum"}},
			DoNothing: true,
		}).
		Create(&entry)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) CompareAndSwapStatus(ctx context.Context, id snowflake.ID, expected ledgerdomain.EntryStatus, update ledgerdomain.EntryUpdate) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&ledgerdomain.Entry{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(map[string]any{
			"accrued_cents":      update.AccruedCents,
			"views_snapshot":     update.ViewsSnapshot,
			"rate_cents":         update.RateCents,
			"status":             update.Status,
			"last_calculated_at": update.LastCalculatedAt,
			"updated_at":         time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) List(ctx context.Context, filter ledgerdomain.ListFilter) ([]ledgerdomain.Entry, error) {
	q := r.db.WithContext(ctx).Model(&ledgerdomain.Entry{})

	if filter.CreatorID != 0 {
		q = q.Where("creator_id = ?", filter.CreatorID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var entries []ledgerdomain.Entry
	err := q.Order("id DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
