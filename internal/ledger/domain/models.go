// Package domain contains the payment ledger entry model and the contracts
// for merging computed accruals into it. Ledger entries are the single shared
// mutable resource between the accrual engine and the external payout
// process: the engine owns accrued_cents, views_snapshot, rate_cents and
// transitions into/out of pending; the payout process owns paid_cents and the
// locked/clearing/paid transitions.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
)

type PaymentType string

const (
	PaymentTypeCPM       PaymentType = "cpm"
	PaymentTypeFlatRate  PaymentType = "flat_rate"
	PaymentTypeMilestone PaymentType = "milestone"
	PaymentTypeViewBonus PaymentType = "view_bonus"
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypeCPM, PaymentTypeFlatRate, PaymentTypeMilestone, PaymentTypeViewBonus:
		return true
	}
	return false
}

type EntryStatus string

const (
	EntryStatusPending  EntryStatus = "pending"
	EntryStatusLocked   EntryStatus = "locked"
	EntryStatusClearing EntryStatus = "clearing"
	EntryStatusPaid     EntryStatus = "paid"
)

type SourceType string

const (
	SourceTypeCampaign SourceType = "campaign"
	SourceTypeBoost    SourceType = "boost"
)

// EntryKey is the logical identity of a ledger entry: the same payable event
// always resolves to the same row, independent of its storage id.
type EntryKey struct {
	SubmissionID       snowflake.ID
	PaymentType        PaymentType
	MilestoneThreshold *int64
}

// Checksum returns a deterministic digest of the key, stored in a unique
// column so the database enforces at most one entry per logical key.
func (k EntryKey) Checksum() string {
	thresholdPart := "none"
	if k.MilestoneThreshold != nil {
		thresholdPart = strconv.FormatInt(*k.MilestoneThreshold, 10)
	}

	payload := fmt.Sprintf("%s|%s|%s", k.SubmissionID.String(), k.PaymentType, thresholdPart)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

type Entry struct {
	ID                 snowflake.ID `gorm:"primaryKey"`
	CreatorID          snowflake.ID `gorm:"not null;index"`
	SourceType         SourceType   `gorm:"type:text;not null"`
	SourceID           snowflake.ID `gorm:"not null;index"`
	SubmissionID       snowflake.ID `gorm:"not null;index"`
	PaymentType        PaymentType  `gorm:"type:text;not null"`
	MilestoneThreshold *int64       `gorm:"column:milestone_threshold"`
	EntryChecksum      string       `gorm:"type:text;not null;uniqueIndex"`
	ViewsSnapshot      int64        `gorm:"not null;default:0"`
	RateCents          int64        `gorm:"not null;default:0"`
	AccruedCents       int64        `gorm:"not null;default:0"`
	PaidCents          int64        `gorm:"not null;default:0"`
	Status             EntryStatus  `gorm:"type:text;not null;index"`
	LastCalculatedAt   time.Time    `gorm:"not null"`
	CreatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Entry) TableName() string { return "ledger_entries" }

func (e *Entry) Key() EntryKey {
	return EntryKey{
		SubmissionID:       e.SubmissionID,
		PaymentType:        e.PaymentType,
		MilestoneThreshold: e.MilestoneThreshold,
	}
}

// Candidate is one freshly computed accrual awaiting reconciliation.
type Candidate struct {
	Key           EntryKey
	CreatorID     snowflake.ID
	SourceType    SourceType
	SourceID      snowflake.ID
	AccruedCents  int64
	ViewsSnapshot int64
	RateCents     int64
}

// EntryUpdate carries the engine-owned fields of a guarded write.
type EntryUpdate struct {
	AccruedCents     int64
	ViewsSnapshot    int64
	RateCents        int64
	Status           EntryStatus
	LastCalculatedAt time.Time
}
