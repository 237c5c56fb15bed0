package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type ListFilter struct {
	CreatorID snowflake.ID
	Status    EntryStatus
	Limit     int
}

type Repository interface {
	// FindByKey returns nil when no entry exists for the logical key.
	FindByKey(ctx context.Context, key EntryKey) (*Entry, error)
	// Insert creates the entry unless its logical key already exists; the
	// bool reports whether a row was written.
	Insert(ctx context.Context, entry Entry) (bool, error)
	// CompareAndSwapStatus applies the update only while the entry still
	// holds the expected status. A false result means another process
	// transitioned the entry between read and write.
	CompareAndSwapStatus(ctx context.Context, id snowflake.ID, expected EntryStatus, update EntryUpdate) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]Entry, error)
}
