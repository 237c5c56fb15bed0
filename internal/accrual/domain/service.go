package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Run executes one batch reconciliation. Per-source failures are
	// collected into the summary; only infrastructure failures surface as
	// an error.
	Run(ctx context.Context, req RunRequest) (*RunSummary, error)
}

type Repository interface {
	InsertRun(ctx context.Context, record RunRecord) error
	FinishRun(ctx context.Context, id snowflake.ID, status RunStatus, summary RunSummary, finishedAt time.Time) error
}

var (
	ErrInvalidSourceType = errors.New("invalid_source_type")
	ErrInvalidSourceID   = errors.New("invalid_source_id")
	ErrSourceNotFound    = errors.New("source_not_found")
)
