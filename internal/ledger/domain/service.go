package domain

import (
	"context"
	"errors"
)

// Outcome reports how a candidate was merged into the ledger.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
)

type Reconciler interface {
	Reconcile(ctx context.Context, candidate Candidate) (Outcome, error)
}

var (
	ErrInvalidCandidate = errors.New("invalid_candidate")
)
