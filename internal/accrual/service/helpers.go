package service

import (
	"math"
	"strings"

	"github.com/bwmarrin/snowflake"
	accrualdomain "github.com/clipfuellabs/clipfuel/internal/accrual/domain"
	ledgerdomain "github.com/clipfuellabs/clipfuel/internal/ledger/domain"
)

// roundCents rounds a raw cent amount half-up to a whole cent.
func roundCents(raw float64) int64 {
	return int64(math.Floor(raw + 0.5))
}

func parseFilter(req accrualdomain.RunRequest) (runFilter, error) {
	sourceType := strings.TrimSpace(req.SourceType)
	sourceID := strings.TrimSpace(req.SourceID)

	filter := runFilter{campaigns: true, boosts: true}

	switch sourceType {
	case "":
		if sourceID != "" {
			// An id without a type is ambiguous.
			return runFilter{}, accrualdomain.ErrInvalidSourceID
		}
		return filter, nil
	case string(ledgerdomain.SourceTypeCampaign):
		filter.boosts = false
	case string(ledgerdomain.SourceTypeBoost):
		filter.campaigns = false
	default:
		return runFilter{}, accrualdomain.ErrInvalidSourceType
	}

	if sourceID == "" {
		return filter, nil
	}

	id, err := snowflake.ParseString(sourceID)
	if err != nil {
		return runFilter{}, accrualdomain.ErrInvalidSourceID
	}
	if filter.campaigns {
		filter.campaignID = &id
	} else {
		filter.boostID = &id
	}
	return filter, nil
}
