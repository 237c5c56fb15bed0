package server

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	ledgerdomain "github.com/clipfuellabs/clipfuel/internal/ledger/domain"
)

// @Summary      List Ledger Entries
// @Description  Read-only ledger listing for inspection; payout state is owned elsewhere
// @Tags         ledger
// @Produce      json
// @Param        creator_id  query  string  false  "Creator ID"
// @Param        status      query  string  false  "Entry status"
// @Param        limit       query  int     false  "Max rows (default 100)"
// @Success      200  {object}  map[string]any
// @Router       /v1/ledger/entries [get]
func (s *Server) ListLedgerEntries(c *gin.Context) {
	filter := ledgerdomain.ListFilter{}

	if raw := strings.TrimSpace(c.Query("creator_id")); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, newValidationError("creator_id", "invalid_id", "creator_id must be a valid id"))
			return
		}
		filter.CreatorID = id
	}

	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		filter.Status = ledgerdomain.EntryStatus(raw)
	}

	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			AbortWithError(c, newValidationError("limit", "invalid_limit", "limit must be a non-negative integer"))
			return
		}
		filter.Limit = limit
	}

	entries, err := s.ledgerRepo.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondData(c, entries)
}
