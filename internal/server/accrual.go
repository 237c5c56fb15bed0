package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	accrualdomain "github.com/clipfuellabs/clipfuel/internal/accrual/domain"
)

// @Summary      Run Accruals
// @Description  Execute one batch reconciliation of earned-but-unpaid amounts
// @Tags         accruals
// @Accept       json
// @Produce      json
// @Param        request body accrualdomain.RunRequest false "Optional source filter"
// @Success      200  {object}  accrualdomain.RunSummary
// @Router       /v1/accruals/run [post]
func (s *Server) RunAccruals(c *gin.Context) {
	var req accrualdomain.RunRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, newValidationError("body", "invalid_json", err.Error()))
			return
		}
	}

	summary, err := s.accrualSvc.Run(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
