package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	accrualdomain "github.com/clipfuellabs/clipfuel/internal/accrual/domain"
)

func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

type validationError struct {
	Field   string
	Code    string
	Message string
}

func (e *validationError) Error() string { return e.Message }

func newValidationError(field, code, message string) error {
	return &validationError{Field: field, Code: code, Message: message}
}

// AbortWithError maps domain errors to HTTP responses. Error bodies carry
// the success:false envelope.
func AbortWithError(c *gin.Context, err error) {
	var vErr *validationError
	switch {
	case errors.As(err, &vErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   vErr.Message,
			"field":   vErr.Field,
			"code":    vErr.Code,
		})
	case errors.Is(err, accrualdomain.ErrInvalidSourceType),
		errors.Is(err, accrualdomain.ErrInvalidSourceID):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, accrualdomain.ErrSourceNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
	}
}
